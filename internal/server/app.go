package server

import (
	"log"
	"time"

	. "Tradewinds/internal/game"
)

// StartApp wires the world, the tick loop and the websocket server
// together and blocks serving.
func StartApp(addr string, cfg WorldConfig) {
	world := NewWorld(cfg)
	seedNPCTraffic(world)

	go func() {
		interval := time.Duration(float64(time.Second) / SimHz)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			world.Tick(Dt)
		}
	}()

	srv := NewServer(world)
	go srv.broadcastLoop()

	log.Printf("starting server on %s (%d harbors, %.0fx%.0f map)",
		addr, len(world.Harbors()), world.Width, world.Height)
	startServer(srv, addr)
}

// seedNPCTraffic puts a little life on the map at startup: one trader
// lane and a patrol per harbor pair, so the world is not empty before the
// first mission spawns anything.
func seedNPCTraffic(w *World) {
	harbors := w.Harbors()
	if len(harbors) < 2 {
		return
	}
	for i := range harbors {
		from := harbors[i]
		to := harbors[(i+1)%len(harbors)]
		mid := from.Pos.Add(to.Pos.Sub(from.Pos).Scale(0.3))
		if trader := w.SpawnTrader(mid, to.ID, 600); trader == nil {
			log.Printf("seed: no safe water for trader near harbor %s", from.ID)
		}
		post := from.Pos.Add(to.Pos.Sub(from.Pos).Scale(0.1))
		if patrol := w.SpawnPatrol(post, 600); patrol == nil {
			log.Printf("seed: no safe water for patrol near harbor %s", from.ID)
		}
	}
}
