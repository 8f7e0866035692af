package main

import (
	"flag"
	"log"

	"Tradewinds/internal/server"
)

func main() {
	envCfg, err := server.LoadEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	addr := flag.String("addr", envCfg.Addr, "address to listen on (e.g., 127.0.0.1:8080)")
	worldPath := flag.String("world-config", envCfg.WorldConfigPath, "path to world definition YAML")
	seed := flag.Int64("seed", envCfg.Seed, "world RNG seed (0 = time-based)")
	flag.Parse()

	worldCfg, err := server.LoadWorldConfig(*worldPath, *seed)
	if err != nil {
		log.Fatalf("world config: %v", err)
	}

	server.StartApp(*addr, worldCfg)
}
