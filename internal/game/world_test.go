package game

import (
	"testing"
)

func TestGetRoleFallsBackToTrader(t *testing.T) {
	role := GetRole("kraken")
	if role == nil || role.Name != RoleTrader {
		t.Fatalf("expected unknown role to fall back to trader, got %+v", role)
	}
	if GetRole(RolePirate).Name != RolePirate {
		t.Fatalf("expected known role lookup to resolve directly")
	}
}

func TestRandomShipClassStaysPermitted(t *testing.T) {
	w := newTestWorld()
	role := GetRole(RolePatrol)
	permitted := map[ShipClassID]bool{}
	for _, c := range role.ShipClasses {
		permitted[c] = true
	}
	for i := 0; i < 50; i++ {
		if c := role.RandomShipClass(w.Rng()); !permitted[c] {
			t.Fatalf("expected class from permitted set, got %s", c)
		}
	}
}

func TestFindSafeSpawnPositionSkirtsLand(t *testing.T) {
	nav := ParseNavRows([]string{
		"~~~~",
		"~#~~",
		"~~~~",
	}, 100)
	w := NewWorld(WorldConfig{Width: 400, Height: 300, Seed: 1, Nav: nav})

	// Candidate on the land cell: the search must step off it.
	pos, ok := w.FindSafeSpawnPosition(Vec2{X: 150, Y: 150}, 200)
	if !ok {
		t.Fatalf("expected water within the search radius")
	}
	if !nav.WaterAt(pos) {
		t.Fatalf("expected returned point on water, got (%.0f, %.0f)", pos.X, pos.Y)
	}

	// Open water returns the candidate untouched.
	want := Vec2{X: 350, Y: 50}
	pos, ok = w.FindSafeSpawnPosition(want, 200)
	if !ok || pos != want {
		t.Fatalf("expected open-water candidate returned as-is, got (%.0f, %.0f)", pos.X, pos.Y)
	}
}

func TestFindSafeSpawnPositionFailsOutsideWorld(t *testing.T) {
	w := NewWorld(WorldConfig{Width: 400, Height: 300, Seed: 1})
	if _, ok := w.FindSafeSpawnPosition(Vec2{X: -5000, Y: -5000}, 100); ok {
		t.Fatalf("expected no safe position far outside the world")
	}
}

func TestTraderSailsAndDocks(t *testing.T) {
	w := newTestWorld()
	h := w.HarborByID("nassau")
	trader := w.SpawnTrader(h.Pos.Add(Vec2{X: 300, Y: 0}), "nassau", 100)
	if trader == nil {
		t.Fatalf("expected trader spawn on open water")
	}
	if trader.Intent != IntentTravel {
		t.Fatalf("expected trader to start travelling, got %s", trader.Intent)
	}

	for i := 0; i < int(10*SimHz) && trader.Intent != IntentArrived; i++ {
		w.Tick(Dt)
	}
	if trader.Intent != IntentArrived {
		t.Fatalf("expected trader to arrive, still %s at (%.0f, %.0f)", trader.Intent, trader.Pos.X, trader.Pos.Y)
	}
	if !trader.InHarbor || trader.DockedHarborID != "nassau" {
		t.Fatalf("expected trader docked at nassau, got %+v", trader)
	}
}

func TestPatrolSpawnHoldsStation(t *testing.T) {
	w := newTestWorld()
	patrol := w.SpawnPatrol(Vec2{X: 2000, Y: 2000}, 100)
	if patrol == nil {
		t.Fatalf("expected patrol spawn on open water")
	}
	if patrol.Role == nil || patrol.Role.Name != RolePatrol {
		t.Fatalf("expected patrol role, got %+v", patrol.Role)
	}
	if patrol.Intent != IntentWait {
		t.Fatalf("expected patrol to hold station, got %s", patrol.Intent)
	}
}

func TestKillShipNotifiesMissions(t *testing.T) {
	w := newTestWorld()
	dockPlayer(w, "p1", "nassau")
	pirate := w.SpawnPirate(Vec2{X: 2000, Y: 2000}, 0, 100)

	m := NewDefeatNPCsMission("p1", 1, "")
	if err := w.Missions.Assign(w, m); err != nil {
		t.Fatalf("assign: %v", err)
	}

	w.KillShip(pirate.ID, "p1")
	if m.State != MissionSuccess {
		t.Fatalf("expected kill notification to complete the mission, got %s", m.State)
	}
	if !pirate.IsRaft || pirate.Overlay.Active {
		t.Fatalf("expected sunk pirate on a raft with combat cleared, got %+v", pirate)
	}

	// Killing a raft again must not double-count anywhere.
	w.KillShip(pirate.ID, "p1")
}

func TestDespawningShipsAreReaped(t *testing.T) {
	w := newTestWorld()
	trader := w.SpawnTrader(Vec2{X: 2000, Y: 2000}, "havana", 100)
	trader.Intent = IntentDespawning
	w.Tick(Dt)
	if w.Ship(trader.ID) != nil {
		t.Fatalf("expected despawning ship removed at end of tick")
	}
}

func TestOverlayDropRestoresDefaultIntent(t *testing.T) {
	w := newTestWorld()
	trader := w.SpawnTrader(Vec2{X: 2000, Y: 2000}, "havana", 100)
	pirate := w.SpawnPirate(Vec2{X: 2100, Y: 2000}, trader.ID, 100)

	w.DespawnShip(trader.ID)
	w.Tick(Dt)
	if pirate.Overlay.Active {
		t.Fatalf("expected overlay dropped after target despawned")
	}
	if pirate.Intent != GetRole(RolePirate).DefaultIntent {
		t.Fatalf("expected intent back to role default, got %s", pirate.Intent)
	}
}
