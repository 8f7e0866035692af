package game

import (
	"testing"
)

func newTestWorld() *World {
	return NewWorld(WorldConfig{
		Width:  8000,
		Height: 4500,
		Seed:   42,
		Harbors: []Harbor{
			{ID: "nassau", Name: "Nassau", Pos: Vec2{X: 1000, Y: 1000}},
			{ID: "havana", Name: "Havana", Pos: Vec2{X: 5000, Y: 1000}},
		},
	})
}

func dockPlayer(w *World, playerID, harborID string) *Ship {
	h := w.HarborByID(harborID)
	ship := w.SpawnPlayerShip(playerID, playerID, h.Pos)
	ship.InHarbor = true
	ship.DockedHarborID = harborID
	return ship
}

func TestMissionTerminalTransitionsAreGuarded(t *testing.T) {
	w := newTestWorld()
	w.SpawnPlayerShip("p1", "p1", Vec2{X: 100, Y: 100})
	m := NewSailToHarborMission("p1", "nassau", "gold-small")

	m.Succeed(w)
	if m.State != MissionInactive {
		t.Fatalf("expected succeed before start to be a no-op, got state %s", m.State)
	}

	m.Start(w)
	if m.State != MissionActive {
		t.Fatalf("expected active after start, got %s", m.State)
	}
	m.Start(w)
	if m.State != MissionActive {
		t.Fatalf("expected repeated start to be a no-op")
	}

	w.Now = 10
	m.Fail(w)
	if m.State != MissionFailed {
		t.Fatalf("expected failed, got %s", m.State)
	}
	endTime := m.EndTime

	w.Now = 20
	m.Succeed(w)
	m.Cancel(w)
	if m.State != MissionFailed {
		t.Fatalf("expected terminal state to stick, got %s", m.State)
	}
	if m.EndTime != endTime {
		t.Fatalf("expected end time set once, got %.1f then %.1f", endTime, m.EndTime)
	}
}

func TestMissionFailsWhenPlayerShipGone(t *testing.T) {
	w := newTestWorld()
	m := NewSailToHarborMission("ghost", "nassau", "")
	m.Start(w)
	m.Update(w, Dt)
	if m.State != MissionFailed {
		t.Fatalf("expected mission without a player ship to fail, got %s", m.State)
	}
}

func TestMissionFailsWhenPlayerOnRaft(t *testing.T) {
	w := newTestWorld()
	ship := w.SpawnPlayerShip("p1", "p1", Vec2{X: 100, Y: 100})
	ship.IsRaft = true
	m := NewStayInAreaMission("p1", Vec2{X: 100, Y: 100}, 200, 10, "")
	m.Start(w)
	m.Update(w, Dt)
	if m.State != MissionFailed {
		t.Fatalf("expected raft player to fail the mission, got %s", m.State)
	}
}

func TestSailToHarborMission(t *testing.T) {
	w := newTestWorld()
	ship := dockPlayer(w, "p1", "havana")
	m := NewSailToHarborMission("p1", "nassau", "gold-small")
	m.Start(w)

	m.Update(w, Dt)
	if m.State != MissionActive {
		t.Fatalf("expected wrong harbor to leave mission active, got %s", m.State)
	}

	ship.DockedHarborID = "nassau"
	m.Update(w, Dt)
	if m.State != MissionSuccess {
		t.Fatalf("expected docking at target harbor to succeed, got %s", m.State)
	}
}

func TestDefeatNPCsMission(t *testing.T) {
	w := newTestWorld()
	w.SpawnPlayerShip("p1", "p1", Vec2{X: 100, Y: 100})
	m := NewDefeatNPCsMission("p1", 3, "gold-large")
	m.Start(w)
	b := m.behavior.(*defeatNPCsBehavior)

	m.OnNPCDefeated(w, 101, "someone-else")
	if b.defeated != 0 {
		t.Fatalf("expected non-matching killer to leave count unchanged, got %d", b.defeated)
	}

	m.OnNPCDefeated(w, 101, "p1")
	m.OnNPCDefeated(w, 102, "p1")
	if m.State != MissionActive {
		t.Fatalf("expected mission active after 2 of 3 kills, got %s", m.State)
	}
	m.OnNPCDefeated(w, 103, "p1")
	if m.State != MissionSuccess {
		t.Fatalf("expected third kill to succeed the mission, got %s", m.State)
	}
	if b.defeated != 3 {
		t.Fatalf("expected 3 defeats recorded, got %d", b.defeated)
	}

	m.OnNPCDefeated(w, 104, "p1")
	if b.defeated != 3 {
		t.Fatalf("expected no counting after terminal state, got %d", b.defeated)
	}
}

func TestStayInAreaResetsOnLeaving(t *testing.T) {
	w := newTestWorld()
	ship := w.SpawnPlayerShip("p1", "p1", Vec2{X: 500, Y: 500})
	m := NewStayInAreaMission("p1", Vec2{X: 500, Y: 500}, 100, 5, "")
	m.Start(w)
	b := m.behavior.(*stayInAreaBehavior)

	for i := 0; i < 40; i++ {
		m.Update(w, Dt)
	}
	if b.elapsed <= 0 {
		t.Fatalf("expected accumulated time inside the radius, got %.2f", b.elapsed)
	}

	ship.Pos = Vec2{X: 5000, Y: 500}
	m.Update(w, Dt)
	if b.elapsed != 0 {
		t.Fatalf("expected timer reset to exactly 0 on leaving, got %.4f", b.elapsed)
	}

	ship.Pos = Vec2{X: 500, Y: 500}
	for i := 0; i < int(5*SimHz)+1; i++ {
		m.Update(w, Dt)
	}
	if m.State != MissionSuccess {
		t.Fatalf("expected full hold to succeed, got %s", m.State)
	}
}

func TestMissionManagerOneActivePerPlayer(t *testing.T) {
	w := newTestWorld()
	dockPlayer(w, "p1", "nassau")

	first := NewSailToHarborMission("p1", "havana", "")
	if err := w.Missions.Assign(w, first); err != nil {
		t.Fatalf("expected first assignment to succeed, got %v", err)
	}
	second := NewDefeatNPCsMission("p1", 2, "")
	if err := w.Missions.Assign(w, second); err == nil {
		t.Fatalf("expected second active mission to be rejected")
	}
}

func TestMissionManagerFlushesTerminalOnce(t *testing.T) {
	w := newTestWorld()
	dockPlayer(w, "p1", "nassau")
	m := NewSailToHarborMission("p1", "nassau", "")
	if err := w.Missions.Assign(w, m); err != nil {
		t.Fatalf("assign: %v", err)
	}

	w.Missions.Tick(w, Dt)
	if m.State != MissionSuccess {
		t.Fatalf("expected mission success, got %s", m.State)
	}

	snaps := w.Missions.Snapshots(w)
	if len(snaps) != 1 || snaps[0].State != "success" {
		t.Fatalf("expected one terminal snapshot, got %+v", snaps)
	}
	if snaps[0].Progress != 1 {
		t.Fatalf("expected full progress on success, got %.2f", snaps[0].Progress)
	}
	if again := w.Missions.Snapshots(w); len(again) != 0 {
		t.Fatalf("expected terminal mission pruned after flush, got %d snapshots", len(again))
	}
	if w.Missions.Mission("p1") != nil {
		t.Fatalf("expected mission removed from manager")
	}
}

func TestMissionCancelBetweenTicks(t *testing.T) {
	w := newTestWorld()
	dockPlayer(w, "p1", "nassau")
	m := NewStayInAreaMission("p1", Vec2{X: 0, Y: 0}, 100, 60, "")
	if err := w.Missions.Assign(w, m); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if !w.Missions.Cancel(w, "p1") {
		t.Fatalf("expected cancel to find the mission")
	}
	if m.State != MissionCancelled {
		t.Fatalf("expected cancelled, got %s", m.State)
	}
	if w.Missions.Cancel(w, "p1") {
		t.Fatalf("expected second cancel to report nothing to do")
	}
}

func TestSerializeCarriesTargetPosition(t *testing.T) {
	w := newTestWorld()
	dockPlayer(w, "p1", "havana")
	m := NewSailToHarborMission("p1", "nassau", "gold-small")
	m.Start(w)

	snap := m.Serialize(w)
	if snap.Target == nil {
		t.Fatalf("expected target position in snapshot")
	}
	h := w.HarborByID("nassau")
	if snap.Target.X != h.Pos.X || snap.Target.Y != h.Pos.Y {
		t.Fatalf("expected target at harbor, got (%.0f, %.0f)", snap.Target.X, snap.Target.Y)
	}
	if snap.Description == "" {
		t.Fatalf("expected description to be populated")
	}
	if snap.RewardKey != "gold-small" {
		t.Fatalf("expected reward key in snapshot, got %q", snap.RewardKey)
	}
}
