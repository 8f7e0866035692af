package game

import "fmt"

// MissionManager owns every player's current mission and is the only
// collection allowed to destroy one. The world ticks it once per step.
type MissionManager struct {
	active map[string]*Mission // keyed by player id
}

func NewMissionManager() *MissionManager {
	return &MissionManager{active: map[string]*Mission{}}
}

// Assign starts a mission for its player. One active mission per player.
func (mm *MissionManager) Assign(w *World, m *Mission) error {
	if existing := mm.active[m.PlayerID]; existing != nil && existing.State == MissionActive {
		return fmt.Errorf("player %s already has an active mission", m.PlayerID)
	}
	mm.active[m.PlayerID] = m
	m.Start(w)
	return nil
}

// Mission returns the player's current mission, terminal or not, until it
// has been flushed to the presentation layer.
func (mm *MissionManager) Mission(playerID string) *Mission {
	return mm.active[playerID]
}

// Tick advances every mission one step. Relative order between missions
// is map order and deliberately unspecified.
func (mm *MissionManager) Tick(w *World, dt float64) {
	for _, m := range mm.active {
		m.Update(w, dt)
	}
}

// NotifyNPCDefeated fans a combat outcome out to every mission.
func (mm *MissionManager) NotifyNPCDefeated(w *World, npcID EntityID, killerID string) {
	for _, m := range mm.active {
		m.OnNPCDefeated(w, npcID, killerID)
	}
}

// Cancel ends the player's mission between ticks. Reports whether a
// mission was there to cancel.
func (mm *MissionManager) Cancel(w *World, playerID string) bool {
	m := mm.active[playerID]
	if m == nil {
		return false
	}
	m.Cancel(w)
	return true
}

// Snapshots serializes every mission for the outbound state push and
// prunes the ones that just went terminal: their final state is included
// exactly once.
func (mm *MissionManager) Snapshots(w *World) []MissionSnapshot {
	if len(mm.active) == 0 {
		return nil
	}
	out := make([]MissionSnapshot, 0, len(mm.active))
	for playerID, m := range mm.active {
		out = append(out, m.Serialize(w))
		if m.State.Terminal() {
			delete(mm.active, playerID)
		}
	}
	return out
}
