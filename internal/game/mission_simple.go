package game

import "fmt"

/* ---------------------------- sail to harbor ---------------------------- */

type sailToHarborBehavior struct {
	baseBehavior
	HarborID string
}

// NewSailToHarborMission succeeds once the player is docked at the target
// harbor.
func NewSailToHarborMission(playerID, harborID, rewardKey string) *Mission {
	m := newMission("sail_to_harbor", playerID, rewardKey)
	m.behavior = &sailToHarborBehavior{HarborID: harborID}
	return m
}

func (b *sailToHarborBehavior) onUpdate(w *World, m *Mission, dt float64) {
	ship := m.requirePlayerShip(w)
	if ship == nil {
		return
	}
	if ship.InHarbor && ship.DockedHarborID == b.HarborID {
		m.Succeed(w)
	}
}

func (b *sailToHarborBehavior) description(w *World) string {
	if h := w.HarborByID(b.HarborID); h != nil {
		return fmt.Sprintf("Sail to %s", h.Name)
	}
	return fmt.Sprintf("Sail to %s", b.HarborID)
}

func (b *sailToHarborBehavior) targetPosition(w *World) (Vec2, bool) {
	if h := w.HarborByID(b.HarborID); h != nil {
		return h.Pos, true
	}
	return Vec2{}, false
}

/* ----------------------------- defeat NPCs ------------------------------ */

type defeatNPCsBehavior struct {
	baseBehavior
	Required int
	defeated int
}

// NewDefeatNPCsMission succeeds after the player defeats the required
// number of NPCs. Progress is pushed in through OnNPCDefeated, not polled.
func NewDefeatNPCsMission(playerID string, required int, rewardKey string) *Mission {
	m := newMission("defeat_npcs", playerID, rewardKey)
	m.behavior = &defeatNPCsBehavior{Required: required}
	return m
}

func (b *defeatNPCsBehavior) onUpdate(w *World, m *Mission, dt float64) {
	m.requirePlayerShip(w)
}

func (b *defeatNPCsBehavior) onNPCDefeated(w *World, m *Mission, npcID EntityID, killerID string) {
	if killerID != m.PlayerID {
		return
	}
	b.defeated++
	if b.defeated >= b.Required {
		m.Succeed(w)
	}
}

func (b *defeatNPCsBehavior) description(w *World) string {
	return fmt.Sprintf("Defeat %d hostile ships", b.Required)
}

func (b *defeatNPCsBehavior) progress(w *World, snap *MissionSnapshot) {
	snap.Count = b.defeated
	snap.Required = b.Required
	if b.Required > 0 {
		snap.Progress = Clamp(float64(b.defeated)/float64(b.Required), 0, 1)
	}
}

/* ----------------------------- stay in area ----------------------------- */

type stayInAreaBehavior struct {
	baseBehavior
	Center   Vec2
	Radius   float64
	Duration float64
	elapsed  float64
}

// NewStayInAreaMission succeeds after the player holds inside the circle
// for the full duration. Leaving resets the clock to zero, no partial
// credit.
func NewStayInAreaMission(playerID string, center Vec2, radius, duration float64, rewardKey string) *Mission {
	m := newMission("stay_in_area", playerID, rewardKey)
	m.behavior = &stayInAreaBehavior{Center: center, Radius: radius, Duration: duration}
	return m
}

func (b *stayInAreaBehavior) onUpdate(w *World, m *Mission, dt float64) {
	ship := m.requirePlayerShip(w)
	if ship == nil {
		return
	}
	if ship.Pos.Sub(b.Center).Len() <= b.Radius {
		b.elapsed += dt
		if b.elapsed >= b.Duration {
			m.Succeed(w)
		}
	} else {
		b.elapsed = 0
	}
}

func (b *stayInAreaBehavior) description(w *World) string {
	return fmt.Sprintf("Hold position for %.0f seconds", b.Duration)
}

func (b *stayInAreaBehavior) targetPosition(w *World) (Vec2, bool) {
	return b.Center, true
}

func (b *stayInAreaBehavior) progress(w *World, snap *MissionSnapshot) {
	if b.Duration > 0 {
		snap.Progress = Clamp(b.elapsed/b.Duration, 0, 1)
	}
}
