package game

import "fmt"

// EscortTuning collects every knob of the escort mission. Loaded from the
// world config; the attack schedule is derived from MaxAttacks so mission
// types with more ambushes space them evenly instead of inheriting fixed
// thresholds.
type EscortTuning struct {
	DockedSpawnDistance   float64 // rendezvous offset when the player departs a harbor
	DirectSpawnDistance   float64 // rendezvous offset when the player starts at sea
	MinRouteDistance      float64 // origin and destination closer than this is a bad route
	SpawnSearchRadius     float64 // first safe-water search around the rendezvous
	SpawnRevalidateRadius float64 // tighter second search before the trader spawns
	ArrivalRadius         float64 // player distance that triggers the phase switch
	SpeedFactor           float64 // convoy target speed as fraction of player max
	SpeedScaleMin         float64
	SpeedScaleMax         float64
	MaxAttacks            int
	AttackMargin          float64 // progress fraction kept ambush-free at both ends
	AttackCooldown        float64 // seconds between ambushes
	PiratesPerAttack      int
	AttackLateralOffset   float64 // pirate spread perpendicular to the route
	AttackSpawnRadius     float64 // safe-water search per pirate
	MaxPlayerDistance     float64 // player straying beyond this fails the mission
}

func DefaultEscortTuning() EscortTuning {
	return EscortTuning{
		DockedSpawnDistance:   900,
		DirectSpawnDistance:   450,
		MinRouteDistance:      200,
		SpawnSearchRadius:     400,
		SpawnRevalidateRadius: 160,
		ArrivalRadius:         150,
		SpeedFactor:           0.9,
		SpeedScaleMin:         0.5,
		SpeedScaleMax:         1.2,
		MaxAttacks:            2,
		AttackMargin:          0.15,
		AttackCooldown:        25,
		PiratesPerAttack:      3,
		AttackLateralOffset:   350,
		AttackSpawnRadius:     240,
		MaxPlayerDistance:     1500,
	}
}

type escortPhase int

const (
	phaseDeparture escortPhase = iota // stage the rendezvous, wait for the player
	phaseEscort                       // convoy under way
)

func (p escortPhase) String() string {
	if p == phaseDeparture {
		return "departure"
	}
	return "escort"
}

type escortBehavior struct {
	baseBehavior
	DestinationHarborID string
	tuning              EscortTuning

	phase           escortPhase
	spawnPoint      Vec2
	haveSpawnPoint  bool
	escortID        EntityID // weak reference, re-resolved every tick
	playerMaxSpeed  float64
	initialDistance float64
	attacksSpawned  int
	lastAttackAt    float64
}

// NewEscortMission stages a rendezvous off the player's origin, spawns a
// trader there once the player shows up, and protects it to the
// destination harbor while ambushes are scheduled along the route.
func NewEscortMission(playerID, destinationHarborID, rewardKey string, tuning EscortTuning) *Mission {
	m := newMission("escort", playerID, rewardKey)
	m.behavior = &escortBehavior{
		DestinationHarborID: destinationHarborID,
		tuning:              tuning,
		phase:               phaseDeparture,
	}
	return m
}

func (b *escortBehavior) onUpdate(w *World, m *Mission, dt float64) {
	if b.phase == phaseEscort {
		b.updateEscort(w, m)
		return
	}
	b.updateDeparture(w, m)
}

/* ------------------------------ departure ------------------------------- */

func (b *escortBehavior) updateDeparture(w *World, m *Mission) {
	ship := m.requirePlayerShip(w)
	if ship == nil {
		return
	}
	if !b.haveSpawnPoint {
		if !b.stageRendezvous(w, m, ship) {
			return
		}
	}
	if ship.Pos.Sub(b.spawnPoint).Len() <= b.tuning.ArrivalRadius {
		b.beginEscort(w, m, ship)
	}
}

// stageRendezvous computes the one-time meeting point: a fixed distance
// from the player's origin harbor along the route line, farther out when
// the player is actually docked there.
func (b *escortBehavior) stageRendezvous(w *World, m *Mission, ship *Ship) bool {
	dest := w.HarborByID(b.DestinationHarborID)
	if dest == nil {
		m.Fail(w)
		return false
	}

	var origin *Harbor
	offset := b.tuning.DirectSpawnDistance
	if ship.InHarbor {
		origin = w.HarborByID(ship.DockedHarborID)
		offset = b.tuning.DockedSpawnDistance
	}
	if origin == nil {
		origin = w.NearestHarbor(ship.Pos)
	}
	if origin == nil {
		m.Fail(w)
		return false
	}

	route := dest.Pos.Sub(origin.Pos)
	if route.Len() < b.tuning.MinRouteDistance {
		m.Fail(w)
		return false
	}

	candidate := origin.Pos.Add(unitOrZero(route).Scale(offset))
	point, ok := w.FindSafeSpawnPosition(candidate, b.tuning.SpawnSearchRadius)
	if !ok {
		m.Fail(w)
		return false
	}
	b.spawnPoint = point
	b.haveSpawnPoint = true
	return true
}

// beginEscort re-validates the rendezvous with a tighter search, spawns
// the trader and flips the phase. No retry on failure.
func (b *escortBehavior) beginEscort(w *World, m *Mission, ship *Ship) {
	point, ok := w.FindSafeSpawnPosition(b.spawnPoint, b.tuning.SpawnRevalidateRadius)
	if !ok {
		m.Fail(w)
		return
	}
	trader := w.SpawnTrader(point, b.DestinationHarborID, b.tuning.SpawnRevalidateRadius)
	if trader == nil {
		m.Fail(w)
		return
	}
	dest := w.HarborByID(b.DestinationHarborID)
	if dest == nil {
		m.Fail(w)
		return
	}
	b.escortID = trader.ID
	b.playerMaxSpeed = ship.MaxSpeed
	b.initialDistance = trader.Pos.Sub(dest.Pos).Len()
	// Guarantee the first ambush window opens on schedule, not a cooldown
	// after mission start.
	b.lastAttackAt = w.Now - b.tuning.AttackCooldown
	b.phase = phaseEscort
}

/* -------------------------------- escort -------------------------------- */

func (b *escortBehavior) updateEscort(w *World, m *Mission) {
	escort := w.Ship(b.escortID)

	// Arrival wins over everything else, including the player-distance
	// failure below: a convoy that already made port must never lose to a
	// stale position check in the same tick.
	if escort != nil && escort.Intent == IntentArrived {
		m.Succeed(w)
		return
	}

	ship := m.requirePlayerShip(w)
	if ship == nil {
		return
	}
	if escort == nil || escort.IsRaft || escort.Intent == IntentDespawning {
		m.Fail(w)
		return
	}

	b.tuneConvoySpeed(escort)

	progress := b.routeProgress(w, escort)
	b.scheduleAmbush(w, escort, progress)

	if ship.Pos.Sub(escort.Pos).Len() > b.tuning.MaxPlayerDistance {
		m.Fail(w)
	}
}

// tuneConvoySpeed keeps the trader near SpeedFactor of the player's max
// speed so neither side can permanently outrun the other.
func (b *escortBehavior) tuneConvoySpeed(escort *Ship) {
	if escort.MaxSpeed <= 0 {
		return
	}
	scale := b.playerMaxSpeed * b.tuning.SpeedFactor / escort.MaxSpeed
	escort.SpeedScale = Clamp(scale, b.tuning.SpeedScaleMin, b.tuning.SpeedScaleMax)
}

func (b *escortBehavior) routeProgress(w *World, escort *Ship) float64 {
	if b.initialDistance <= 0 {
		return 0
	}
	dest := w.HarborByID(b.DestinationHarborID)
	if dest == nil {
		return 0
	}
	remaining := escort.Pos.Sub(dest.Pos).Len()
	return Clamp(1-remaining/b.initialDistance, 0, 1)
}

// nextAttackProgress is the route fraction that unlocks the next ambush:
// attacks split the route into MaxAttacks+1 even legs.
func (b *escortBehavior) nextAttackProgress() float64 {
	return float64(b.attacksSpawned+1) / float64(b.tuning.MaxAttacks+1)
}

func (b *escortBehavior) scheduleAmbush(w *World, escort *Ship, progress float64) {
	t := &b.tuning
	if b.attacksSpawned >= t.MaxAttacks {
		return
	}
	if progress < b.nextAttackProgress() {
		return
	}
	if progress < t.AttackMargin || progress > 1-t.AttackMargin {
		return
	}
	if w.Now-b.lastAttackAt < t.AttackCooldown {
		return
	}
	b.spawnAmbush(w, escort)
	b.attacksSpawned++
	b.lastAttackAt = w.Now
}

// spawnAmbush places pirates laterally off the route line ahead of the
// convoy. Each position is validated for water individually; a pirate
// with no water to spawn in is skipped, never a mission failure.
func (b *escortBehavior) spawnAmbush(w *World, escort *Ship) {
	t := &b.tuning
	dest := w.HarborByID(b.DestinationHarborID)
	if dest == nil {
		return
	}
	along := unitOrZero(dest.Pos.Sub(escort.Pos))
	lateral := orthogonal(along)
	rng := w.Rng()
	for i := 0; i < t.PiratesPerAttack; i++ {
		ahead := randomBetween(rng, t.AttackLateralOffset, t.AttackLateralOffset*2)
		side := randomBetween(rng, t.AttackLateralOffset*0.5, t.AttackLateralOffset)
		if rng.Intn(2) == 0 {
			side = -side
		}
		pos := escort.Pos.Add(along.Scale(ahead)).Add(lateral.Scale(side))
		w.SpawnPirate(pos, escort.ID, t.AttackSpawnRadius)
	}
}

/* ----------------------------- presentation ----------------------------- */

func (b *escortBehavior) description(w *World) string {
	if h := w.HarborByID(b.DestinationHarborID); h != nil {
		return fmt.Sprintf("Escort the convoy to %s", h.Name)
	}
	return "Escort the convoy"
}

func (b *escortBehavior) targetPosition(w *World) (Vec2, bool) {
	if b.phase == phaseDeparture {
		if b.haveSpawnPoint {
			return b.spawnPoint, true
		}
		return Vec2{}, false
	}
	if escort := w.Ship(b.escortID); escort != nil {
		return escort.Pos, true
	}
	return Vec2{}, false
}

func (b *escortBehavior) progress(w *World, snap *MissionSnapshot) {
	snap.Phase = b.phase.String()
	if b.phase == phaseEscort {
		if escort := w.Ship(b.escortID); escort != nil {
			snap.Progress = b.routeProgress(w, escort)
		}
	}
}
