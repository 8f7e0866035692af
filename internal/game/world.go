package game

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

type EntityID int64

type Harbor struct {
	ID   string
	Name string
	Pos  Vec2
}

type Player struct {
	ID   string
	Name string
	Ship EntityID
}

// Ship is the single entity type for players and NPCs alike. NPCs differ
// only by carrying a role profile; players have Role == nil and an owner.
type Ship struct {
	ID         EntityID
	Owner      string // player id, empty for NPCs
	Class      ShipClassID
	Role       *RoleProfile
	Intent     Intent
	Overlay    CombatOverlay
	Pos        Vec2
	Vel        Vec2
	MaxSpeed   float64
	SpeedScale float64 // convoy pacing multiplier on MaxSpeed
	HP         int

	DestinationHarborID string
	DockedHarborID      string
	InHarbor            bool
	IsRaft              bool // hull gone, drifting; disabled for all purposes
}

func (s *Ship) IsNPC() bool { return s.Role != nil }

func (s *Ship) effectiveSpeed() float64 {
	scale := s.SpeedScale
	if scale <= 0 {
		scale = 1
	}
	return s.MaxSpeed * scale
}

// NavGrid is a coarse water/land mask. A nil grid means open water
// everywhere inside the world bounds.
type NavGrid struct {
	CellSize float64
	Cols     int
	Rows     int
	Water    []bool
}

// ParseNavRows builds a grid from mask rows, '~' (or ' ') marking water.
func ParseNavRows(rows []string, cellSize float64) *NavGrid {
	if len(rows) == 0 || cellSize <= 0 {
		return nil
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}
	g := &NavGrid{CellSize: cellSize, Cols: cols, Rows: len(rows), Water: make([]bool, cols*len(rows))}
	for y, row := range rows {
		for x := 0; x < cols; x++ {
			ch := byte('~')
			if x < len(row) {
				ch = row[x]
			}
			g.Water[y*cols+x] = ch == '~' || ch == ' '
		}
	}
	return g
}

func (g *NavGrid) WaterAt(p Vec2) bool {
	if g == nil {
		return true
	}
	col := int(math.Floor(p.X / g.CellSize))
	row := int(math.Floor(p.Y / g.CellSize))
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return false
	}
	return g.Water[row*g.Cols+col]
}

type WorldConfig struct {
	Width   float64
	Height  float64
	Seed    int64
	Harbors []Harbor
	Nav     *NavGrid
	Escort  EscortTuning
}

// World owns every live entity and advances them all from a single
// goroutine per tick. Everything else reads through it.
type World struct {
	Now      float64
	Width    float64
	Height   float64
	Players  map[string]*Player
	Missions *MissionManager
	Escort   EscortTuning
	Mu       sync.Mutex

	ships       map[EntityID]*Ship
	harbors     []Harbor
	harborIndex map[string]int
	nav         *NavGrid
	rng         *rand.Rand
	nextEntity  EntityID
}

func NewWorld(cfg WorldConfig) *World {
	if cfg.Width <= 0 {
		cfg.Width = WorldW
	}
	if cfg.Height <= 0 {
		cfg.Height = WorldH
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.Escort == (EscortTuning{}) {
		cfg.Escort = DefaultEscortTuning()
	}
	w := &World{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Players:     map[string]*Player{},
		Escort:      cfg.Escort,
		ships:       map[EntityID]*Ship{},
		harborIndex: map[string]int{},
		nav:         cfg.Nav,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
	}
	w.Missions = NewMissionManager()
	for _, h := range cfg.Harbors {
		w.AddHarbor(h)
	}
	return w
}

func (w *World) AddHarbor(h Harbor) {
	w.harborIndex[h.ID] = len(w.harbors)
	w.harbors = append(w.harbors, h)
}

func (w *World) Harbors() []Harbor { return w.harbors }

func (w *World) HarborByID(id string) *Harbor {
	if idx, ok := w.harborIndex[id]; ok {
		return &w.harbors[idx]
	}
	return nil
}

func (w *World) NearestHarbor(pos Vec2) *Harbor {
	var best *Harbor
	bestDist := math.MaxFloat64
	for i := range w.harbors {
		d := w.harbors[i].Pos.Sub(pos).Len()
		if d < bestDist {
			bestDist = d
			best = &w.harbors[i]
		}
	}
	return best
}

// Ship returns the live entity or nil when absent/despawned.
func (w *World) Ship(id EntityID) *Ship {
	return w.ships[id]
}

func (w *World) PlayerShip(playerID string) *Ship {
	p := w.Players[playerID]
	if p == nil {
		return nil
	}
	return w.Ship(p.Ship)
}

func (w *World) Rng() *rand.Rand { return w.rng }

// ForEachShip visits every live ship in unspecified order.
func (w *World) ForEachShip(fn func(*Ship)) {
	for _, s := range w.ships {
		fn(s)
	}
}

func (w *World) inBounds(p Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= w.Width && p.Y <= w.Height
}

func (w *World) navigable(p Vec2) bool {
	return w.inBounds(p) && w.nav.WaterAt(p)
}

// FindSafeSpawnPosition searches outward from the candidate point for
// navigable water, sampling concentric rings up to searchRadius.
func (w *World) FindSafeSpawnPosition(pos Vec2, searchRadius float64) (Vec2, bool) {
	if w.navigable(pos) {
		return pos, true
	}
	for radius := SpawnSearchStep; radius <= searchRadius; radius += SpawnSearchStep {
		for i := 0; i < SpawnSearchSamples; i++ {
			angle := 2 * math.Pi * float64(i) / SpawnSearchSamples
			candidate := Vec2{
				X: pos.X + radius*math.Cos(angle),
				Y: pos.Y + radius*math.Sin(angle),
			}
			if w.navigable(candidate) {
				return candidate, true
			}
		}
	}
	return Vec2{}, false
}

func (w *World) newShip(pos Vec2) *Ship {
	w.nextEntity++
	s := &Ship{
		ID:         w.nextEntity,
		Pos:        pos,
		MaxSpeed:   ShipMaxSpeedDefault,
		SpeedScale: 1,
		HP:         ShipMaxHP,
		Intent:     IntentWait,
		Class:      ClassSloop,
	}
	w.ships[s.ID] = s
	return s
}

func (w *World) SpawnPlayerShip(playerID, name string, pos Vec2) *Ship {
	s := w.newShip(pos)
	s.Owner = playerID
	p := w.Players[playerID]
	if p == nil {
		p = &Player{ID: playerID, Name: name}
		w.Players[playerID] = p
	}
	p.Ship = s.ID
	return s
}

func (w *World) spawnNPC(role *RoleProfile, pos Vec2) *Ship {
	s := w.newShip(pos)
	s.Role = role
	s.Intent = role.DefaultIntent
	s.Class = role.RandomShipClass(w.rng)
	return s
}

// SpawnTrader places a trader NPC bound for the destination harbor,
// validating the position against the water mask first. Returns nil when
// no navigable water exists within radius.
func (w *World) SpawnTrader(pos Vec2, destinationHarborID string, radius float64) *Ship {
	safe, ok := w.FindSafeSpawnPosition(pos, radius)
	if !ok {
		return nil
	}
	s := w.spawnNPC(GetRole(RoleTrader), safe)
	s.DestinationHarborID = destinationHarborID
	s.Intent = IntentTravel
	return s
}

// SpawnPirate places a hostile NPC anchored on anchorID: its overlay is
// activated against the anchor so it immediately presses the attack.
// Returns nil when no navigable water exists within radius.
func (w *World) SpawnPirate(pos Vec2, anchorID EntityID, radius float64) *Ship {
	safe, ok := w.FindSafeSpawnPosition(pos, radius)
	if !ok {
		return nil
	}
	s := w.spawnNPC(GetRole(RolePirate), safe)
	if anchorID != 0 && w.Ship(anchorID) != nil {
		if s.Overlay.Activate(s, anchorID, false) {
			s.Intent = IntentEngage
		}
	}
	return s
}

// SpawnPatrol places a patrol NPC holding station near pos. Returns nil
// when no navigable water exists within radius.
func (w *World) SpawnPatrol(pos Vec2, radius float64) *Ship {
	safe, ok := w.FindSafeSpawnPosition(pos, radius)
	if !ok {
		return nil
	}
	s := w.spawnNPC(GetRole(RolePatrol), safe)
	s.Intent = IntentWait
	return s
}

// KillShip is the entry point for the combat/death subsystem: the hull is
// gone, the crew drifts on a raft, and missions watching the fight are
// notified.
func (w *World) KillShip(id EntityID, killerPlayerID string) {
	s := w.Ship(id)
	if s == nil || s.IsRaft {
		return
	}
	s.IsRaft = true
	s.HP = 0
	s.Vel = Vec2{}
	s.Overlay.Deactivate()
	w.Missions.NotifyNPCDefeated(w, id, killerPlayerID)
}

func (w *World) DespawnShip(id EntityID) {
	delete(w.ships, id)
}

// Tick advances the whole world one step: time, ship movement, combat
// overlays, then missions. Single writer; callers hold no other locks.
func (w *World) Tick(dt float64) {
	w.Mu.Lock()
	defer w.Mu.Unlock()
	w.Now += dt

	updateTravel(w, dt)
	updateOverlays(w)
	w.Missions.Tick(w, dt)
	reapDespawning(w)
}
