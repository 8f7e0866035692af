package game

// MissionState tracks the lifecycle shared by every mission variant.
type MissionState int

const (
	MissionInactive MissionState = iota
	MissionActive
	MissionSuccess
	MissionFailed
	MissionCancelled
)

func (s MissionState) String() string {
	switch s {
	case MissionInactive:
		return "inactive"
	case MissionActive:
		return "active"
	case MissionSuccess:
		return "success"
	case MissionFailed:
		return "failed"
	case MissionCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (s MissionState) Terminal() bool {
	return s == MissionSuccess || s == MissionFailed || s == MissionCancelled
}

// missionBehavior is the fixed hook set a variant implements. Lifecycle
// guarding lives on Mission, once; behaviors never change State directly
// except through the guarded Succeed/Fail/Cancel.
type missionBehavior interface {
	onStart(w *World, m *Mission)
	onUpdate(w *World, m *Mission, dt float64)
	onSuccess(w *World, m *Mission)
	onFail(w *World, m *Mission)
	onCancel(w *World, m *Mission)
	description(w *World) string
	targetPosition(w *World) (Vec2, bool)
	progress(w *World, snap *MissionSnapshot)
}

// npcDefeatListener is the optional push-driven hook for variants that
// react to combat outcomes instead of polling.
type npcDefeatListener interface {
	onNPCDefeated(w *World, m *Mission, npcID EntityID, killerID string)
}

// baseBehavior supplies no-op defaults so variants only write the hooks
// they care about.
type baseBehavior struct{}

func (baseBehavior) onStart(*World, *Mission)           {}
func (baseBehavior) onUpdate(*World, *Mission, float64) {}
func (baseBehavior) onSuccess(*World, *Mission)         {}
func (baseBehavior) onFail(*World, *Mission)            {}
func (baseBehavior) onCancel(*World, *Mission)          {}
func (baseBehavior) targetPosition(*World) (Vec2, bool) { return Vec2{}, false }
func (baseBehavior) progress(*World, *MissionSnapshot)  {}

// Mission is a player-scoped objective. Exactly one terminal transition
// can ever fire; repeated or conflicting calls inside the same tick are
// absorbed by the ACTIVE guard, first writer wins.
type Mission struct {
	ID        string
	Type      string
	PlayerID  string
	State     MissionState
	StartTime float64
	EndTime   float64
	RewardKey string

	behavior missionBehavior
}

func newMission(missionType, playerID, rewardKey string) *Mission {
	return &Mission{
		ID:        RandId("ms"),
		Type:      missionType,
		PlayerID:  playerID,
		RewardKey: rewardKey,
		State:     MissionInactive,
	}
}

// Start transitions INACTIVE to ACTIVE. Any other starting state is a
// no-op.
func (m *Mission) Start(w *World) {
	if m.State != MissionInactive {
		return
	}
	m.State = MissionActive
	m.StartTime = w.Now
	m.behavior.onStart(w, m)
}

// Update advances the mission one tick while ACTIVE.
func (m *Mission) Update(w *World, dt float64) {
	if m.State != MissionActive {
		return
	}
	m.behavior.onUpdate(w, m, dt)
}

func (m *Mission) Succeed(w *World) {
	if m.State != MissionActive {
		return
	}
	m.State = MissionSuccess
	m.EndTime = w.Now
	m.behavior.onSuccess(w, m)
}

func (m *Mission) Fail(w *World) {
	if m.State != MissionActive {
		return
	}
	m.State = MissionFailed
	m.EndTime = w.Now
	m.behavior.onFail(w, m)
}

func (m *Mission) Cancel(w *World) {
	if m.State != MissionActive {
		return
	}
	m.State = MissionCancelled
	m.EndTime = w.Now
	m.behavior.onCancel(w, m)
}

// OnNPCDefeated routes a combat outcome to variants that listen for it.
func (m *Mission) OnNPCDefeated(w *World, npcID EntityID, killerID string) {
	if m.State != MissionActive {
		return
	}
	if listener, ok := m.behavior.(npcDefeatListener); ok {
		listener.onNPCDefeated(w, m, npcID, killerID)
	}
}

// TargetPosition returns the variant's point of interest for presentation.
func (m *Mission) TargetPosition(w *World) (Vec2, bool) {
	return m.behavior.targetPosition(w)
}

// MissionTarget is a presentation point of interest.
type MissionTarget struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MissionSnapshot is the immutable state handed to the presentation
// layer. It carries no references into live entities.
type MissionSnapshot struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	State       string         `json:"state"`
	Description string         `json:"description"`
	RewardKey   string         `json:"reward_key,omitempty"`
	Target      *MissionTarget `json:"target,omitempty"`
	Progress    float64        `json:"progress"`
	Phase       string         `json:"phase,omitempty"`
	Count       int            `json:"count,omitempty"`
	Required    int            `json:"required,omitempty"`
}

// Serialize builds the outbound snapshot for this mission.
func (m *Mission) Serialize(w *World) MissionSnapshot {
	snap := MissionSnapshot{
		ID:          m.ID,
		Type:        m.Type,
		State:       m.State.String(),
		Description: m.behavior.description(w),
		RewardKey:   m.RewardKey,
	}
	if pos, ok := m.behavior.targetPosition(w); ok {
		snap.Target = &MissionTarget{X: pos.X, Y: pos.Y}
	}
	m.behavior.progress(w, &snap)
	if m.State == MissionSuccess {
		snap.Progress = 1
	}
	return snap
}

// requirePlayerShip enforces the failure precondition shared by every
// variant: the owning player's ship must exist and still be a ship, not a
// raft. Returns nil after failing the mission otherwise.
func (m *Mission) requirePlayerShip(w *World) *Ship {
	s := w.PlayerShip(m.PlayerID)
	if s == nil || s.IsRaft {
		m.Fail(w)
		return nil
	}
	return s
}
