package game

// CombatOverlay layers situational combat state over a ship's baseline
// behavior. It owns the on/off flag, the target reference and the
// aggressive/defensive mode; pursuit and firing read those fields but live
// elsewhere.
//
// Invariant: Active == false implies TargetID == 0.
type CombatOverlay struct {
	Active    bool
	TargetID  EntityID
	Defensive bool
}

// Activate turns combat on against targetID. Returns false without any
// state change when the owner's role is not combat capable, or when the
// overlay is already active against the same target.
func (c *CombatOverlay) Activate(owner *Ship, targetID EntityID, defensive bool) bool {
	if owner == nil || targetID == 0 {
		return false
	}
	if owner.Role != nil && !owner.Role.CombatCapable {
		return false
	}
	if c.Active && c.TargetID == targetID {
		return false
	}
	c.Active = true
	c.TargetID = targetID
	c.Defensive = defensive
	return true
}

// Deactivate ends combat unconditionally.
func (c *CombatOverlay) Deactivate() {
	c.Active = false
	c.TargetID = 0
	c.Defensive = false
}

// shouldStayActive decides whether combat continues this tick. Distance
// only ends a chase in defensive mode; an aggressive overlay pursues until
// the target is gone, docked or disabled.
func (c *CombatOverlay) shouldStayActive(w *World, owner *Ship) bool {
	target := w.Ship(c.TargetID)
	if target == nil {
		return false
	}
	if target.InHarbor {
		return false
	}
	if target.IsRaft {
		return false
	}
	if c.Defensive && owner != nil {
		if owner.Pos.Sub(target.Pos).Len() > CombatDefensiveRange {
			return false
		}
	}
	return true
}

// Update is the overlay's only per-tick effect: drop out of combat when
// the target is no longer worth holding.
func (c *CombatOverlay) Update(w *World, owner *Ship) {
	if !c.Active {
		return
	}
	if !c.shouldStayActive(w, owner) {
		c.Deactivate()
	}
}
