package game

// updateTravel moves every sailing ship toward its current goal. Movement
// is straight-line at effective speed; winds, hulls and cannonballs are
// somebody else's problem.
func updateTravel(w *World, dt float64) {
	for _, s := range w.ships {
		if s.IsRaft || s.InHarbor {
			s.Vel = Vec2{}
			continue
		}

		switch s.Intent {
		case IntentTravel:
			dest := w.HarborByID(s.DestinationHarborID)
			if dest == nil {
				s.Vel = Vec2{}
				s.Intent = IntentWait
				continue
			}
			moveToward(s, dest.Pos, dt)
			if s.Pos.Sub(dest.Pos).Len() <= DockRadius {
				s.Pos = dest.Pos
				s.Vel = Vec2{}
				s.InHarbor = true
				s.DockedHarborID = dest.ID
				s.Intent = IntentArrived
			}
		case IntentEngage:
			target := w.Ship(s.Overlay.TargetID)
			if !s.Overlay.Active || target == nil {
				s.Vel = Vec2{}
				continue
			}
			moveToward(s, target.Pos, dt)
		case IntentEvade:
			target := w.Ship(s.Overlay.TargetID)
			if target == nil {
				s.Vel = Vec2{}
				continue
			}
			away := s.Pos.Add(unitOrZero(s.Pos.Sub(target.Pos)).Scale(s.effectiveSpeed() * dt))
			moveToward(s, away, dt)
		default:
			s.Vel = Vec2{}
		}

		s.Pos.X = Clamp(s.Pos.X, 0, w.Width)
		s.Pos.Y = Clamp(s.Pos.Y, 0, w.Height)
	}
}

func moveToward(s *Ship, target Vec2, dt float64) {
	dir := target.Sub(s.Pos)
	dist := dir.Len()
	speed := s.effectiveSpeed()
	if dist <= speed*dt {
		s.Pos = target
		s.Vel = Vec2{}
		return
	}
	s.Vel = dir.Scale(speed / dist)
	s.Pos = s.Pos.Add(s.Vel.Scale(dt))
}

// updateOverlays runs each NPC's combat overlay and realigns intent when a
// fight ends. Picking new fights is the decision layer's job, not ours.
func updateOverlays(w *World) {
	for _, s := range w.ships {
		if !s.IsNPC() {
			continue
		}
		wasActive := s.Overlay.Active
		s.Overlay.Update(w, s)
		if wasActive && !s.Overlay.Active {
			if s.Intent == IntentEngage || s.Intent == IntentEvade {
				s.Intent = s.Role.DefaultIntent
			}
		}
	}
}

func reapDespawning(w *World) {
	for id, s := range w.ships {
		if s.Intent == IntentDespawning {
			delete(w.ships, id)
		}
	}
}
