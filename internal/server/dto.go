package server

import (
	. "Tradewinds/internal/game"
)

type shipDTO struct {
	ID       int64   `json:"id"`
	Owner    string  `json:"owner,omitempty"`
	Role     string  `json:"role,omitempty"`
	Class    string  `json:"class"`
	Intent   string  `json:"intent"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	HP       int     `json:"hp"`
	Raft     bool    `json:"raft,omitempty"`
	InHarbor bool    `json:"in_harbor,omitempty"`
	Docked   string  `json:"docked,omitempty"`
	InCombat bool    `json:"in_combat,omitempty"`
}

type harborDTO struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type stateMsg struct {
	Type     string            `json:"type"`
	Now      float64           `json:"now"`
	Ships    []shipDTO         `json:"ships"`
	Harbors  []harborDTO       `json:"harbors"`
	Missions []MissionSnapshot `json:"missions"`
}

func shipToDTO(s *Ship) shipDTO {
	dto := shipDTO{
		ID:       int64(s.ID),
		Owner:    s.Owner,
		Class:    string(s.Class),
		Intent:   s.Intent.String(),
		X:        s.Pos.X,
		Y:        s.Pos.Y,
		VX:       s.Vel.X,
		VY:       s.Vel.Y,
		HP:       s.HP,
		Raft:     s.IsRaft,
		InHarbor: s.InHarbor,
		Docked:   s.DockedHarborID,
		InCombat: s.Overlay.Active,
	}
	if s.Role != nil {
		dto.Role = s.Role.Name
	}
	return dto
}
