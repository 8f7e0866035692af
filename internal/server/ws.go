package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	. "Tradewinds/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type missionAcceptMsg struct {
	Kind      string  `json:"kind"`
	HarborID  string  `json:"harbor_id,omitempty"`
	Count     int     `json:"count,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Radius    float64 `json:"radius,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	RewardKey string  `json:"reward_key,omitempty"`
}

type defeatMsg struct {
	NpcID    int64  `json:"npc_id"`
	KillerID string `json:"killer_id,omitempty"`
}

// Server fans world state out to connected clients and feeds their
// commands back into the simulation between ticks.
type Server struct {
	World *World

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewServer(w *World) *Server {
	return &Server{World: w, conns: map[*websocket.Conn]bool{}}
}

func (s *Server) register(conn *websocket.Conn) {
	s.mu.Lock()
	s.conns[conn] = true
	s.mu.Unlock()
}

func (s *Server) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// broadcastLoop pushes the world state to every client at the update
// rate. Mission snapshots are collected here so terminal missions flush
// exactly once.
func (s *Server) broadcastLoop() {
	interval := time.Duration(float64(time.Second) / UpdateRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		payload, err := json.Marshal(s.buildState())
		if err != nil {
			log.Printf("state marshal error: %v", err)
			continue
		}
		s.mu.Lock()
		for conn := range s.conns {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("send error: %v", err)
				conn.Close()
				delete(s.conns, conn)
			}
		}
		s.mu.Unlock()
	}
}

func (s *Server) buildState() stateMsg {
	w := s.World
	w.Mu.Lock()
	defer w.Mu.Unlock()

	msg := stateMsg{Type: "state", Now: w.Now}
	w.ForEachShip(func(ship *Ship) {
		msg.Ships = append(msg.Ships, shipToDTO(ship))
	})
	for _, h := range w.Harbors() {
		msg.Harbors = append(msg.Harbors, harborDTO{ID: h.ID, Name: h.Name, X: h.Pos.X, Y: h.Pos.Y})
	}
	msg.Missions = w.Missions.Snapshots(w)
	return msg
}

func (s *Server) serveWS(rw http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(rw, req, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	playerID := req.URL.Query().Get("player")
	if playerID == "" {
		playerID = RandId("p")
	}
	name := req.URL.Query().Get("name")
	if name == "" {
		name = playerID
	}

	s.joinPlayer(playerID, name)
	s.register(conn)
	defer func() {
		s.unregister(conn)
		conn.Close()
	}()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			log.Printf("unsupported WebSocket message type %d", msgType)
			continue
		}
		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			log.Printf("invalid JSON message: %v", err)
			continue
		}
		s.handleMessage(playerID, inbound)
	}
}

func (s *Server) joinPlayer(playerID, name string) {
	w := s.World
	w.Mu.Lock()
	defer w.Mu.Unlock()
	if w.PlayerShip(playerID) != nil {
		return
	}
	spawn := Vec2{X: w.Width * 0.5, Y: w.Height * 0.5}
	if harbors := w.Harbors(); len(harbors) > 0 {
		spawn = harbors[0].Pos
	}
	if safe, ok := w.FindSafeSpawnPosition(spawn, 600); ok {
		spawn = safe
	}
	ship := w.SpawnPlayerShip(playerID, name, spawn)
	log.Printf("player %s joined, ship %d at (%.0f, %.0f)", playerID, ship.ID, spawn.X, spawn.Y)
}

func (s *Server) handleMessage(playerID string, inbound inboundMessage) {
	switch inbound.Type {
	case "mission:accept":
		var msg missionAcceptMsg
		if err := json.Unmarshal(inbound.Payload, &msg); err != nil {
			log.Printf("invalid mission:accept payload: %v", err)
			return
		}
		s.acceptMission(playerID, msg)
	case "mission:cancel":
		w := s.World
		w.Mu.Lock()
		w.Missions.Cancel(w, playerID)
		w.Mu.Unlock()
	case "debug:defeat":
		// Stands in for the combat resolution step until gunnery lands
		// server-side.
		var msg defeatMsg
		if err := json.Unmarshal(inbound.Payload, &msg); err != nil {
			log.Printf("invalid debug:defeat payload: %v", err)
			return
		}
		killer := msg.KillerID
		if killer == "" {
			killer = playerID
		}
		w := s.World
		w.Mu.Lock()
		w.KillShip(EntityID(msg.NpcID), killer)
		w.Mu.Unlock()
	default:
		log.Printf("unknown text message type: %s", inbound.Type)
	}
}

func (s *Server) acceptMission(playerID string, msg missionAcceptMsg) {
	w := s.World
	w.Mu.Lock()
	defer w.Mu.Unlock()

	var m *Mission
	switch msg.Kind {
	case "sail_to_harbor":
		m = NewSailToHarborMission(playerID, msg.HarborID, msg.RewardKey)
	case "defeat_npcs":
		m = NewDefeatNPCsMission(playerID, msg.Count, msg.RewardKey)
	case "stay_in_area":
		m = NewStayInAreaMission(playerID, Vec2{X: msg.X, Y: msg.Y}, msg.Radius, msg.Duration, msg.RewardKey)
	case "escort":
		m = NewEscortMission(playerID, msg.HarborID, msg.RewardKey, w.Escort)
	default:
		log.Printf("unknown mission kind %q from player %s", msg.Kind, playerID)
		return
	}
	if err := w.Missions.Assign(w, m); err != nil {
		log.Printf("mission accept error for player %s: %v", playerID, err)
	}
}

func startServer(s *Server, addr string) {
	http.HandleFunc("/ws", s.serveWS)
	http.HandleFunc("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	log.Fatal(http.ListenAndServe(addr, nil))
}
