package ws

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Hub reparte eventos entre los clientes de cada sala (una sala por chat).
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{}), log: log}
}

// join devuelve false si el cliente ya se desconectó; un detach pendiente
// (lanzado desde Emit) no debe volver a quedar en la sala.
func (h *Hub) join(c *Client, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return false
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.rooms[room] = struct{}{}
	return true
}

func (h *Hub) detach(c *Client) {
	h.mu.Lock()
	c.closed = true
	for room := range c.rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()

	c.close()
	h.log.Debug("ws client detached", zap.Int64("user_id", c.userID))
}

// RoomSize devuelve cuántos clientes hay en la sala.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Emit envía el evento a la sala salvo a except. Un cliente con el buffer lleno se desconecta.
func (h *Hub) Emit(room string, except *Client, event string, data interface{}) {
	payload, err := encode(event, data)
	if err != nil {
		h.log.Error("ws emit marshal error", zap.String("event", event), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		if c != except {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(payload) {
			go h.detach(c)
		}
	}
}

// Frame es el sobre de todos los mensajes: {"event": "...", "data": {...}}.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

func encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
