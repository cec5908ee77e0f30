// Package hub is the connection/session layer: it owns the websocket
// clients, tags inbound requests with an opaque connection identity and
// delivers ordered outbound events per connection. Battle and matchmaking
// logic stays in the arena; the hub only routes.
package hub

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/190dpa/literate-umbrella/internal/battle"
	"github.com/190dpa/literate-umbrella/internal/logging"
	"github.com/190dpa/literate-umbrella/internal/service"

	"github.com/gorilla/websocket"
)

// Envelope is the wire frame for both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Inbound request types.
const (
	MsgStartPve     = "start_pve"
	MsgBattleAction = "battle_action"
	MsgFindMatch    = "find_match"
	MsgCancelMatch  = "cancel_match"
)

// Outbound event types owned by the hub itself; battle events pass through
// under their own names.
const (
	EventQueued = "queued"
	EventError  = "error"
)

type actionPayload struct {
	Action string `json:"action"`
}

type client struct {
	conn     *websocket.Conn
	send     chan []byte
	connID   string
	userID   uint
	username string
}

func (c *client) writer() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Hub tracks connected clients by connection identity.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	arena   *service.Arena
	nextID  atomic.Int64
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// SetArena binds the arena after construction; the arena's matchmaking
// queue needs the hub's Alive check first.
func (h *Hub) SetArena(a *service.Arena) { h.arena = a }

// Alive reports whether a connection identity is still attached.
func (h *Hub) Alive(connID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.clients[connID]
	return ok
}

// Emit implements battle.Emitter: one event to one connection, dropped when
// the client's buffer is full rather than blocking a battle resolution.
func (h *Hub) Emit(connID string, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	send(c, event, payload)
}

// EmitToUser delivers an event to every connection the user currently has.
func (h *Hub) EmitToUser(userID uint, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		if c.userID == userID {
			send(c, event, payload)
		}
	}
}

func send(c *client, typ string, v interface{}) {
	b, _ := json.Marshal(v)
	out, _ := json.Marshal(Envelope{Type: typ, Data: b})
	select {
	case c.send <- out:
	default:
	}
}

// HandleWS runs one authenticated connection until it closes.
func (h *Hub) HandleWS(conn *websocket.Conn, userID uint, username string) {
	c := &client{
		conn:     conn,
		send:     make(chan []byte, 64),
		connID:   fmt.Sprintf("conn-%d", h.nextID.Add(1)),
		userID:   userID,
		username: username,
	}
	h.mu.Lock()
	h.clients[c.connID] = c
	h.mu.Unlock()
	logging.Info("client connected", logging.Fields{"conn": c.connID, "user": username})

	go c.writer()
	h.reader(c)
}

func (h *Hub) reader(c *client) {
	defer func() {
		c.conn.Close()
		h.mu.Lock()
		delete(h.clients, c.connID)
		close(c.send)
		h.mu.Unlock()
		// Disconnection ends everything the connection owned: queued
		// matchmaking entries and live battles.
		h.arena.OnDisconnect(c.connID)
		logging.Info("client disconnected", logging.Fields{"conn": c.connID, "user": c.username})
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			send(c, EventError, map[string]string{"message": "malformed message"})
			continue
		}
		h.dispatch(c, env)
	}
}

func (h *Hub) dispatch(c *client, env Envelope) {
	switch env.Type {
	case MsgStartPve:
		snap, err := h.arena.StartPve(c.userID, c.connID)
		if err != nil {
			send(c, EventError, map[string]string{"message": err.Error()})
			return
		}
		send(c, battle.EventBattleUpdate, snap)

	case MsgBattleAction:
		var p actionPayload
		if env.Data != nil {
			_ = json.Unmarshal(env.Data, &p)
		}
		snap, err := h.arena.Submit(c.connID, battle.Action(p.Action))
		switch err {
		case nil:
			// Sessions push their own updates.
		case battle.ErrInvalidAction, battle.ErrNotEligible:
			// Re-emit the unchanged state so the client resynchronizes.
			send(c, battle.EventBattleUpdate, snap)
		case battle.ErrStaleSession:
			send(c, battle.EventBattleEnd, map[string]string{"message": "battle already ended"})
		default:
			send(c, EventError, map[string]string{"message": err.Error()})
		}

	case MsgFindMatch:
		paired, err := h.arena.EnqueueForMatch(c.userID, c.connID)
		if err != nil {
			send(c, EventError, map[string]string{"message": err.Error()})
			return
		}
		if !paired {
			send(c, EventQueued, map[string]int{"waiting": h.arena.Queue().Len()})
		}

	case MsgCancelMatch:
		h.arena.Queue().Remove(c.connID)

	default:
		send(c, EventError, map[string]string{"message": "unknown message type"})
	}
}
