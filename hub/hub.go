// Package hub pushes messages to the websockets watching a session.
package hub

import (
	"bytes"
	"encoding/json"
	"fmt"

	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/gorilla/websocket"
)

// Hub tracks which connections watch which session. All of its state is
// owned by the run goroutine.
type Hub struct {
	watchers map[wordle.SessionID]map[*connection]struct{}

	broadcast  chan *broadcastMsg
	register   chan *connection
	unregister chan *connection
}

type broadcastMsg struct {
	sessionID wordle.SessionID
	msg       []byte
}

// New creates a new Hub and starts it in a background Go routine.
func New() *Hub {
	h := &Hub{
		watchers:   make(map[wordle.SessionID]map[*connection]struct{}),
		broadcast:  make(chan *broadcastMsg),
		register:   make(chan *connection),
		unregister: make(chan *connection),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			conns, ok := h.watchers[c.sessionID]
			if !ok {
				conns = make(map[*connection]struct{})
				h.watchers[c.sessionID] = conns
			}
			conns[c] = struct{}{}
		case c := <-h.unregister:
			h.remove(c)
		case m := <-h.broadcast:
			for c := range h.watchers[m.sessionID] {
				select {
				case c.send <- m.msg:
				default:
					// Too far behind, cut it loose.
					h.remove(c)
				}
			}
		}
	}
}

// remove forgets c and closes its send channel. Connections that were
// already removed are ignored.
func (h *Hub) remove(c *connection) {
	conns := h.watchers[c.sessionID]
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.watchers, c.sessionID)
	}
}

// ToSession sends msg, encoded as JSON, to everyone watching a session. Once
// ToSession returns, msg is queued ahead of any later message for the session.
func (h *Hub) ToSession(sID wordle.SessionID, msg interface{}) error {
	dat, err := encode(msg)
	if err != nil {
		return err
	}
	h.broadcast <- &broadcastMsg{sessionID: sID, msg: dat}
	return nil
}

// Register starts pushing a session's messages to ws. initial is sent to ws
// alone, before any message sent to the session after Register returns.
func (h *Hub) Register(ws *websocket.Conn, sID wordle.SessionID, initial interface{}) error {
	dat, err := encode(initial)
	if err != nil {
		return err
	}

	c := &connection{
		h:         h,
		sessionID: sID,
		send:      make(chan []byte, 256),
		ws:        ws,
	}
	c.send <- dat
	h.register <- c

	go c.writePump()
	go c.readPump()
	return nil
}

func encode(msg interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to encode message: %w", err)
	}
	return buf.Bytes(), nil
}
