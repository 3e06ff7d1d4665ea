package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bcspragu/WordleSuggest/web"
	"github.com/gorilla/websocket"
)

type wsClient struct {
	conn  *websocket.Conn
	msgs  chan []byte
	done  chan struct{}
	hooks WSHooks
}

type WSHooks struct {
	OnConnect    func()
	OnCandidates func(*web.Update)
}

// ListenForUpdates watches the session for changes, calling the hooks as
// updates arrive, until ctx is cancelled or the connection fails. The first
// update is always a snapshot of the session as of connecting.
func (s *Session) ListenForUpdates(ctx context.Context, hooks WSHooks) error {
	scheme := "ws"
	if s.c.scheme == "https" {
		scheme = "wss"
	}

	addr := scheme + "://" + s.c.addr + "/api/session/ws"

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: 45 * time.Second,
		Jar:              s.c.http.Jar,
	}
	conn, _, err := dialer.DialContext(ctx, addr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	if hooks.OnConnect != nil {
		go hooks.OnConnect()
	}

	wsc := &wsClient{
		conn: conn,
		done: make(chan struct{}),
		// Buffered so a slow hook doesn't stall reads, which would stop us
		// answering pings.
		msgs:  make(chan []byte, 100),
		hooks: hooks,
	}

	go wsc.handleMessages()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	err = wsc.read()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (ws *wsClient) read() error {
	defer close(ws.done)
	defer ws.conn.Close()
	for {
		messageType, message, err := ws.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("ReadMessage: %w", err)
		}

		if messageType != websocket.TextMessage {
			continue
		}

		select {
		case ws.msgs <- message:
		default:
			log.Printf("dropping update, %d already waiting", len(ws.msgs))
		}
	}
}

func (ws *wsClient) handleMessages() {
	for {
		select {
		case <-ws.done:
			return
		case msg := <-ws.msgs:
			var justAction struct {
				Action string `json:"action"`
			}
			if err := json.Unmarshal(msg, &justAction); err != nil {
				log.Printf("failed to unmarshal action from server: %v", err)
				continue
			}

			switch justAction.Action {
			case web.ActionCandidates:
				ws.handleCandidates(msg)
			default:
				log.Printf("unknown message action %q", justAction.Action)
			}
		}
	}
}

func (ws *wsClient) handleCandidates(dat []byte) {
	var u web.Update
	if err := json.Unmarshal(dat, &u); err != nil {
		log.Printf("handleCandidates: %v", err)
		return
	}

	if ws.hooks.OnCandidates == nil {
		return
	}
	ws.hooks.OnCandidates(&u)
}
