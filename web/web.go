package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/bcspragu/WordleSuggest/httperr"
	"github.com/bcspragu/WordleSuggest/hub"
	"github.com/bcspragu/WordleSuggest/session"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/websocket"
)

const (
	cookieName    = "Session"
	cookieEncName = "session"
)

// SessionStore holds the live sessions the server works on.
type SessionStore interface {
	NewSession() (wordle.SessionID, error)
	WithSession(wordle.SessionID, func(*session.Session) error) error
}

type Srv struct {
	sc       *securecookie.SecureCookie
	h        *hub.Hub
	mux      *mux.Router
	db       SessionStore
	upgrader websocket.Upgrader
}

// New returns an initialized server.
func New(db SessionStore, sc *securecookie.SecureCookie) *Srv {
	s := &Srv{
		sc: sc,
		h:  hub.New(),
		db: db,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	s.mux = s.initMux()

	return s
}

func (s *Srv) initMux() *mux.Router {
	m := mux.NewRouter()
	// New session.
	m.HandleFunc("/api/session", s.handleError(s.serveCreateSession)).Methods("POST")
	// Load session.
	m.HandleFunc("/api/session", s.handleError(s.serveSession)).Methods("GET")
	// Apply a clue to the session.
	m.HandleFunc("/api/session/clue", s.handleError(s.serveClue)).Methods("POST")
	// Make every word a candidate again.
	m.HandleFunc("/api/session/reset", s.handleError(s.serveReset)).Methods("POST")

	// WebSocket handler for candidate updates.
	m.HandleFunc("/api/session/ws", s.handleError(s.serveData)).Methods("GET")

	return m
}

func (s *Srv) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Srv) handleError(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		log.Println(err)

		code, userMsg := httperr.Extract(err)
		http.Error(w, userMsg, code)
	}
}

func (s *Srv) serveCreateSession(w http.ResponseWriter, r *http.Request) error {
	id, err := s.db.NewSession()
	if err != nil {
		return httperr.Internal("failed to create session").WithError(err)
	}

	encoded, err := s.sc.Encode(cookieEncName, id)
	if err != nil {
		return httperr.Internal("failed to encode session cookie").WithError(err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
	})

	c, err := s.candidates(id)
	if err != nil {
		return err
	}
	jsonResp(w, c)
	return nil
}

func (s *Srv) serveSession(w http.ResponseWriter, r *http.Request) error {
	id, err := s.loadSession(r)
	if err != nil {
		return err
	}

	c, err := s.candidates(id)
	if err != nil {
		return err
	}
	jsonResp(w, c)
	return nil
}

func (s *Srv) serveClue(w http.ResponseWriter, r *http.Request) error {
	id, err := s.loadSession(r)
	if err != nil {
		return err
	}

	var req struct {
		Clue string `json:"clue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return httperr.BadRequest("failed to decode clue request").WithError(err).WithMessage("malformed request body")
	}

	var c *Candidates
	err = s.db.WithSession(id, func(sess *session.Session) error {
		if _, err := sess.Apply(req.Clue); err != nil {
			return httperr.BadRequest("failed to apply clue %q", req.Clue).WithError(err).WithMessage(err.Error())
		}
		c = toCandidates(sess)
		s.publish(id, c)
		return nil
	})
	if err != nil {
		return sessionErr(id, err)
	}

	jsonResp(w, c)
	return nil
}

func (s *Srv) serveReset(w http.ResponseWriter, r *http.Request) error {
	id, err := s.loadSession(r)
	if err != nil {
		return err
	}

	var c *Candidates
	err = s.db.WithSession(id, func(sess *session.Session) error {
		sess.Reset()
		c = toCandidates(sess)
		s.publish(id, c)
		return nil
	})
	if err != nil {
		return sessionErr(id, err)
	}

	jsonResp(w, c)
	return nil
}

func (s *Srv) serveData(w http.ResponseWriter, r *http.Request) error {
	id, err := s.loadSession(r)
	if err != nil {
		return err
	}

	// Fail before upgrading, while we can still reply with a status.
	if _, err := s.candidates(id); err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Printf("failed to upgrade connection for %q: %v", id, err)
		return nil
	}

	err = s.db.WithSession(id, func(sess *session.Session) error {
		snapshot := &Update{Action: ActionCandidates, Candidates: toCandidates(sess)}
		return s.h.Register(conn, id, snapshot)
	})
	if err != nil {
		log.Printf("failed to register watcher for %q: %v", id, err)
		conn.Close()
	}
	return nil
}

// publish pushes c to the session's watchers. It's called with the session
// held, so watchers see updates in the order they were applied.
func (s *Srv) publish(id wordle.SessionID, c *Candidates) {
	if err := s.h.ToSession(id, &Update{Action: ActionCandidates, Candidates: c}); err != nil {
		log.Printf("failed to publish update for %q: %v", id, err)
	}
}

func (s *Srv) candidates(id wordle.SessionID) (*Candidates, error) {
	var c *Candidates
	err := s.db.WithSession(id, func(sess *session.Session) error {
		c = toCandidates(sess)
		return nil
	})
	if err != nil {
		return nil, sessionErr(id, err)
	}
	return c, nil
}

func sessionErr(id wordle.SessionID, err error) error {
	if errors.Is(err, wordle.ErrSessionNotFound) {
		return httperr.NotFound("session %q not found", id).WithMessage("session not found")
	}
	return err
}

func (s *Srv) loadSession(r *http.Request) (wordle.SessionID, error) {
	c, err := r.Cookie(cookieName)
	if err == http.ErrNoCookie {
		return "", httperr.Unauthorized("no session cookie").WithMessage("no session, create one first")
	}
	if err != nil {
		return "", httperr.BadRequest("failed to read session cookie").WithError(err)
	}

	var id wordle.SessionID
	if err := s.sc.Decode(cookieEncName, c.Value, &id); err != nil {
		// If we can't parse it, assume it's an old cookie from before a key
		// rotation and treat them as not having a session.
		return "", httperr.Unauthorized("undecodable session cookie").WithError(err).WithMessage("no session, create one first")
	}

	return id, nil
}

func jsonResp(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("jsonResp: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
