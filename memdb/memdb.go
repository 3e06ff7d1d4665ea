package memdb

import (
	"fmt"
	"sync"

	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/bcspragu/WordleSuggest/index"
	"github.com/bcspragu/WordleSuggest/session"
)

// DB holds live solving sessions in memory. Every session shares the same
// read-only index. Nothing survives a restart.
type DB struct {
	idx *index.Index

	mu       sync.Mutex
	nextID   int
	sessions map[wordle.SessionID]*session.Session
}

func New(idx *index.Index) *DB {
	return &DB{
		idx:      idx,
		sessions: make(map[wordle.SessionID]*session.Session),
	}
}

// NewSession starts a session where every word is a candidate.
func (db *DB) NewSession() (wordle.SessionID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id := wordle.SessionID(fmt.Sprintf("session_%d", db.nextID))
	db.nextID++
	db.sessions[id] = session.New(db.idx)

	return id, nil
}

// WithSession calls fn with the session for id. Calls are serialized, so fn
// may read and modify the session freely, but must not hold on to it.
func (db *DB) WithSession(id wordle.SessionID, fn func(*session.Session) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	s, ok := db.sessions[id]
	if !ok {
		return wordle.ErrSessionNotFound
	}
	return fn(s)
}

// DeleteSession forgets a session.
func (db *DB) DeleteSession(id wordle.SessionID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.sessions[id]; !ok {
		return wordle.ErrSessionNotFound
	}
	delete(db.sessions, id)
	return nil
}
