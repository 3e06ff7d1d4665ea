package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `CREATE TABLE IF NOT EXISTS words (word TEXT PRIMARY KEY)`

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("sqldb: database is closed")

// DB is a word list stored in a SQLite database.
// NOTE: Since the database doesn't support concurrent writers, we don't
// actually hold the *sql.DB in this struct, we force all callers to get a
// handle via channels.
type DB struct {
	dbChan   chan func(*sql.DB)
	doneChan chan struct{}
	closed   chan error

	closeOnce sync.Once
	closeErr  error
}

// New opens (creating if needed) the SQLite database at the given filename.
func New(fn string) (*DB, error) {
	sdb, err := sql.Open("sqlite3", fn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", fn, err)
	}
	if _, err := sdb.Exec(schema); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	db := &DB{
		dbChan:   make(chan func(*sql.DB)),
		doneChan: make(chan struct{}),
		closed:   make(chan error, 1),
	}
	go db.run(sdb)
	return db, nil
}

// run handles all database calls, and ensures that only one thing is happening
// against the database at a time.
func (s *DB) run(sdb *sql.DB) {
	for {
		select {
		case dbFn := <-s.dbChan:
			dbFn(sdb)
		case <-s.doneChan:
			s.closed <- sdb.Close()
			return
		}
	}
}

// do runs fn against the database and waits for it to finish.
func (s *DB) do(fn func(*sql.DB) error) error {
	errChan := make(chan error, 1)
	select {
	case s.dbChan <- func(sdb *sql.DB) {
		errChan <- fn(sdb)
	}:
	case <-s.doneChan:
		return ErrClosed
	}
	return <-errChan
}

// Close shuts down the database. Reads and writes after Close return ErrClosed;
// closing again returns the result of the first Close.
func (s *DB) Close() error {
	s.closeOnce.Do(func() {
		close(s.doneChan)
		s.closeErr = <-s.closed
	})
	return s.closeErr
}

// Import adds words to the database, skipping any that are already there,
// and returns how many were added.
func (s *DB) Import(words []string) (int, error) {
	var added int
	err := s.do(func(sdb *sql.DB) error {
		tx, err := sdb.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		stmt, err := tx.Prepare(`INSERT OR IGNORE INTO words (word) VALUES (?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, w := range words {
			res, err := stmt.Exec(w)
			if err != nil {
				return fmt.Errorf("failed to insert %q: %w", w, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to count inserted rows: %w", err)
			}
			added += int(n)
		}

		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// Words returns every stored word in sorted order.
func (s *DB) Words() ([]string, error) {
	var words []string
	err := s.do(func(sdb *sql.DB) error {
		rows, err := sdb.Query(`SELECT word FROM words ORDER BY word`)
		if err != nil {
			return fmt.Errorf("failed to query words: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var w string
			if err := rows.Scan(&w); err != nil {
				return fmt.Errorf("failed to scan word: %w", err)
			}
			words = append(words, w)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return words, nil
}
