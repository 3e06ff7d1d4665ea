// Package session tracks the words still consistent with every clue entered
// since the last reset.
package session

import (
	"strings"

	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/bcspragu/WordleSuggest/index"
	"github.com/bits-and-blooms/bitset"
)

// Session is a single solving session. It isn't safe for concurrent use.
type Session struct {
	idx        *index.Index
	candidates *bitset.BitSet
	history    []string
}

// New starts a session where every word in the index is a candidate.
func New(idx *index.Index) *Session {
	return &Session{
		idx:        idx,
		candidates: idx.All(),
	}
}

// Reset makes every word a candidate again and forgets applied clues.
func (s *Session) Reset() {
	s.candidates = s.idx.All()
	s.history = nil
}

// Apply parses and validates raw, narrows the candidates with it, and returns
// the remaining candidates. If raw can't be parsed or validated, the session
// is left as it was.
func (s *Session) Apply(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	c, err := wordle.ParseClue(raw)
	if err != nil {
		return nil, err
	}
	if err := s.apply(c, strings.ToLower(raw)); err != nil {
		return nil, err
	}
	return s.Candidates(), nil
}

// ApplyClue narrows the candidates with an already parsed clue.
func (s *Session) ApplyClue(c *wordle.Clue) error {
	return s.apply(c, c.Guess)
}

func (s *Session) apply(c *wordle.Clue, label string) error {
	if err := c.Validate(s.idx); err != nil {
		return err
	}
	s.candidates.InPlaceIntersection(s.idx.Matching(c))
	s.history = append(s.history, label)
	return nil
}

// Count returns the number of remaining candidates.
func (s *Session) Count() int {
	return int(s.candidates.Count())
}

// Candidates returns the remaining candidates in dictionary order.
func (s *Session) Candidates() []string {
	return s.idx.Words(s.candidates)
}

// History returns the clues applied since the last reset, oldest first.
func (s *Session) History() []string {
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}
