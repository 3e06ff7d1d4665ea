package wordle

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"
)

// WordLength is the number of letters in every word of the puzzle.
const WordLength = 5

var (
	ErrInvalidClue           = errors.New("wordle: invalid clue")
	ErrUnknownWord           = errors.New("wordle: unknown word")
	ErrInvalidPresentLetters = errors.New("wordle: invalid present letters")
	ErrInvalidMatch          = errors.New("wordle: invalid match")
	ErrSessionNotFound       = errors.New("wordle: session not found")
)

// SessionID identifies a live solving session held by a server.
type SessionID string

// Lexicon is anything that can answer whether a word is allowed as a guess.
type Lexicon interface {
	Contains(word string) bool
}

// Dictionary is the immutable set of words a puzzle answer is drawn from.
// Words are kept sorted, and a word's position in that order is its ordinal.
type Dictionary struct {
	words    []string
	ordinals map[string]int
}

// NewDictionary builds a dictionary from the given words. Words are
// lower-cased, anything that isn't exactly WordLength characters long is
// dropped, and duplicates are collapsed.
func NewDictionary(words []string) *Dictionary {
	seen := make(map[string]struct{}, len(words))
	var kept []string
	for _, w := range words {
		w = strings.ToLower(w)
		if utf8.RuneCountInString(w) != WordLength {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		kept = append(kept, w)
	}
	sort.Strings(kept)

	ords := make(map[string]int, len(kept))
	for i, w := range kept {
		ords[w] = i
	}
	return &Dictionary{words: kept, ordinals: ords}
}

// Len returns the number of words in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.words)
}

// Contains reports whether word is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.ordinals[word]
	return ok
}

// Word returns the word with the given ordinal.
func (d *Dictionary) Word(i int) string {
	return d.words[i]
}

// Ordinal returns the position of word in the dictionary's sorted order.
func (d *Dictionary) Ordinal(word string) (int, bool) {
	i, ok := d.ordinals[word]
	return i, ok
}

// Words returns a copy of every word, sorted.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}
