package wordle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Clue is the normalized form of the feedback for a single guess.
type Clue struct {
	// Guess is the word that was played.
	Guess string
	// Present maps a letter to the minimum number of times it must occur in
	// the answer. Letters matched exactly count towards this too.
	Present map[rune]int
	// Excluded holds letters of Guess known to be absent from the answer.
	Excluded map[rune]bool
	// Exact maps a 0-based position to the letter known to be there.
	Exact map[int]rune
}

// ParseError is returned when a clue can't be split into its parts.
type ParseError struct {
	Clue   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid clue %q - format: GUESS:PRESENT:MATCHES, e.g. 'valid:li:4d'", e.Clue)
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidClue
}

// ValidationError is returned when a well-formed clue can't be applied. It
// unwraps to one of ErrUnknownWord, ErrInvalidPresentLetters or
// ErrInvalidMatch.
type ValidationError struct {
	Kind error
	msg  string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// ParseClue parses a clue of the form GUESS:PRESENT:MATCHES, GUESS:PRESENT or
// GUESS. MATCHES is a run of position/letter pairs, so "0s3t" means an 's' at
// position 0 and a 't' at position 3. A trailing unpaired character in
// MATCHES is ignored.
func ParseClue(raw string) (*Clue, error) {
	parts := strings.Split(strings.ToLower(raw), ":")

	var guess, present, matches string
	switch len(parts) {
	case 3:
		guess, present, matches = parts[0], parts[1], parts[2]
	case 2:
		guess, present = parts[0], parts[1]
	case 1:
		guess = parts[0]
	default:
		return nil, &ParseError{Clue: raw, Reason: fmt.Sprintf("expected at most 3 parts, got %d", len(parts))}
	}

	exact := make(map[int]rune)
	mr := []rune(matches)
	for i := 0; i+1 < len(mr); i += 2 {
		pos, err := strconv.Atoi(string(mr[i]))
		if err != nil {
			return nil, &ParseError{Clue: raw, Reason: fmt.Sprintf("bad match position %q", mr[i])}
		}
		exact[pos] = mr[i+1]
	}

	counts := make(map[rune]int)
	for _, r := range present {
		counts[r]++
	}
	matched := make(map[rune]bool)
	for _, r := range exact {
		counts[r]++
		matched[r] = true
	}

	excluded := make(map[rune]bool)
	for _, r := range guess {
		if strings.ContainsRune(present, r) || matched[r] {
			continue
		}
		excluded[r] = true
	}

	return &Clue{
		Guess:    guess,
		Present:  counts,
		Excluded: excluded,
		Exact:    exact,
	}, nil
}

// Validate checks that the clue can be applied: the guess must be a known
// word, and every present and matched letter must be in a-z. Match positions
// aren't range checked, an impossible position just matches nothing.
func (c *Clue) Validate(words Lexicon) error {
	if !words.Contains(c.Guess) {
		return &ValidationError{
			Kind: ErrUnknownWord,
			msg:  fmt.Sprintf("'%s' is not a %d-letter word", c.Guess, WordLength),
		}
	}

	var bad []rune
	for r := range c.Present {
		if !isLetter(r) {
			bad = append(bad, r)
		}
	}
	if len(bad) > 0 {
		sort.Slice(bad, func(i, j int) bool { return bad[i] < bad[j] })
		return &ValidationError{
			Kind: ErrInvalidPresentLetters,
			msg:  fmt.Sprintf("invalid characters in letters present %q", string(bad)),
		}
	}

	for _, pos := range c.positions() {
		if r := c.Exact[pos]; !isLetter(r) {
			return &ValidationError{
				Kind: ErrInvalidMatch,
				msg:  fmt.Sprintf("invalid match '%d%c'", pos, r),
			}
		}
	}

	return nil
}

// positions returns the keys of Exact in ascending order.
func (c *Clue) positions() []int {
	out := make([]int, 0, len(c.Exact))
	for pos := range c.Exact {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}

func isLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}
