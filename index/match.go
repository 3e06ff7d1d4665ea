package index

import (
	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/bits-and-blooms/bitset"
)

// Matching returns the set of words consistent with c. The result is a new
// set owned by the caller.
//
// Exact matches narrow the set first, then each present letter's minimum
// count. With neither, every word is a candidate. Finally, words containing
// an excluded letter are dropped, as are words that repeat one of the guess's
// letters at a position that wasn't an exact match.
func (x *Index) Matching(c *wordle.Clue) *bitset.BitSet {
	var matches *bitset.BitSet
	narrow := func(set *bitset.BitSet) {
		if matches == nil {
			matches = set.Clone()
			return
		}
		matches.InPlaceIntersection(set)
	}

	for pos, r := range c.Exact {
		narrow(x.At(pos, r))
	}
	for r, n := range c.Present {
		narrow(x.AtLeast(r, n))
	}
	if matches == nil {
		matches = x.All()
	}

	for r := range c.Excluded {
		matches.InPlaceDifference(x.Containing(r))
	}
	for pos, r := range []rune(c.Guess) {
		if _, ok := c.Exact[pos]; ok {
			continue
		}
		matches.InPlaceDifference(x.At(pos, r))
	}

	return matches
}

// MatchingWords is Matching, returned as words in dictionary order.
func (x *Index) MatchingWords(c *wordle.Clue) []string {
	return x.Words(x.Matching(c))
}
