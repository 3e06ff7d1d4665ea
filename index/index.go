// Package index precomputes lookups over a dictionary so that a clue can be
// turned into the set of words consistent with it using a handful of bitset
// operations.
package index

import (
	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/bits-and-blooms/bitset"
)

// Index is a read-only view over a dictionary. Word sets are bitsets keyed
// by dictionary ordinal, and every set has length Dictionary().Len().
type Index struct {
	dict *wordle.Dictionary
	n    uint

	// atLeast[r][k] is the set of words with at least k+1 occurrences of r,
	// so atLeast[r][0] is every word containing r.
	atLeast map[rune][]*bitset.BitSet
	// positions[p][r] is the set of words with r at position p.
	positions [wordle.WordLength]map[rune]*bitset.BitSet
}

// New builds an index over every word in d.
func New(d *wordle.Dictionary) *Index {
	n := uint(d.Len())
	idx := &Index{
		dict:    d,
		n:       n,
		atLeast: make(map[rune][]*bitset.BitSet),
	}
	for p := range idx.positions {
		idx.positions[p] = make(map[rune]*bitset.BitSet)
	}

	for i := 0; i < d.Len(); i++ {
		wi := uint(i)
		counts := make(map[rune]int, wordle.WordLength)
		for p, r := range []rune(d.Word(i)) {
			set, ok := idx.positions[p][r]
			if !ok {
				set = bitset.New(n)
				idx.positions[p][r] = set
			}
			set.Set(wi)
			counts[r]++
		}

		for r, c := range counts {
			ladder := idx.atLeast[r]
			for len(ladder) < c {
				ladder = append(ladder, bitset.New(n))
			}
			for k := 0; k < c; k++ {
				ladder[k].Set(wi)
			}
			idx.atLeast[r] = ladder
		}
	}

	return idx
}

// Dictionary returns the dictionary the index was built from.
func (x *Index) Dictionary() *wordle.Dictionary {
	return x.dict
}

// Contains reports whether word is in the indexed dictionary.
func (x *Index) Contains(word string) bool {
	return x.dict.Contains(word)
}

// All returns a new set holding every word.
func (x *Index) All() *bitset.BitSet {
	set := bitset.New(x.n)
	set.FlipRange(0, x.n)
	return set
}

// None returns a new empty set.
func (x *Index) None() *bitset.BitSet {
	return bitset.New(x.n)
}

// Containing returns the words that contain r anywhere. The returned set
// must not be modified.
func (x *Index) Containing(r rune) *bitset.BitSet {
	return x.AtLeast(r, 1)
}

// AtLeast returns the words containing r at least n times. The returned set
// must not be modified.
func (x *Index) AtLeast(r rune, n int) *bitset.BitSet {
	if n < 1 {
		n = 1
	}
	ladder := x.atLeast[r]
	if len(ladder) < n {
		return x.None()
	}
	return ladder[n-1]
}

// At returns the words with r at position pos. Positions outside the word
// match nothing. The returned set must not be modified.
func (x *Index) At(pos int, r rune) *bitset.BitSet {
	if pos < 0 || pos >= wordle.WordLength {
		return x.None()
	}
	set, ok := x.positions[pos][r]
	if !ok {
		return x.None()
	}
	return set
}

// Words returns the words in set, in dictionary order.
func (x *Index) Words(set *bitset.BitSet) []string {
	out := make([]string, 0, set.Count())
	for i, ok := set.NextSet(0); ok && i < x.n; i, ok = set.NextSet(i + 1) {
		out = append(out, x.dict.Word(int(i)))
	}
	return out
}
