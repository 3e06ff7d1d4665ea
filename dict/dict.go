package dict

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/schollz/progressbar/v3"
)

// DefaultPath is where most Linux systems keep a large English word list.
const DefaultPath = "/usr/share/dict/british-english-large"

// Load reads a newline-separated word list from file and returns the
// dictionary of its usable words. If showProgress is set, a progress bar
// tracks how much of the file has been read.
func Load(file string, showProgress bool) (*wordle.Dictionary, error) {
	log.Println("Opening dictionary...")
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary file %q: %w", file, err)
	}
	defer f.Close()

	var r io.Reader = f
	if showProgress {
		st, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat dictionary file %q: %w", file, err)
		}
		bar := progressbar.DefaultBytes(st.Size(), "reading dictionary")
		defer bar.Finish()
		r = io.TeeReader(f, bar)
	}

	log.Println("Reading dictionary...")
	words, err := Read(r)
	if err != nil {
		return nil, err
	}
	d := wordle.NewDictionary(words)
	log.Printf("Read dictionary, %d words", d.Len())

	return d, nil
}

// Read returns the usable words from a newline-separated word list: words
// of exactly wordle.WordLength characters without apostrophes, lower-cased.
func Read(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if w, ok := Usable(sc.Text()); ok {
			words = append(words, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return words, nil
}

// Usable normalizes a single word list entry, and reports whether it can be
// a puzzle word.
func Usable(line string) (string, bool) {
	w := strings.ToLower(strings.TrimSpace(line))
	if utf8.RuneCountInString(w) != wordle.WordLength {
		return "", false
	}
	if strings.ContainsRune(w, '\'') {
		return "", false
	}
	return w, true
}
