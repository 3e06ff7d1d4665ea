// Package repl reads clues from a terminal and prints the words that are
// still possible answers.
package repl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/bcspragu/WordleSuggest/session"
	"github.com/olekukonko/tablewriter"
)

// Usage describes how to use the loop, for a binary's help text.
const Usage = `
The program operates as a REPL. Enter clues in the format 'GUESS:PRESENT:MATCHES', example 'slate:a:0s3t'.
The number of possible answers will decrease as each clue is entered. Use CTRL+D to reset the answers.
CTRL+C to exit.
`

// wordsPerRow is how many candidates are printed on each line.
const wordsPerRow = 6

// Solver narrows down a set of candidate answers.
type Solver interface {
	Count() int
	Apply(clue string) ([]string, error)
	Reset() error
}

// Local is a Solver backed by a session in this process.
type Local struct {
	*session.Session
}

func (l Local) Reset() error {
	l.Session.Reset()
	return nil
}

// Loop prompts for clues on Out and reads them from In until In is
// exhausted.
type Loop struct {
	In  io.Reader
	Out io.Writer
	// Interactive means In is a terminal, where end of input (CTRL+D) only
	// resets the solver and reading carries on.
	Interactive bool

	Solver Solver
}

// Run reads clues until the input ends, or until reading or resetting
// fails. Bad clues are reported on Out and don't stop the loop.
func (l *Loop) Run() error {
	sc := bufio.NewScanner(l.In)
	for {
		fmt.Fprintf(l.Out, "%d answers> ", l.Solver.Count())
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("failed to read clue: %w", err)
			}
			if err := l.Solver.Reset(); err != nil {
				return fmt.Errorf("failed to reset answers: %w", err)
			}
			fmt.Fprintln(l.Out)
			if !l.Interactive {
				return nil
			}
			// A scanner stays done once it sees EOF, but a terminal can be
			// read again.
			sc = bufio.NewScanner(l.In)
			continue
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		words, err := l.Solver.Apply(line)
		if err != nil {
			fmt.Fprintln(l.Out, err)
			continue
		}
		l.printCandidates(words)
	}
}

func (l *Loop) printCandidates(words []string) {
	if len(words) == 0 {
		return
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for i := 0; i < len(words); i += wordsPerRow {
		row := make([]string, wordsPerRow)
		copy(row, words[i:])
		table.Append(row)
	}

	table.Render()

	// Cells are padded to the column width, and the last row to a full row,
	// so rows carry trailing blanks.
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		fmt.Fprintln(l.Out, strings.TrimRight(sc.Text(), " "))
	}
}
