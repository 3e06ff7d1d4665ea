// Command wordle-importdict loads the usable words from a word list into a
// SQLite dictionary, for wordle-suggest and wordle-server to read with
// -db_path.
package main

import (
	"log"

	"github.com/bcspragu/WordleSuggest/dict"
	"github.com/bcspragu/WordleSuggest/sqldb"
	"github.com/namsral/flag"
)

func main() {
	var (
		wordList = flag.String("word_list", dict.DefaultPath, "Path to word list")
		dbPath   = flag.String("db_path", "wordle.db", "Path to the SQLite DB file")
		progress = flag.Bool("progress", true, "Show a progress bar while reading the word list")
	)
	flag.Parse()

	d, err := dict.Load(*wordList, *progress)
	if err != nil {
		log.Fatalf("failed to load word list: %v", err)
	}

	db, err := sqldb.New(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize datastore: %v", err)
	}
	defer db.Close()

	n, err := db.Import(d.Words())
	if err != nil {
		log.Fatalf("failed to import words: %v", err)
	}
	log.Printf("Imported %d new words (%d in list) into %q", n, d.Len(), *dbPath)
}
