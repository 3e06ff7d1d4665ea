package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/bcspragu/WordleSuggest/client"
	"github.com/bcspragu/WordleSuggest/dict"
	"github.com/bcspragu/WordleSuggest/index"
	"github.com/bcspragu/WordleSuggest/repl"
	"github.com/bcspragu/WordleSuggest/session"
	"github.com/bcspragu/WordleSuggest/sqldb"
	"github.com/namsral/flag"
	"golang.org/x/term"
)

func main() {
	var (
		wordList = flag.String("word_list", dict.DefaultPath, "Path to word list")
		dbPath   = flag.String("db_path", "", "Path to a SQLite dictionary made by wordle-importdict, used instead of -word_list")
		server   = flag.String("server", "", "URL of a wordle-server to solve on, e.g. http://localhost:8080")
		progress = flag.Bool("progress", false, "Show a progress bar while reading the word list")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr, repl.Usage)
	}
	flag.Parse()

	var (
		solver repl.Solver
		err    error
	)
	if *server != "" {
		solver, err = remoteSolver(*server)
	} else {
		solver, err = localSolver(*wordList, *dbPath, *progress)
	}
	if err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println()
		os.Exit(0)
	}()

	l := &repl.Loop{
		In:          os.Stdin,
		Out:         os.Stdout,
		Interactive: term.IsTerminal(int(os.Stdin.Fd())),
		Solver:      solver,
	}
	if err := l.Run(); err != nil {
		log.Fatal(err)
	}
}

func localSolver(wordList, dbPath string, progress bool) (repl.Solver, error) {
	d, err := loadDictionary(wordList, dbPath, progress)
	if err != nil {
		return nil, err
	}
	return repl.Local{Session: session.New(index.New(d))}, nil
}

func remoteSolver(server string) (repl.Solver, error) {
	u, err := url.Parse(server)
	if err != nil {
		return nil, fmt.Errorf("bad server URL %q: %w", server, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("bad server URL %q, want something like http://localhost:8080", server)
	}

	c, err := client.New(u.Scheme, u.Host)
	if err != nil {
		return nil, err
	}
	s, err := c.NewSession()
	if err != nil {
		return nil, err
	}
	return s, nil
}

func loadDictionary(wordList, dbPath string, progress bool) (*wordle.Dictionary, error) {
	if dbPath == "" {
		return dict.Load(wordList, progress)
	}

	db, err := sqldb.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary DB: %w", err)
	}
	defer db.Close()

	words, err := db.Words()
	if err != nil {
		return nil, fmt.Errorf("failed to load words: %w", err)
	}
	return wordle.NewDictionary(words), nil
}
