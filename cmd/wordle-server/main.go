package main

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	wordle "github.com/bcspragu/WordleSuggest"
	"github.com/bcspragu/WordleSuggest/dict"
	"github.com/bcspragu/WordleSuggest/index"
	"github.com/bcspragu/WordleSuggest/memdb"
	"github.com/bcspragu/WordleSuggest/sqldb"
	"github.com/bcspragu/WordleSuggest/web"
	"github.com/gorilla/securecookie"
	"github.com/namsral/flag"
)

func main() {
	var (
		addr         = flag.String("addr", ":8080", "HTTP service address")
		wordList     = flag.String("word_list", dict.DefaultPath, "Path to word list")
		dbPath       = flag.String("db_path", "", "Path to a SQLite dictionary made by wordle-importdict, used instead of -word_list")
		hashKeyFile  = flag.String("hash_key_file", "hashKey", "File holding the cookie hash key, generated if missing")
		blockKeyFile = flag.String("block_key_file", "blockKey", "File holding the cookie block key, generated if missing")
	)

	flag.Parse()

	d, err := loadDictionary(*wordList, *dbPath)
	if err != nil {
		log.Fatalf("failed to load dictionary: %v", err)
	}
	log.Printf("Loaded %d words", d.Len())

	db := memdb.New(index.New(d))

	sc, err := loadKeys(*hashKeyFile, *blockKeyFile)
	if err != nil {
		log.Fatalf("failed to load cookie keys: %v", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-c
		log.Printf("Got %v, shutting down", sig)
		os.Exit(1)
	}()

	log.Printf("Server is running on %q", *addr)
	if err := http.ListenAndServe(*addr, web.New(db, sc)); err != nil {
		log.Fatal("ListenAndServe: ", err)
	}
}

func loadDictionary(wordList, dbPath string) (*wordle.Dictionary, error) {
	if dbPath == "" {
		return dict.Load(wordList, false)
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

func loadKeys(hashKeyFile, blockKeyFile string) (*securecookie.SecureCookie, error) {
	hashKey, err := loadOrGenKey(hashKeyFile)
	if err != nil {
		return nil, err
	}

	blockKey, err := loadOrGenKey(blockKeyFile)
	if err != nil {
		return nil, err
	}

	return securecookie.New(hashKey, blockKey), nil
}

func loadOrGenKey(name string) ([]byte, error) {
	f, err := ioutil.ReadFile(name)
	if err == nil {
		return f, nil
	}

	dat := securecookie.GenerateRandomKey(32)
	if dat == nil {
		return nil, errors.New("failed to generate key")
	}

	if err := ioutil.WriteFile(name, dat, 0600); err != nil {
		return nil, fmt.Errorf("failed to write key file %q: %w", name, err)
	}
	return dat, nil
}
