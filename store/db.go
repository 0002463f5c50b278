package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Data is everything persisted between runs
type Data struct {
	History     map[string]HistoryEntry `json:"history"`
	Credentials map[string]Credential   `json:"credentials"`
}

func emptyData() Data {
	return Data{
		History:     make(map[string]HistoryEntry),
		Credentials: make(map[string]Credential),
	}
}

// DB is a JSON file holding history and credentials.
// Every mutation is a read-modify-write through Update, flushed before Update returns.
type DB struct {
	file string
	data Data
	mu   sync.RWMutex
}

// Open loads the database file, starting empty when it does not exist yet.
// An empty file name keeps the database in memory only.
func Open(file string) (*DB, error) {
	db := &DB{file: file, data: emptyData()}
	if err := db.load(); err != nil {
		return nil, err
	}
	return db, nil
}

// Update applies fn to the data under the write lock and persists the result.
// If fn fails, or the flush fails, the in-memory data is left as it was.
func (db *DB) Update(fn func(*Data) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	next := db.data.clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := db.save(next); err != nil {
		return err
	}
	db.data = next
	return nil
}

// View runs fn against the current data under the read lock.
// fn must not retain or modify the maps.
func (db *DB) View(fn func(*Data)) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	fn(&db.data)
}

// Path returns the backing file, or empty for an in-memory database
func (db *DB) Path() string {
	return db.file
}

func (d Data) clone() Data {
	out := Data{
		History:     make(map[string]HistoryEntry, len(d.History)),
		Credentials: make(map[string]Credential, len(d.Credentials)),
	}
	for k, v := range d.History {
		out.History[k] = v
	}
	for k, v := range d.Credentials {
		out.Credentials[k] = v
	}
	return out
}

func (db *DB) load() error {
	if db.file == "" {
		return nil
	}

	data, err := os.ReadFile(db.file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No database yet
		}
		return err
	}

	loaded := emptyData()
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("reading %s: %w", db.file, err)
	}
	if loaded.History == nil {
		loaded.History = make(map[string]HistoryEntry)
	}
	if loaded.Credentials == nil {
		loaded.Credentials = make(map[string]Credential)
	}
	db.data = loaded
	return nil
}

// save writes a temp file and renames it over the database so readers
// of the file never see a partial write
func (db *DB) save(d Data) error {
	if db.file == "" {
		return nil
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(db.file)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".db-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// credentials live here
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), db.file); err != nil {
		return err
	}

	log.Printf("store: saved %d history entries, %d credentials", len(d.History), len(d.Credentials))
	return nil
}
