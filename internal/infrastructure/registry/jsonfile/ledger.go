// Package jsonfile keeps the field-frequency ledger: a small JSON sidecar
// counting how often each field name has been extracted, in first-seen
// order. On startup the schema registry is reseeded from it, so dynamic
// columns survive process restarts.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type fieldStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ledgerFile struct {
	Fields []fieldStat `json:"fields"`
}

type Ledger struct {
	path string
	mu   sync.Mutex
}

func New(path string) (*Ledger, error) {
	if path == "" {
		path = "./data/learning_db.json"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	return &Ledger{path: path}, nil
}

// Learn bumps the observation count for each field, appending names never
// seen before. The file is rewritten whole; it stays small.
func (l *Ledger) Learn(fields []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	db, err := l.load()
	if err != nil {
		return err
	}

	index := make(map[string]int, len(db.Fields))
	for i, stat := range db.Fields {
		index[stat.Name] = i
	}
	for _, field := range fields {
		if field == "" {
			continue
		}
		if i, ok := index[field]; ok {
			db.Fields[i].Count++
			continue
		}
		index[field] = len(db.Fields)
		db.Fields = append(db.Fields, fieldStat{Name: field, Count: 1})
	}

	return l.write(db)
}

// Known returns every recorded field name in first-seen order.
func (l *Ledger) Known() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	db, err := l.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(db.Fields))
	for _, stat := range db.Fields {
		names = append(names, stat.Name)
	}
	return names, nil
}

// Count reports how often a field has been observed.
func (l *Ledger) Count(field string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	db, err := l.load()
	if err != nil {
		return 0, err
	}
	for _, stat := range db.Fields {
		if stat.Name == field {
			return stat.Count, nil
		}
	}
	return 0, nil
}

func (l *Ledger) load() (ledgerFile, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ledgerFile{}, nil
		}
		return ledgerFile{}, fmt.Errorf("read ledger: %w", err)
	}
	var db ledgerFile
	if err := json.Unmarshal(raw, &db); err != nil {
		// a damaged ledger only costs learned counts; start over
		return ledgerFile{}, nil
	}
	return db, nil
}

func (l *Ledger) write(db ledgerFile) error {
	raw, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
