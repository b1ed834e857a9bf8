// Package store persists ingested articles as one JSON file per calendar
// day. The per-day file is the only durable state in the system.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DateLayout names daily store files: <data-dir>/2025-01-31.json.
const DateLayout = "2006-01-02"

// Article is the canonical record produced by ingestion. Identity within a
// day is the Link field; articles are never mutated after being written.
type Article struct {
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Link      string `json:"link"`
	Source    string `json:"source"`
	Audience  string `json:"audience"`
	Timestamp string `json:"timestamp"` // RFC 3339
}

// Store reads and writes daily article files under a single directory.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// Path returns the file path for the given day.
func (s *Store) Path(day time.Time) string {
	return filepath.Join(s.dir, day.Format(DateLayout)+".json")
}

// Load returns the articles stored for the given day. A missing file is an
// empty day, not an error.
func (s *Store) Load(day time.Time) ([]Article, error) {
	data, err := os.ReadFile(s.Path(day))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading daily store: %w", err)
	}

	var articles []Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.Path(day), err)
	}
	return articles, nil
}

// Merge appends incoming articles to the given day's store, skipping any
// link already present (including duplicates within incoming itself).
// It returns how many articles were added and the day's total afterwards.
func (s *Store) Merge(day time.Time, incoming []Article) (added, total int, err error) {
	existing, err := s.Load(day)
	if err != nil {
		return 0, 0, err
	}

	seen := make(map[string]bool, len(existing))
	for _, a := range existing {
		seen[a.Link] = true
	}

	merged := existing
	for _, a := range incoming {
		if a.Link == "" || seen[a.Link] {
			continue
		}
		seen[a.Link] = true
		merged = append(merged, a)
		added++
	}

	if added == 0 && len(existing) > 0 {
		return 0, len(existing), nil
	}
	if len(merged) == 0 {
		return 0, 0, nil
	}

	if err := s.write(day, merged); err != nil {
		return 0, 0, err
	}
	return added, len(merged), nil
}

// LoadWindow returns all articles for the given day and the days-1 calendar
// days before it, oldest day first. Missing days contribute nothing.
func (s *Store) LoadWindow(end time.Time, days int) ([]Article, error) {
	var all []Article
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		articles, err := s.Load(day)
		if err != nil {
			return nil, err
		}
		all = append(all, articles...)
	}
	return all, nil
}

func (s *Store) write(day time.Time, articles []Article) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding daily store: %w", err)
	}

	// Write via a temp file so a crashed run never leaves a torn store.
	path := s.Path(day)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing daily store: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing daily store: %w", err)
	}
	return nil
}
