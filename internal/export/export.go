// Package export writes the published JSON artifacts: the daily
// tickets document, the BTTS feed pair and the evaluation report.
// Everything lands in a single public directory and is overwritten in
// place; the pipeline keeps no history there.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File names inside the public directory.
const (
	TicketsFile    = "tickets.json"
	BTTSFeedFile   = "btts_feed.json"
	BTTSStatsFile  = "btts_stats.json"
	EvaluationFile = "evaluation.json"
)

// Store writes and reads documents in the public directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// the first write, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the public directory path.
func (s *Store) Dir() string {
	return s.dir
}

// WriteTickets publishes the daily tickets document.
func (s *Store) WriteTickets(doc TicketsDocument) error {
	return s.writeJSON(TicketsFile, doc)
}

// ReadTickets loads the previously published tickets document. The
// evaluation job uses it to settle yesterday's tickets.
func (s *Store) ReadTickets() (TicketsDocument, error) {
	var doc TicketsDocument
	if err := s.readJSON(TicketsFile, &doc); err != nil {
		return TicketsDocument{}, err
	}
	return doc, nil
}

// WriteBTTS publishes the feed and its companion stats document.
func (s *Store) WriteBTTS(feed BTTSFeed, stats BTTSStats) error {
	if err := s.writeJSON(BTTSFeedFile, feed); err != nil {
		return err
	}
	return s.writeJSON(BTTSStatsFile, stats)
}

// WriteEvaluation publishes the settlement report. The document is
// opaque here so the evaluation package can depend on this one.
func (s *Store) WriteEvaluation(doc any) error {
	return s.writeJSON(EvaluationFile, doc)
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create public dir: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, out any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
