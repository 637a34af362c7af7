// Package cache implements the flat per-day JSON store the pipeline
// runs against. Every upstream response and derived snapshot lands
// under <root>/YYYY-MM-DD/<name>.json, which makes a day reproducible
// offline and lets a morning run fall back to recent days when the
// upstream fetch came up empty.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const dayLayout = "2006-01-02"

// Store reads and writes day-scoped JSON files under a root directory.
// A single daily process owns the store, so there is no locking.
type Store struct {
	root string
}

// New returns a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// DayDir returns the directory holding one day's files.
func (s *Store) DayDir(day time.Time) string {
	return filepath.Join(s.root, day.Format(dayLayout))
}

func (s *Store) filePath(name string, day time.Time) string {
	return filepath.Join(s.DayDir(day), name)
}

// WriteJSON stores v as pretty-printed JSON under the day's directory,
// creating parent directories on demand.
func (s *Store) WriteJSON(name string, day time.Time, v any) error {
	path := s.filePath(name, day)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	b = append(b, '\n')
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// ReadJSON loads a day's file into out. A missing file surfaces as an
// error satisfying errors.Is(err, fs.ErrNotExist).
func (s *Store) ReadJSON(name string, day time.Time, out any) error {
	data, err := os.ReadFile(s.filePath(name, day))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the day's file is present.
func (s *Store) Exists(name string, day time.Time) bool {
	_, err := os.Stat(s.filePath(name, day))
	return err == nil
}

// ListDay returns the relative paths of all files under the day's
// directory. A missing day yields an empty list, not an error.
func (s *Store) ListDay(day time.Time) ([]string, error) {
	dir := s.DayDir(day)
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ReadOrFallback reads the file for day, then walks back up to
// fallbackDays previous days until one has it. Returns the day that
// actually served the data.
func (s *Store) ReadOrFallback(name string, day time.Time, fallbackDays int, out any) (time.Time, error) {
	var lastErr error
	for i := 0; i <= fallbackDays; i++ {
		d := day.AddDate(0, 0, -i)
		err := s.ReadJSON(name, d, out)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			// Corrupt file: remember but keep walking back.
			lastErr = err
			continue
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("no usable %s within %d fallback days: %w", name, fallbackDays, lastErr)
}

// Days lists the day directories under the root in ascending date
// order. Entries that do not parse as dates are skipped.
func (s *Store) Days() ([]time.Time, error) {
	entries, err := os.ReadDir(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var days []time.Time
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		d, err := time.Parse(dayLayout, e.Name())
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days, nil
}

// Prune removes every day directory older than before and reports how
// many were dropped.
func (s *Store) Prune(before time.Time) (int, error) {
	days, err := s.Days()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, d := range days {
		if !d.Before(before) {
			continue
		}
		if err := os.RemoveAll(s.DayDir(d)); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", d.Format(dayLayout), err)
		}
		removed++
	}
	return removed, nil
}

// Status summarizes a day's cache for diagnostics: which of the
// standard components are missing and what is present.
type Status struct {
	Date       string   `json:"date"`
	FilesTotal int      `json:"files_total"`
	Missing    []string `json:"missing"`
	Files      []string `json:"files"`
}

// expected components a fully fetched day contains
var expected = []string{
	"fixtures.json",
	"odds.json",
	"standings",
	"stats",
	"h2h",
}

// DayStatus reports which standard components a day's cache holds.
func (s *Store) DayStatus(day time.Time) Status {
	files, _ := s.ListDay(day)

	st := Status{
		Date:       day.Format(dayLayout),
		FilesTotal: len(files),
		Files:      files,
	}
	for _, e := range expected {
		if _, err := os.Stat(filepath.Join(s.DayDir(day), e)); err != nil {
			st.Missing = append(st.Missing, e)
		}
	}
	return st
}
