// Package store persists the record collection as a JSON array plus a sibling
// metadata document. The collection is read and written wholesale; consumers
// (the presentation layer) expect the file to be valid JSON at every instant,
// so writes go through a temp file and rename.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/officialai/aggregator/internal/logger"
	"github.com/officialai/aggregator/internal/update"
)

const (
	updatesFile  = "updates.json"
	metadataFile = "metadata.json"
)

// Metadata describes the last pipeline run.
type Metadata struct {
	LastUpdated   time.Time `json:"lastUpdated"`
	TotalArticles int       `json:"totalArticles"`
	Status        string    `json:"status"`
	Error         string    `json:"error,omitempty"`
}

type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Load reads the full record collection. A missing file is an empty
// collection; a present but unreadable one is an error so a corrupt store is
// never silently replaced.
func (s *Store) Load() ([]update.Record, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, updatesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read store: %w", err)
	}

	var records []update.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse store: %w", err)
	}
	return records, nil
}

// Save writes the collection and its metadata for a successful run.
func (s *Store) Save(records []update.Record) error {
	if err := s.writeJSON(updatesFile, records); err != nil {
		return err
	}
	return s.SaveMetadata(Metadata{
		LastUpdated:   time.Now().UTC(),
		TotalArticles: len(records),
		Status:        "ok",
	})
}

func (s *Store) SaveMetadata(meta Metadata) error {
	return s.writeJSON(metadataFile, meta)
}

// WriteFailure records a fatal run failure in metadata without touching the
// record collection, so consumers keep serving the last good data.
func (s *Store) WriteFailure(runErr error) {
	count := 0
	if records, err := s.Load(); err == nil {
		count = len(records)
	}
	meta := Metadata{
		LastUpdated:   time.Now().UTC(),
		TotalArticles: count,
		Status:        "failed",
		Error:         runErr.Error(),
	}
	if err := s.SaveMetadata(meta); err != nil {
		logger.Error("failed to write failure metadata", "error", err)
	}
}

// writeJSON writes atomically: marshal, write to a temp file in the same
// directory, fsync-free rename. A crash mid-write leaves the old file intact.
func (s *Store) writeJSON(name string, v interface{}) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}
