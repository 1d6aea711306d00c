// Package storage persists scan results, run records and debug snapshots on
// the local filesystem.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sjsage522/upworkscanner/config"
	"sjsage522/upworkscanner/internal/models"
	"sjsage522/upworkscanner/logger"
	scanerrors "sjsage522/upworkscanner/pkg/errors"
)

// TimestampLayout is the layout of the timestamp embedded in file names
const TimestampLayout = "2006-01-02 15:04:05"

// Store writes scan results as indented JSON files named <kind>-<timestamp>.json
type Store struct {
	dir  string
	mode config.PersistMode
	now  func() time.Time
	log  *logger.Logger
}

// NewStore creates a store writing into dir
func NewStore(dir string, mode config.PersistMode) *Store {
	return &Store{
		dir:  dir,
		mode: mode,
		now:  time.Now,
		log:  logger.ForStorage(),
	}
}

// Dir returns the output directory
func (s *Store) Dir() string {
	return s.dir
}

// SaveListings writes the job feed as one JSON array
func (s *Store) SaveListings(listings []models.JobListing) (string, error) {
	if listings == nil {
		listings = []models.JobListing{}
	}
	return s.write("homepage", s.now(), listings)
}

// SaveProfile writes the profile scan as one composite document, or as
// separate contact, location and profile documents in split mode. All files
// of one call share a timestamp.
func (s *Store) SaveProfile(profile models.CompositeProfile) ([]string, error) {
	ts := s.now()

	if s.mode != config.PersistSplit {
		path, err := s.write("profilepage", ts, profile)
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	parts := []struct {
		kind string
		v    interface{}
	}{
		{"contact", profile.Account},
		{"location", profile.Location},
		{"profile", profile.Profile},
	}
	files := make([]string, 0, len(parts))
	for _, part := range parts {
		path, err := s.write(part.kind, ts, part.v)
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func (s *Store) write(kind string, ts time.Time, v interface{}) (string, error) {
	if s.dir == "" {
		return "", scanerrors.NewStorage(kind, "output directory is required", nil)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", scanerrors.NewStorage(kind, "could not create output directory", err)
	}

	payload, err := encode(v)
	if err != nil {
		return "", scanerrors.NewStorage(kind, "could not encode records", err)
	}

	path := filepath.Join(s.dir, fileName(kind, ts, "json"))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", scanerrors.NewStorage(kind, "could not write file", err)
	}
	s.log.Debug().Str("file", path).Int("bytes", len(payload)).Msg("File written")
	return path, nil
}

// encode renders v with four-space indentation and no HTML escaping
func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fileName(kind string, ts time.Time, ext string) string {
	return fmt.Sprintf("%s-%s.%s", kind, ts.Format(TimestampLayout), ext)
}
