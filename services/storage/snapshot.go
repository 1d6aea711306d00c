package storage

import (
	"os"
	"path/filepath"
	"time"

	scanerrors "sjsage522/upworkscanner/pkg/errors"
)

// SnapshotStore keeps raw page sources and screenshots for debugging
type SnapshotStore struct {
	dir string
	now func() time.Time
}

// NewSnapshotStore creates a snapshot store writing into dir
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir, now: time.Now}
}

// SaveSnapshot writes source as <kind>-<timestamp>.html
func (s *SnapshotStore) SaveSnapshot(kind, source string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", scanerrors.NewStorage(kind, "could not create debug directory", err)
	}
	path := filepath.Join(s.dir, fileName(kind, s.now(), "html"))
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		return "", scanerrors.NewStorage(kind, "could not write snapshot", err)
	}
	return path, nil
}

// ScreenshotPath returns the path a screenshot of kind should be saved to,
// creating the debug directory if needed
func (s *SnapshotStore) ScreenshotPath(kind string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", scanerrors.NewStorage(kind, "could not create debug directory", err)
	}
	return filepath.Join(s.dir, fileName(kind+"-failure", s.now(), "png")), nil
}
