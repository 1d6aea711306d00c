package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RunStatus is the outcome of a run
type RunStatus string

const (
	RunStarted   RunStatus = "started"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// RunRecord describes one invocation of the worker
type RunRecord struct {
	ID          string         `json:"id"`
	Mode        string         `json:"mode"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Status      RunStatus      `json:"status"`
	Error       string         `json:"error,omitempty"`
	Counts      map[string]int `json:"counts,omitempty"`
	Files       []string       `json:"files,omitempty"`
}

// Recorder persists run records as run-<id>.json
type Recorder struct {
	dir string
	now func() time.Time
}

// NewRecorder creates a recorder writing into dir
func NewRecorder(dir string) *Recorder {
	return &Recorder{dir: dir, now: time.Now}
}

// Start writes a started record
func (r *Recorder) Start(mode string) (*RunRecord, error) {
	if r == nil {
		return nil, errors.New("runlog: recorder is nil")
	}
	if r.dir == "" {
		return nil, errors.New("runlog: directory is required")
	}

	startedAt := r.now()
	record := &RunRecord{
		ID:        startedAt.Format("20060102T150405Z0700"),
		Mode:      mode,
		StartedAt: startedAt,
		Status:    RunStarted,
		Counts:    map[string]int{},
	}
	if err := r.write(record); err != nil {
		return nil, err
	}
	return record, nil
}

// Finish marks record completed, or failed when runErr is set, and rewrites it
func (r *Recorder) Finish(record *RunRecord, runErr error) error {
	if r == nil {
		return errors.New("runlog: recorder is nil")
	}
	if record == nil {
		return errors.New("runlog: record is nil")
	}
	completedAt := r.now()
	record.CompletedAt = &completedAt
	if runErr != nil {
		record.Status = RunFailed
		record.Error = runErr.Error()
	} else {
		record.Status = RunCompleted
		record.Error = ""
	}
	return r.write(record)
}

func (r *Recorder) write(record *RunRecord) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(r.dir, fmt.Sprintf("run-%s.json", record.ID))
	return os.WriteFile(path, append(payload, '\n'), 0o644)
}
