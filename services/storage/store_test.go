package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sjsage522/upworkscanner/config"
	"sjsage522/upworkscanner/internal/models"
	"sjsage522/upworkscanner/internal/normalize"
	scanerrors "sjsage522/upworkscanner/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 15, 0, time.Local)

func newTestStore(t *testing.T, mode config.PersistMode) *Store {
	s := NewStore(t.TempDir(), mode)
	s.now = func() time.Time { return fixedNow }
	return s
}

func sampleProfile() models.CompositeProfile {
	return models.CompositeProfile{
		Account:  models.AccountRecord{FullName: normalize.String("Jane Doe"), ID: normalize.String("4242")},
		Location: models.LocationRecord{City: normalize.String("Springfield"), Country: normalize.String("US")},
		Profile: models.ProfileRecord{
			JobTitle:          normalize.String("Backend Engineer"),
			Skills:            []string{"Go"},
			EmploymentHistory: []models.Employment{},
		},
	}
}

func TestSaveListings(t *testing.T) {
	s := newTestStore(t, config.PersistComposite)

	listings := []models.JobListing{
		models.NewJobListing(models.JobFields{Title: normalize.String("Go <scraper> & parser")}, fixedNow),
		models.NewJobListing(models.JobFields{Title: normalize.String("Second")}, fixedNow),
	}
	path, err := s.SaveListings(listings)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "homepage-2024-05-01 09:30:15.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n    {"))
	assert.Contains(t, string(data), "Go <scraper> & parser")

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Second", decoded[1]["title"])
	assert.Nil(t, decoded[1]["link"])
	assert.Equal(t, false, decoded[1]["payment_verified"])
}

func TestSaveListingsEmpty(t *testing.T) {
	s := newTestStore(t, config.PersistComposite)

	path, err := s.SaveListings(nil)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestSaveProfileComposite(t *testing.T) {
	s := newTestStore(t, config.PersistComposite)

	files, err := s.SaveProfile(sampleProfile())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "profilepage-2024-05-01 09:30:15.json", filepath.Base(files[0]))

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Jane Doe", decoded["account_session"]["full_name"])
	assert.Equal(t, "US", decoded["location_session"]["country"])
	assert.Equal(t, "Backend Engineer", decoded["profile_page"]["job_title"])
}

func TestSaveProfileSplit(t *testing.T) {
	s := newTestStore(t, config.PersistSplit)

	files, err := s.SaveProfile(sampleProfile())
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "contact-2024-05-01 09:30:15.json", filepath.Base(files[0]))
	assert.Equal(t, "location-2024-05-01 09:30:15.json", filepath.Base(files[1]))
	assert.Equal(t, "profile-2024-05-01 09:30:15.json", filepath.Base(files[2]))

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var account map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &account))
	assert.Equal(t, "4242", account["id"])
	assert.Contains(t, account, "masked_email")
}

func TestStoreErrors(t *testing.T) {
	s := NewStore("", config.PersistComposite)
	_, err := s.SaveListings(nil)
	var scanErr *scanerrors.ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, scanerrors.ErrorTypeStorage, scanErr.Type)

	// a regular file where the directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	s = NewStore(filepath.Join(blocker, "data"), config.PersistComposite)
	_, err = s.SaveProfile(sampleProfile())
	assert.Error(t, err)
}

func TestSnapshotStore(t *testing.T) {
	snaps := NewSnapshotStore(filepath.Join(t.TempDir(), "debug"))
	snaps.now = func() time.Time { return fixedNow }

	path, err := snaps.SaveSnapshot("homepage", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, "homepage-2024-05-01 09:30:15.html", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	shot, err := snaps.ScreenshotPath("profile")
	require.NoError(t, err)
	assert.Equal(t, "profile-failure-2024-05-01 09:30:15.png", filepath.Base(shot))
}

func TestRecorder(t *testing.T) {
	dir := t.TempDir()
	r := NewRecorder(dir)
	r.now = func() time.Time { return fixedNow }

	record, err := r.Start("sequential")
	require.NoError(t, err)
	assert.Equal(t, RunStarted, record.Status)

	path := filepath.Join(dir, "run-"+record.ID+".json")
	assert.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "completed_at")

	record.Counts["listings"] = 3
	require.NoError(t, r.Finish(record, errors.New("login failed")))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	var decoded RunRecord
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RunFailed, decoded.Status)
	require.NotNil(t, decoded.CompletedAt)
	assert.True(t, fixedNow.Equal(*decoded.CompletedAt))
	assert.Equal(t, "login failed", decoded.Error)
	assert.Equal(t, 3, decoded.Counts["listings"])

	require.NoError(t, r.Finish(record, nil))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	decoded = RunRecord{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, RunCompleted, decoded.Status)
	assert.Empty(t, decoded.Error)

	_, err = NewRecorder("").Start("sequential")
	assert.Error(t, err)
}
