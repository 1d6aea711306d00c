package scanner

import (
	"sync"

	"sjsage522/upworkscanner/internal/models"
)

type mockListingStore struct {
	mu    sync.Mutex
	saved [][]models.JobListing
	err   error
}

func (m *mockListingStore) SaveListings(listings []models.JobListing) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.saved = append(m.saved, listings)
	return "data/homepage-2024-05-01 09:00:00.json", nil
}

type mockProfileStore struct {
	mu    sync.Mutex
	saved []models.CompositeProfile
	err   error
}

func (m *mockProfileStore) SaveProfile(profile models.CompositeProfile) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.saved = append(m.saved, profile)
	return []string{"data/profilepage-2024-05-01 09:00:00.json"}, nil
}

type mockSnapshotter struct {
	mu    sync.Mutex
	kinds []string
}

func (m *mockSnapshotter) SaveSnapshot(kind, source string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kinds = append(m.kinds, kind)
	return "debug/" + kind + ".html", nil
}

var (
	_ ListingStore = (*mockListingStore)(nil)
	_ ProfileStore = (*mockProfileStore)(nil)
	_ Snapshotter  = (*mockSnapshotter)(nil)
)
