package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"sjsage522/upworkscanner/internal/browser"
	"sjsage522/upworkscanner/internal/models"
	"sjsage522/upworkscanner/internal/scanner"
	scanerrors "sjsage522/upworkscanner/pkg/errors"
	"sjsage522/upworkscanner/services/cache"
	"sjsage522/upworkscanner/services/publisher"
)

// mockAuthenticator fails the first failures calls
type mockAuthenticator struct {
	mu       sync.Mutex
	calls    int
	failures int
	err      error
}

func (m *mockAuthenticator) Login(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	if m.calls <= m.failures {
		return scanerrors.NewLogin("not_logged_in", "login screen did not load", nil)
	}
	return nil
}

// mockScanner returns result after failing the first failures calls
type mockScanner struct {
	mu       sync.Mutex
	name     string
	result   *scanner.Result
	failures int
	calls    int
	sessions []*browser.Session
}

func (m *mockScanner) Scan(ctx context.Context, session *browser.Session) (*scanner.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.sessions = append(m.sessions, session)
	if m.calls <= m.failures {
		return nil, scanerrors.NewBrowser(m.name, "page did not load", nil)
	}
	return m.result, nil
}

func (m *mockScanner) GetName() string {
	return m.name
}

type publishedMessage struct {
	key     string
	message []byte
}

type mockPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	trimmed  int
	err      error
}

func (m *mockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, publishedMessage{key: key, message: message})
	return nil
}

func (m *mockPublisher) TrimStreams() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trimmed++
	return nil
}

func (m *mockPublisher) Close() error {
	return nil
}

func (m *mockPublisher) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		keys = append(keys, msg.key)
	}
	return keys
}

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, cache.ErrMiss
}

func (m *mockCache) Set(key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type mockErrorLog struct {
	mu     sync.Mutex
	scopes []string
}

func (m *mockErrorLog) LogError(scope string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scopes = append(m.scopes, scope)
}

func (m *mockErrorLog) LogInfo(format string, args ...interface{}) {}

func (m *mockErrorLog) logged() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.scopes...)
}

var (
	_ Authenticator       = (*mockAuthenticator)(nil)
	_ scanner.Scanner     = (*mockScanner)(nil)
	_ publisher.Publisher = (*mockPublisher)(nil)
	_ cache.CacheService  = (*mockCache)(nil)
)

var errPublish = errors.New("redis unavailable")

func link(v string) *string {
	return &v
}

func homepageResult(links ...string) *scanner.Result {
	listings := make([]models.JobListing, 0, len(links))
	for _, l := range links {
		listings = append(listings, models.JobListing{Link: link(l), Skills: []string{}})
	}
	return &scanner.Result{Scanner: "homepage", Listings: listings, Files: []string{"data/homepage.json"}}
}

func profileResult() *scanner.Result {
	return &scanner.Result{
		Scanner: "profile",
		Profile: &models.CompositeProfile{Account: models.AccountRecord{ID: link("4242")}},
		Files:   []string{"data/profilepage.json"},
	}
}
