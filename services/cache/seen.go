package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"time"

	scanerrors "sjsage522/upworkscanner/pkg/errors"
)

const seenKeyPrefix = "upwork:seen:"

// SeenSet remembers which job listings were already published
type SeenSet struct {
	cache CacheService
	ttl   time.Duration
}

// NewSeenSet creates a seen set whose entries expire after ttl
func NewSeenSet(cache CacheService, ttl time.Duration) *SeenSet {
	return &SeenSet{cache: cache, ttl: ttl}
}

// SeenKey returns the cache key of a listing link
func SeenKey(link string) string {
	sum := sha1.Sum([]byte(link))
	return seenKeyPrefix + hex.EncodeToString(sum[:])
}

// Seen reports whether link was marked before
func (s *SeenSet) Seen(link string) (bool, error) {
	_, err := s.cache.Get(SeenKey(link))
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	if err != nil {
		return false, scanerrors.NewCache(link, "failed to look up listing", err)
	}
	return true, nil
}

// MarkSeen records link
func (s *SeenSet) MarkSeen(link string) error {
	if err := s.cache.Set(SeenKey(link), []byte("1"), s.ttl); err != nil {
		return scanerrors.NewCache(link, "failed to mark listing", err)
	}
	return nil
}
