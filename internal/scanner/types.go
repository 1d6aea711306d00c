// Package scanner turns the job feed and the profile pages of a logged-in
// session into normalized records and hands them to storage.
package scanner

import (
	"context"

	"sjsage522/upworkscanner/internal/browser"
	"sjsage522/upworkscanner/internal/models"
)

// Scanner is the contract for all page scanners
type Scanner interface {
	// Scan reads its pages through session and persists what it finds
	Scan(ctx context.Context, session *browser.Session) (*Result, error)

	// GetName returns the scanner's name for logging and identification
	GetName() string
}

// Result is what one successful scan produced
type Result struct {
	Scanner  string
	Listings []models.JobListing
	Profile  *models.CompositeProfile
	// Files lists the paths written by the scan
	Files []string
}

// ListingStore persists the job feed
type ListingStore interface {
	SaveListings(listings []models.JobListing) (string, error)
}

// ProfileStore persists the profile scan
type ProfileStore interface {
	SaveProfile(profile models.CompositeProfile) ([]string, error)
}

// Snapshotter keeps a copy of a scanned page source for debugging
type Snapshotter interface {
	SaveSnapshot(kind, source string) (string, error)
}
