package internal

import (
	"sjsage522/upworkscanner/helpers"
	"sjsage522/upworkscanner/services/cache"
	"sjsage522/upworkscanner/services/publisher"
	"sjsage522/upworkscanner/services/storage"
)

// Screenshotter hands out file paths for failure screenshots
type Screenshotter interface {
	ScreenshotPath(kind string) (string, error)
}

// Dependencies holds the optional services a run reports to. Nil fields
// are skipped.
type Dependencies struct {
	Publisher   publisher.Publisher
	Seen        *cache.SeenSet
	Recorder    *storage.Recorder
	Screenshots Screenshotter
	ErrorLog    helpers.LoggerInterface
}
