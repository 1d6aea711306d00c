package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"sjsage522/upworkscanner/config"
	"sjsage522/upworkscanner/helpers"
	"sjsage522/upworkscanner/internal"
	"sjsage522/upworkscanner/internal/browser"
	"sjsage522/upworkscanner/internal/scanner"
	"sjsage522/upworkscanner/logger"
	"sjsage522/upworkscanner/services/publisher"
	"sjsage522/upworkscanner/services/storage"
)

// Authenticator logs a session in
type Authenticator interface {
	Login(ctx context.Context) error
}

// Options controls scheduling and retries of a run
type Options struct {
	Mode        config.RunMode
	Retry       helpers.RetryPolicy
	Environment string
}

// Worker runs the login and the scanners of one invocation
type Worker struct {
	session  *browser.Session
	login    Authenticator
	scanners []scanner.Scanner
	deps     internal.Dependencies
	opts     Options
	log      *logger.Logger
}

// NewWorker creates a new worker
func NewWorker(
	session *browser.Session,
	login Authenticator,
	scanners []scanner.Scanner,
	deps internal.Dependencies,
	opts Options,
) *Worker {
	if deps.ErrorLog == nil {
		deps.ErrorLog = helpers.NewLogger("")
	}
	return &Worker{
		session:  session,
		login:    login,
		scanners: scanners,
		deps:     deps,
		opts:     opts,
		log:      logger.ForWorker(),
	}
}

// Run logs in, runs every scanner and publishes what is new. The first
// error that survives its retries ends the run.
func (w *Worker) Run(ctx context.Context) (err error) {
	start := time.Now()
	record := w.startRecord()
	defer func() {
		w.finishRecord(record, err)
		w.log.Info().Err(err).Dur("elapsed", time.Since(start)).Msg("Run finished")
	}()

	err = helpers.Retry(ctx, w.opts.Retry, "login", func(ctx context.Context, attempt int) error {
		if loginErr := w.login.Login(ctx); loginErr != nil {
			w.onFailure(ctx, "login", w.session, loginErr)
			return loginErr
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.log.Info().Msg("Logged in")

	results, err := w.runScanners(ctx)
	w.count(record, results)
	if err != nil {
		return err
	}

	published := w.publish(results)
	if record != nil {
		record.Counts["published"] = published
	}
	return nil
}

func (w *Worker) runScanners(ctx context.Context) ([]*scanner.Result, error) {
	if w.opts.Mode != config.RunModeConcurrent || len(w.scanners) < 2 {
		return w.runSequential(ctx)
	}

	sessions := make([]*browser.Session, 0, len(w.scanners))
	for range w.scanners {
		forked, err := w.session.Fork(ctx)
		if err != nil {
			w.log.Warn().Err(err).Msg("Could not fork session, running scanners sequentially")
			closeSessions(sessions)
			return w.runSequential(ctx)
		}
		sessions = append(sessions, forked)
	}
	defer closeSessions(sessions)

	return w.runConcurrent(ctx, sessions)
}

func (w *Worker) runSequential(ctx context.Context) ([]*scanner.Result, error) {
	results := make([]*scanner.Result, 0, len(w.scanners))
	for _, s := range w.scanners {
		result, err := w.scan(ctx, s, w.session)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// runConcurrent runs scanner i on sessions[i] and keeps results in scanner order
func (w *Worker) runConcurrent(ctx context.Context, sessions []*browser.Session) ([]*scanner.Result, error) {
	results := make([]*scanner.Result, len(w.scanners))
	errs := make([]error, len(w.scanners))

	var wg sync.WaitGroup
	for i, s := range w.scanners {
		wg.Add(1)
		go func(i int, s scanner.Scanner) {
			defer wg.Done()
			results[i], errs[i] = w.scan(ctx, s, sessions[i])
		}(i, s)
	}
	wg.Wait()

	done := make([]*scanner.Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			done = append(done, r)
		}
	}
	return done, errors.Join(errs...)
}

func (w *Worker) scan(ctx context.Context, s scanner.Scanner, session *browser.Session) (*scanner.Result, error) {
	name := s.GetName()
	var result *scanner.Result
	err := helpers.Retry(ctx, w.opts.Retry, name, func(ctx context.Context, attempt int) error {
		r, scanErr := s.Scan(ctx, session)
		if scanErr != nil {
			w.onFailure(ctx, name, session, scanErr)
			return scanErr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// onFailure records a failed attempt in the error log and, with a debug
// directory configured, takes a screenshot of the page it failed on
func (w *Worker) onFailure(ctx context.Context, scope string, session *browser.Session, err error) {
	w.deps.ErrorLog.LogError(scope, err)
	if w.deps.Screenshots == nil {
		return
	}
	path, pathErr := w.deps.Screenshots.ScreenshotPath(scope)
	if pathErr != nil {
		w.log.Warn().Err(pathErr).Str("scope", scope).Msg("No screenshot path")
		return
	}
	if shotErr := session.Driver.Screenshot(ctx, path); shotErr != nil {
		w.log.Warn().Err(shotErr).Str("scope", scope).Msg("Screenshot failed")
		return
	}
	w.log.Debug().Str("file", path).Msg("Screenshot saved")
}

// publish sends unseen listings and the profile to the publisher and
// returns the number of published records
func (w *Worker) publish(results []*scanner.Result) int {
	if w.deps.Publisher == nil {
		return 0
	}

	published := 0
	for _, result := range results {
		for _, listing := range result.Listings {
			if listing.Link != nil && w.isSeen(*listing.Link) {
				continue
			}
			data, err := json.Marshal(listing)
			if err != nil {
				w.deps.ErrorLog.LogError(result.Scanner, err)
				continue
			}
			if err := w.deps.Publisher.Publish(publisher.KeyJobListing, data); err != nil {
				w.deps.ErrorLog.LogError(result.Scanner, err)
				continue
			}
			if published == 0 && w.opts.Environment != "production" {
				w.deps.ErrorLog.LogInfo("Published listing: %s", string(data))
			}
			published++
			if listing.Link != nil {
				w.markSeen(*listing.Link)
			}
		}

		if result.Profile != nil {
			data, err := json.Marshal(result.Profile)
			if err != nil {
				w.deps.ErrorLog.LogError(result.Scanner, err)
				continue
			}
			if err := w.deps.Publisher.Publish(publisher.KeyProfile, data); err != nil {
				w.deps.ErrorLog.LogError(result.Scanner, err)
				continue
			}
			published++
		}
	}

	if err := w.deps.Publisher.TrimStreams(); err != nil {
		w.deps.ErrorLog.LogError("StreamTrimming", err)
	}
	w.log.Info().Int("published", published).Msg("Results published")
	return published
}

func (w *Worker) isSeen(link string) bool {
	if w.deps.Seen == nil {
		return false
	}
	seen, err := w.deps.Seen.Seen(link)
	if err != nil {
		w.log.Warn().Err(err).Msg("Seen lookup failed, publishing anyway")
		return false
	}
	return seen
}

func (w *Worker) markSeen(link string) {
	if w.deps.Seen == nil {
		return
	}
	if err := w.deps.Seen.MarkSeen(link); err != nil {
		w.log.Warn().Err(err).Msg("Could not mark listing as seen")
	}
}

func (w *Worker) startRecord() *storage.RunRecord {
	if w.deps.Recorder == nil {
		return nil
	}
	record, err := w.deps.Recorder.Start(string(w.opts.Mode))
	if err != nil {
		w.log.Warn().Err(err).Msg("Could not write run record")
		return nil
	}
	return record
}

func (w *Worker) count(record *storage.RunRecord, results []*scanner.Result) {
	if record == nil {
		return
	}
	for _, result := range results {
		record.Counts["listings"] += len(result.Listings)
		if result.Profile != nil {
			record.Counts["profiles"]++
		}
		record.Files = append(record.Files, result.Files...)
	}
}

func (w *Worker) finishRecord(record *storage.RunRecord, err error) {
	if record == nil {
		return
	}
	if finishErr := w.deps.Recorder.Finish(record, err); finishErr != nil {
		w.log.Warn().Err(finishErr).Msg("Could not update run record")
	}
}

func closeSessions(sessions []*browser.Session) {
	for _, s := range sessions {
		_ = s.Close()
	}
}
