package scanner

import (
	"context"
	"sync"
	"time"

	"sjsage522/upworkscanner/internal/browser"
	"sjsage522/upworkscanner/internal/models"
	"sjsage522/upworkscanner/logger"
	scanerrors "sjsage522/upworkscanner/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// HomepageScanner reads the job cards of the job feed
type HomepageScanner struct {
	Selectors HomepageSelectors

	store     ListingStore
	snapshots Snapshotter
	now       func() time.Time
	log       *logger.Logger
}

// NewHomepageScanner creates a job feed scanner. snapshots may be nil.
func NewHomepageScanner(store ListingStore, snapshots Snapshotter) *HomepageScanner {
	return &HomepageScanner{
		Selectors: DefaultHomepageSelectors(),
		store:     store,
		snapshots: snapshots,
		now:       time.Now,
		log:       logger.ForScanner("homepage"),
	}
}

// GetName returns the scanner name
func (h *HomepageScanner) GetName() string {
	return "homepage"
}

// Scan opens the job feed unless it is already showing, parses every card and
// saves the listings as one file.
func (h *HomepageScanner) Scan(ctx context.Context, session *browser.Session) (*Result, error) {
	if !session.IsAtHomepage(ctx) {
		if err := session.Navigate(ctx, session.Site.HomepageURL); err != nil {
			return nil, err
		}
	}
	h.log.Info().Msg("Homepage loaded")

	source, err := session.Driver.PageSource(ctx)
	if err != nil {
		return nil, scanerrors.NewBrowser(h.GetName(), "failed to read page source", err)
	}
	h.snapshot(source)

	listings, err := h.Parse(source)
	if err != nil {
		return nil, err
	}
	h.log.Info().Int("listings", len(listings)).Msg("Job sections parsed")

	path, err := h.store.SaveListings(listings)
	if err != nil {
		return nil, err
	}
	h.log.Info().Str("file", path).Msg("Job sections stored")

	return &Result{Scanner: h.GetName(), Listings: listings, Files: []string{path}}, nil
}

// Parse extracts the listings of every job card in source, in document order
func (h *HomepageScanner) Parse(source string) ([]models.JobListing, error) {
	doc, err := parseDocument(source)
	if err != nil {
		return nil, scanerrors.NewParsing(h.GetName(), "failed to parse job feed", err)
	}

	cards := doc.Find(h.Selectors.Card)
	now := h.now()
	listings := make([]models.JobListing, cards.Length())

	var wg sync.WaitGroup
	cards.Each(func(i int, s *goquery.Selection) {
		wg.Add(1)
		go func(i int, s *goquery.Selection) {
			defer wg.Done()
			listings[i] = models.NewJobListing(h.cardFields(s), now)
		}(i, s)
	})
	wg.Wait()

	return listings, nil
}

func (h *HomepageScanner) cardFields(card *goquery.Selection) models.JobFields {
	e := NewExtractor(card)
	sel := h.Selectors
	return models.JobFields{
		Title:           e.Text(sel.Title),
		Link:            e.Attr(sel.Link, "href"),
		Description:     e.Text(sel.Description),
		Skills:          e.Texts(sel.Skills),
		Proposals:       e.Text(sel.Proposals),
		PostedOn:        e.Text(sel.PostedOn),
		Country:         e.Text(sel.Country),
		Budget:          e.Text(sel.Budget),
		JobType:         e.Text(sel.JobType),
		Duration:        e.Text(sel.Duration),
		Experience:      e.Text(sel.Experience),
		PaymentVerified: e.Exists(sel.PaymentVerified),
		ClientSpendings: e.Text(sel.ClientSpendings),
	}
}

func (h *HomepageScanner) snapshot(source string) {
	if h.snapshots == nil {
		return
	}
	if path, err := h.snapshots.SaveSnapshot(h.GetName(), source); err != nil {
		h.log.Warn().Err(err).Msg("Could not save page snapshot")
	} else {
		h.log.Debug().Str("file", path).Msg("Page snapshot saved")
	}
}
