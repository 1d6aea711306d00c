package scanner

import (
	"context"

	"sjsage522/upworkscanner/internal/browser"
	"sjsage522/upworkscanner/internal/models"
	"sjsage522/upworkscanner/logger"
	scanerrors "sjsage522/upworkscanner/pkg/errors"

	"github.com/PuerkitoBio/goquery"
)

// ProfileScanner reads the contact-info settings page and the public profile
type ProfileScanner struct {
	Contact  ContactSelectors
	Profile  ProfileSelectors
	Settings models.Options

	store     ProfileStore
	snapshots Snapshotter
	log       *logger.Logger
}

// NewProfileScanner creates a profile scanner. snapshots may be nil.
func NewProfileScanner(store ProfileStore, snapshots Snapshotter, opts models.Options) *ProfileScanner {
	return &ProfileScanner{
		Contact:   DefaultContactSelectors(),
		Profile:   DefaultProfileSelectors(),
		Settings:  opts,
		store:     store,
		snapshots: snapshots,
		log:       logger.ForScanner("profile"),
	}
}

// GetName returns the scanner name
func (p *ProfileScanner) GetName() string {
	return "profile"
}

// Scan runs the contact sub-scan, then the profile sub-scan, and saves both
func (p *ProfileScanner) Scan(ctx context.Context, session *browser.Session) (*Result, error) {
	account, location, err := p.scanContactInfo(ctx, session)
	if err != nil {
		return nil, err
	}

	profile, err := p.scanProfilePage(ctx, session)
	if err != nil {
		return nil, err
	}

	composite := models.CompositeProfile{Account: account, Location: location, Profile: profile}
	files, err := p.store.SaveProfile(composite)
	if err != nil {
		return nil, err
	}
	p.log.Info().Strs("files", files).Msg("Profile sections stored")

	return &Result{Scanner: p.GetName(), Profile: &composite, Files: files}, nil
}

func (p *ProfileScanner) scanContactInfo(ctx context.Context, session *browser.Session) (models.AccountRecord, models.LocationRecord, error) {
	var account models.AccountRecord
	var location models.LocationRecord

	if !session.IsAtContactInfoPage(ctx) {
		if err := session.Navigate(ctx, session.Site.ContactInfoURL); err != nil {
			return account, location, err
		}
	}

	if err := p.passInterstitials(ctx, session); err != nil {
		return account, location, err
	}
	p.log.Info().Msg("Contact-info page loaded")

	source, err := session.Driver.PageSource(ctx)
	if err != nil {
		return account, location, scanerrors.NewBrowser("contact", "failed to read page source", err)
	}
	p.snapshot("contact", source)

	doc, err := parseDocument(source)
	if err != nil {
		return account, location, scanerrors.NewParsing("contact", "failed to parse contact-info page", err)
	}
	account, location = p.ParseContactInfo(doc)
	p.log.Info().Msg("Account and location sections parsed")
	return account, location, nil
}

// passInterstitials answers the device check and re-enters the password when
// the settings area asks for either
func (p *ProfileScanner) passInterstitials(ctx context.Context, session *browser.Session) error {
	sel := p.Contact

	if session.IsElementPresent(ctx, sel.SecretInput) {
		if err := session.EnterTextWhenLoaded(ctx, sel.SecretInput, session.Credentials.SecretAnswer); err != nil {
			return err
		}
		if err := session.ClickElement(ctx, sel.SecretSave); err != nil {
			return err
		}
		p.log.Info().Msg("Secret answer accepted")
	}

	if session.IsElementPresent(ctx, sel.PasswordPrompt) {
		if err := session.EnterTextWhenLoaded(ctx, sel.PasswordInput, session.Credentials.Password); err != nil {
			return err
		}
		if err := session.ClickElement(ctx, sel.PasswordContinue); err != nil {
			return err
		}
		p.log.Info().Msg("Password re-entered")
	}
	return nil
}

// ParseContactInfo extracts the account and location blocks
func (p *ProfileScanner) ParseContactInfo(doc *goquery.Document) (models.AccountRecord, models.LocationRecord) {
	e := NewExtractor(doc.Selection)
	sel := p.Contact

	account := models.NewAccountRecord(models.AccountFields{
		ID:          e.Text(sel.UserID),
		FullName:    e.Text(sel.UserName),
		MaskedEmail: e.Text(sel.UserEmail),
	}, p.Settings)

	location := models.NewLocationRecord(models.LocationFields{
		Line1:       e.Text(sel.Street),
		Line2:       e.Text(sel.Street2),
		City:        e.Text(sel.City),
		State:       e.Text(sel.State),
		PostalCode:  e.Text(sel.Zip),
		Country:     e.Text(sel.Country),
		PhoneNumber: e.Text(sel.Phone),
	}, p.Settings)

	return account, location
}

func (p *ProfileScanner) scanProfilePage(ctx context.Context, session *browser.Session) (models.ProfileRecord, error) {
	if !session.IsAtProfilePage(ctx) {
		target := session.ProfileLink(ctx, p.Profile.ProfileLink)
		if err := session.Navigate(ctx, target); err != nil {
			return models.ProfileRecord{}, err
		}
	}
	p.log.Info().Str("url", session.Driver.CurrentURL()).Msg("Profile page loaded")

	source, err := session.Driver.PageSource(ctx)
	if err != nil {
		return models.ProfileRecord{}, scanerrors.NewBrowser("profile", "failed to read page source", err)
	}
	p.snapshot("profile", source)

	doc, err := parseDocument(source)
	if err != nil {
		return models.ProfileRecord{}, scanerrors.NewParsing("profile", "failed to parse profile page", err)
	}
	record := p.ParseProfile(doc)
	p.log.Info().
		Int("skills", len(record.Skills)).
		Int("employment", len(record.EmploymentHistory)).
		Msg("Profile sections parsed")
	return record, nil
}

// ParseProfile extracts the profile record
func (p *ProfileScanner) ParseProfile(doc *goquery.Document) models.ProfileRecord {
	e := NewExtractor(doc.Selection)
	sel := p.Profile

	return models.NewProfileRecord(models.ProfileFields{
		JobTitle:          e.Text(sel.Title),
		HourlyRate:        e.Text(sel.HourlyRate),
		Description:       e.Text(sel.Description),
		Skills:            e.Texts(sel.Skills),
		EmploymentHistory: employmentHistory(doc, sel),
	})
}

func (p *ProfileScanner) snapshot(kind, source string) {
	if p.snapshots == nil {
		return
	}
	if _, err := p.snapshots.SaveSnapshot(kind, source); err != nil {
		p.log.Warn().Err(err).Str("page", kind).Msg("Could not save page snapshot")
	}
}
