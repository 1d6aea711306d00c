// Package models defines the records produced by the page scanners and the
// constructors that run the raw scraped fields through the normalizer.
package models

import (
	"time"

	"sjsage522/upworkscanner/internal/normalize"
)

// JobListing represents one job card scraped from the job feed
type JobListing struct {
	Title           *string  `json:"title"`
	Link            *string  `json:"link"`
	Description     *string  `json:"description"`
	Skills          []string `json:"skills"`
	Proposals       *string  `json:"proposals"`
	PostedOn        *string  `json:"posted_on"`
	Country         *string  `json:"country"`
	Budget          *string  `json:"budget"`
	JobType         *string  `json:"job_type"`
	Duration        *string  `json:"duration"`
	Experience      *string  `json:"experience"`
	PaymentVerified bool     `json:"payment_verified"`
	ClientSpendings *string  `json:"client_spendings"`
}

// Employment is one entry of a profile's employment history
type Employment struct {
	Title  *string `json:"title"`
	Period *string `json:"period"`
}

// ProfileRecord represents the public profile page
type ProfileRecord struct {
	JobTitle          *string      `json:"job_title"`
	HourlyRate        *string      `json:"hourly_rate"`
	Description       *string      `json:"description"`
	Skills            []string     `json:"skills"`
	EmploymentHistory []Employment `json:"employment_history"`
}

// AccountRecord represents the account block of the contact-info page
type AccountRecord struct {
	FullName    *string `json:"full_name"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	ID          *string `json:"id"`
	MaskedEmail *string `json:"masked_email"`
}

// LocationRecord represents the location block of the contact-info page
type LocationRecord struct {
	Line1       *string `json:"line_1"`
	Line2       *string `json:"line_2"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	PostalCode  *string `json:"postal_code"`
	Country     *string `json:"country"`
	PhoneNumber *string `json:"phone_number"`
}

// CompositeProfile aggregates everything the profile scan collects
type CompositeProfile struct {
	Account  AccountRecord  `json:"account_session"`
	Location LocationRecord `json:"location_session"`
	Profile  ProfileRecord  `json:"profile_page"`
}

// Options toggles the optional normalization steps
type Options struct {
	SplitFullName bool
	CountryCodes  bool
}

// DefaultOptions enables every optional normalization
func DefaultOptions() Options {
	return Options{SplitFullName: true, CountryCodes: true}
}

// JobFields holds the raw text scraped from one job card
type JobFields struct {
	Title           *string
	Link            *string
	Description     *string
	Skills          []string
	Proposals       *string
	PostedOn        *string
	Country         *string
	Budget          *string
	JobType         *string
	Duration        *string
	Experience      *string
	PaymentVerified bool
	ClientSpendings *string
}

// NewJobListing normalizes raw card fields. Relative posting dates are
// resolved against now.
func NewJobListing(f JobFields, now time.Time) JobListing {
	return JobListing{
		Title:           f.Title,
		Link:            f.Link,
		Description:     f.Description,
		Skills:          normalize.CollapseEach(f.Skills),
		Proposals:       f.Proposals,
		PostedOn:        normalize.ResolveRelativeTime(f.PostedOn, now),
		Country:         f.Country,
		Budget:          normalize.CleanNumericString(f.Budget),
		JobType:         f.JobType,
		Duration:        f.Duration,
		Experience:      f.Experience,
		PaymentVerified: f.PaymentVerified,
		ClientSpendings: normalize.ExpandKSuffixCurrency(f.ClientSpendings),
	}
}

// ProfileFields holds the raw text scraped from the profile page
type ProfileFields struct {
	JobTitle          *string
	HourlyRate        *string
	Description       *string
	Skills            []string
	EmploymentHistory []Employment
}

// NewProfileRecord normalizes raw profile fields
func NewProfileRecord(f ProfileFields) ProfileRecord {
	history := make([]Employment, 0, len(f.EmploymentHistory))
	for _, entry := range f.EmploymentHistory {
		history = append(history, Employment{
			Title:  normalize.CollapseWhitespace(entry.Title),
			Period: normalize.CollapseWhitespace(entry.Period),
		})
	}

	return ProfileRecord{
		JobTitle:          f.JobTitle,
		HourlyRate:        normalize.StripChars(f.HourlyRate, "$", "/hr"),
		Description:       f.Description,
		Skills:            normalize.CollapseEach(f.Skills),
		EmploymentHistory: history,
	}
}

// AccountFields holds the raw text of the account block
type AccountFields struct {
	ID          *string
	FullName    *string
	MaskedEmail *string
}

// NewAccountRecord normalizes raw account fields
func NewAccountRecord(f AccountFields, opts Options) AccountRecord {
	record := AccountRecord{
		FullName:    normalize.CollapseWhitespace(f.FullName),
		ID:          f.ID,
		MaskedEmail: f.MaskedEmail,
	}
	if opts.SplitFullName {
		record.FirstName, record.LastName = normalize.SplitFullName(record.FullName)
	}
	return record
}

// LocationFields holds the raw text of the location block
type LocationFields struct {
	Line1       *string
	Line2       *string
	City        *string
	State       *string
	PostalCode  *string
	Country     *string
	PhoneNumber *string
}

// NewLocationRecord normalizes raw location fields
func NewLocationRecord(f LocationFields, opts Options) LocationRecord {
	country := normalize.CollapseWhitespace(f.Country)
	if opts.CountryCodes {
		country = normalize.NormalizeCountry(f.Country)
	}

	return LocationRecord{
		Line1:       f.Line1,
		Line2:       f.Line2,
		City:        f.City,
		State:       normalize.StripChars(f.State, ","),
		PostalCode:  normalize.EmptyToAbsent(f.PostalCode),
		Country:     country,
		PhoneNumber: normalize.NormalizePhone(f.PhoneNumber),
	}
}
