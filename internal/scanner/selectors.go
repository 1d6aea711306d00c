package scanner

// HomepageSelectors contains CSS selectors for the job feed cards
type HomepageSelectors struct {
	Card            string
	Title           string
	Link            string
	Description     string
	Proposals       string
	PostedOn        string
	Country         string
	Budget          string
	JobType         string
	Duration        string
	Experience      string
	ClientSpendings string
	Skills          string
	PaymentVerified string
}

// DefaultHomepageSelectors returns the selectors of the current job feed markup
func DefaultHomepageSelectors() HomepageSelectors {
	return HomepageSelectors{
		Card:            "section.up-card-section.up-card-list-section.up-card-hover",
		Title:           "a.up-n-link",
		Link:            "a.up-n-link",
		Description:     `span[data-test="job-description-text"]`,
		Proposals:       `strong[data-test="proposals"]`,
		PostedOn:        `span[data-test="posted-on"]`,
		Country:         `small[data-test="client-country"]`,
		Budget:          `span[data-test="budget"]`,
		JobType:         `strong[data-test="job-type"]`,
		Duration:        `span[data-test="duration"]`,
		Experience:      `span[data-test="contractor-tier"]`,
		ClientSpendings: `span[data-test="formatted-amount"]`,
		Skills:          "a.up-skill-badge.text-muted",
		PaymentVerified: "div.up-icon.text-complimentary",
	}
}

// ContactSelectors contains the selectors of the contact-info settings page
type ContactSelectors struct {
	UserID      string
	UserName    string
	UserEmail   string
	Street      string
	Street2     string
	City        string
	State       string
	Zip         string
	Country     string
	Phone       string
	SecretInput string
	SecretSave  string
	// PasswordPrompt marks the password re-entry interstitial
	PasswordPrompt   string
	PasswordInput    string
	PasswordContinue string
}

// DefaultContactSelectors returns the selectors of the contact-info page
func DefaultContactSelectors() ContactSelectors {
	return ContactSelectors{
		UserID:           `div[data-test="userId"]`,
		UserName:         `div[data-test="userName"]`,
		UserEmail:        `div[data-test="userEmail"]`,
		Street:           `span[data-test="addressStreet"]`,
		Street2:          `span[data-test="addressStreet2"]`,
		City:             `span[data-test="addressCity"]`,
		State:            `span[data-test="addressState"]`,
		Zip:              `span[data-test="addressZip"]`,
		Country:          `span[data-test="addressCountry"]`,
		Phone:            `div[data-test="phone"]`,
		SecretInput:      "deviceAuth_answer",
		SecretSave:       "control_save",
		PasswordPrompt:   "reenterPassword",
		PasswordInput:    "sensitiveZone_password",
		PasswordContinue: "control_continue",
	}
}

// ProfileSelectors contains the selectors of the public profile page
type ProfileSelectors struct {
	// ProfileLink is the href fragment of links to the profile page
	ProfileLink string
	Title       string
	HourlyRate  string
	Description string
	Skills      string

	EmploymentHeading     string
	EmploymentHeadingText string
	// EmploymentAncestors is how many enclosing divs hold the entries
	EmploymentAncestors int
	EmploymentEntry     string
	EmploymentTitle     string
	EmploymentPeriod    string
}

// DefaultProfileSelectors returns the selectors of the profile page
func DefaultProfileSelectors() ProfileSelectors {
	return ProfileSelectors{
		ProfileLink:           "/freelancers/~",
		Title:                 "h2.mb-0, h2.h4",
		HourlyRate:            "h3.my-6x, h3.h5",
		Description:           "div.air3-line-clamp",
		Skills:                "span.air3-token",
		EmploymentHeading:     "h3",
		EmploymentHeadingText: "employment history",
		EmploymentAncestors:   3,
		EmploymentEntry:       "div.air3-card-section.px-0",
		EmploymentTitle:       "h4.my-0",
		EmploymentPeriod:      "div.mt-3x.text-light-on-inverse",
	}
}
