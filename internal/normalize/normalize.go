// Package normalize holds the pure field cleaners applied to scraped text.
//
// Every function is total: a nil input is returned as nil, and malformed
// input degrades to nil or to the input itself rather than failing.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/biter777/countries"
)

// TimestampLayout is the ISO-8601 layout used for resolved relative dates
const TimestampLayout = "2006-01-02T15:04:05.000000"

var (
	nonCurrencyChars = regexp.MustCompile(`[^\d.Kk]`)
	relativeTime     = regexp.MustCompile(`^(\d+) (\w+) ago`)

	timeUnits = map[string]time.Duration{
		"day":     24 * time.Hour,
		"days":    24 * time.Hour,
		"hour":    time.Hour,
		"hours":   time.Hour,
		"minute":  time.Minute,
		"minutes": time.Minute,
	}
)

// String returns a pointer to s
func String(s string) *string {
	return &s
}

// Value dereferences v, returning "" for nil
func Value(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// CleanNumericString keeps only the digit characters of v
func CleanNumericString(v *string) *string {
	if v == nil {
		return nil
	}
	return String(strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, *v))
}

// ExpandKSuffixCurrency turns amounts such as "$5K+" into "5000.0". Values
// without a K suffix are returned with everything but digits and periods removed.
func ExpandKSuffixCurrency(v *string) *string {
	if v == nil {
		return nil
	}
	cleaned := nonCurrencyChars.ReplaceAllString(*v, "")
	if !strings.ContainsAny(cleaned, "Kk") {
		return String(cleaned)
	}

	number := strings.NewReplacer("K", "", "k", "").Replace(cleaned)
	amount, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return nil
	}
	return String(formatFloat(amount * 1000))
}

// formatFloat renders whole numbers with a trailing ".0"
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ResolveRelativeTime converts phrases like "5 days ago" into an absolute
// timestamp relative to now. Anything else is returned unchanged.
func ResolveRelativeTime(v *string, now time.Time) *string {
	if v == nil {
		return nil
	}
	match := relativeTime.FindStringSubmatch(*v)
	if match == nil {
		return v
	}
	unit, ok := timeUnits[match[2]]
	if !ok {
		return v
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return v
	}
	return String(now.Add(-time.Duration(n) * unit).Format(TimestampLayout))
}

// CollapseWhitespace trims v and joins its words with single spaces
func CollapseWhitespace(v *string) *string {
	if v == nil {
		return nil
	}
	return String(strings.Join(strings.Fields(*v), " "))
}

// CollapseEach applies CollapseWhitespace to every element. The result is
// never nil.
func CollapseEach(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, strings.Join(strings.Fields(value), " "))
	}
	return out
}

// StripChars removes every occurrence of each of chars from v, then trims it
func StripChars(v *string, chars ...string) *string {
	if v == nil {
		return nil
	}
	s := *v
	for _, c := range chars {
		s = strings.ReplaceAll(s, c, "")
	}
	return String(strings.TrimSpace(s))
}

// EmptyToAbsent maps "" to nil
func EmptyToAbsent(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	return v
}

// NormalizeCountry maps a country name to its ISO 3166-1 alpha-2 code.
// Unknown names map to nil.
func NormalizeCountry(v *string) *string {
	if v == nil {
		return nil
	}
	name := strings.TrimSpace(*v)
	if name == "" {
		return nil
	}
	code := countries.ByName(name)
	if code == countries.Unknown {
		return nil
	}
	return String(code.Alpha2())
}

// NormalizePhone keeps the digits of v and prefixes them with "+".
// A value without digits maps to nil.
func NormalizePhone(v *string) *string {
	digits := CleanNumericString(v)
	if digits == nil || *digits == "" {
		return nil
	}
	return String("+" + *digits)
}

// SplitFullName returns the first word and, when there is more than one
// word, the last word of a name.
func SplitFullName(v *string) (first, last *string) {
	if v == nil {
		return nil, nil
	}
	names := strings.Fields(*v)
	if len(names) == 0 {
		return nil, nil
	}
	first = String(names[0])
	if len(names) > 1 {
		last = String(names[len(names)-1])
	}
	return first, last
}
