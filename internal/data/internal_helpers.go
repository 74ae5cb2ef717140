package data

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DateLayout is the wire format of date-only values.
const DateLayout = "2006-01-02"

// DefaultCategory is used for records saved without a category.
const DefaultCategory = "Others"

// textPolicy strips all markup from user supplied free text.
var textPolicy = bluemonday.StrictPolicy()

// contextGenerator is a helper function that generates a new context.Context from a
// context.Context and a timeout duration. This is useful for creating new contexts with
// deadlines for outgoing requests in our data layer.
func contextGenerator(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// newID returns a fresh record identifier.
func newID() string {
	return uuid.New().String()
}

// SanitizeText removes any HTML from s and trims surrounding whitespace.
// bluemonday escapes entities on output, so they are unescaped again to
// keep "&" and quotes readable.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// NormalizeCategory is the canonical form of a category key shared by
// budgets and transactions: sanitized, whitespace collapsed and title
// cased. An empty category becomes DefaultCategory.
func NormalizeCategory(category string) string {
	cleaned := strings.Join(strings.Fields(SanitizeText(category)), " ")
	if cleaned == "" {
		return DefaultCategory
	}
	// Casers keep state, so one is built per call.
	return cases.Title(language.English).String(cleaned)
}

// DateOnly is a calendar date that marshals as "YYYY-MM-DD".
type DateOnly struct {
	time.Time
}

// MarshalJSON to format time.Time as "YYYY-MM-DD"
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	formattedDate := fmt.Sprintf("\"%s\"", d.Format(DateLayout))
	return []byte(formattedDate), nil
}

// UnmarshalJSON accepts "YYYY-MM-DD" and falls back to dateparse for the
// other layouts clients send.
func (d *DateOnly) UnmarshalJSON(data []byte) error {
	strDate := strings.Trim(string(data), "\"")
	if strDate == "" || strDate == "null" {
		*d = DateOnly{}
		return nil
	}
	parsed, err := ParseDate(strDate)
	if err != nil {
		return err
	}
	*d = DateOnly{parsed}
	return nil
}

// ParseDate reads a date in YYYY-MM-DD or any layout dateparse knows,
// returning midnight UTC of that calendar day.
func ParseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(DateLayout, value); err == nil {
		return parsed, nil
	}
	parsed, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %v", value)
	}
	y, m, day := parsed.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), nil
}
