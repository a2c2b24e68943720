package convert

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Fallback components used when a date header cannot be parsed.
const (
	unknownDate  = "Unknown_Date"
	unknownYear  = "Unknown_Year"
	unknownMonth = "Unknown_Month"
)

// dateLayouts are tried in order after RFC 5322 parsing fails.
var dateLayouts = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

var (
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	squeezeRuns = regexp.MustCompile(`[_\s]+`)
)

// ParseEmailDate parses a Date header value, trying the RFC 5322 parser
// first and a list of common non-conforming layouts after.
func ParseEmailDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if t, err := mail.ParseDate(value); err == nil {
		return t, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// YearMonth returns the "2006" and "01" folder components for a date
// header, with Unknown_* fallbacks when the date cannot be parsed.
func YearMonth(value string) (string, string) {
	t, ok := ParseEmailDate(value)
	if !ok {
		return unknownYear, unknownMonth
	}
	return t.Format("2006"), t.Format("01")
}

// SanitizeFilename strips characters that are unsafe in filenames,
// squeezes whitespace, and caps the length.
func SanitizeFilename(name string) string {
	safe := unsafeChars.ReplaceAllString(name, "_")
	safe = squeezeRuns.ReplaceAllString(safe, " ")
	safe = strings.TrimSpace(safe)
	if len(safe) > 100 {
		safe = safe[:100]
	}
	if safe == "" {
		return "untitled"
	}
	return safe
}

// FormatFilename builds a "YYYY-MM-DD - Subject" base name (no extension)
// that is unique within the given set of already-used names. The caller
// records the returned name in used.
func FormatFilename(date, subject string, used map[string]bool) string {
	trimmed := subject
	if len(trimmed) > 50 {
		trimmed = trimmed[:50]
	}
	safeSubject := SanitizeFilename(trimmed)

	formattedDate := unknownDate
	if t, ok := ParseEmailDate(date); ok {
		formattedDate = t.Format("2006-01-02")
	}

	base := strings.TrimSpace(formattedDate + " - " + safeSubject)

	unique := base
	for counter := 1; used[unique]; counter++ {
		unique = fmt.Sprintf("%s (%d)", base, counter)
	}

	return unique
}

// UniquePath returns a path in folder for filename that does not collide
// with an existing file, appending _1, _2, ... before the extension.
func UniquePath(folder, filename string) string {
	path := filepath.Join(folder, filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)

	for counter := 1; ; counter++ {
		path = filepath.Join(folder, fmt.Sprintf("%s_%d%s", name, counter, ext))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path
		}
	}
}
