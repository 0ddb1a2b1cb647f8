package errors

import (
	"regexp"
	"strings"
	"unicode"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateDate validates a YYYY-MM-DD date string as used in event records
// and API paths. It only checks shape; the calendar validity of the day is
// left to time.Parse at the point of use.
func ValidateDate(date string) error {
	if date == "" {
		return New(ErrCodeInvalidDate, "date cannot be empty")
	}
	if !dateRe.MatchString(date) {
		return New(ErrCodeInvalidDate, "date must be YYYY-MM-DD, got %q", date)
	}
	return nil
}

// ValidateSourceID validates a feed/manifest source identifier for safety.
// IDs end up in cache keys, log lines, and file names, so the rules are
// intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No path traversal sequences
//   - Maximum length of 128 characters
func ValidateSourceID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSource, "source ID cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidSource, "source ID too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "source ID contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\\",   // Backslash (Windows path)
		"\x00", // Null byte
	}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidSource, "source ID contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateFeedURL validates an ICS feed URL. It requires an http(s) scheme
// so file paths and arbitrary schemes cannot sneak into feed configs.
func ValidateFeedURL(url string) error {
	if url == "" {
		return New(ErrCodeInvalidSource, "feed URL cannot be empty")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return New(ErrCodeInvalidSource, "feed URL must use http or https: %q", url)
	}
	return nil
}
