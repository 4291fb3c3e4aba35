package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/famomatic/yt2av/internal/media"
)

var httpErrorPattern = regexp.MustCompile(`HTTP Error (\d{3})`)

// classifyExtractorError maps yt-dlp stderr text onto the error
// taxonomy. Restriction classes drive the auth fallback ladder; an HTTP
// status is preserved as a typed error; everything else surfaces the
// last meaningful stderr line.
func classifyExtractorError(stderr string, runErr error) error {
	lower := strings.ToLower(stderr)

	switch {
	case strings.Contains(lower, "confirm your age"),
		strings.Contains(lower, "age-restricted"),
		strings.Contains(lower, "age restricted"):
		return &media.RestrictionError{Reason: lastLine(stderr)}
	case strings.Contains(lower, "sign in to confirm"),
		strings.Contains(lower, "login required"):
		return &media.RestrictionError{Reason: lastLine(stderr)}
	}

	if m := httpErrorPattern.FindStringSubmatch(stderr); m != nil {
		code, _ := strconv.Atoi(m[1])
		return &media.StatusError{Code: code}
	}

	switch {
	case strings.Contains(lower, "video unavailable"),
		strings.Contains(lower, "private video"),
		strings.Contains(lower, "has been removed"):
		return fmt.Errorf("%w: %s", media.ErrUnavailable, lastLine(stderr))
	}

	if line := lastLine(stderr); line != "" {
		return fmt.Errorf("extraction failed: %s: %w", line, runErr)
	}
	return fmt.Errorf("extraction failed: %w", runErr)
}

// lastLine returns the final non-empty stderr line, which is where
// yt-dlp puts its ERROR summary.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
