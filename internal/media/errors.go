package media

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnavailable indicates the item is gone (deleted, private, region
	// locked beyond recovery).
	ErrUnavailable = errors.New("video unavailable")

	// ErrNotPlaylist indicates a URL carries no recognizable playlist
	// component.
	ErrNotPlaylist = errors.New("not a playlist URL")

	// ErrNoVideoStream indicates no video candidate satisfied selection.
	ErrNoVideoStream = errors.New("no suitable video stream")

	// ErrNoAudioStream indicates no audio candidate was available.
	ErrNoAudioStream = errors.New("no suitable audio stream")
)

// StatusError is an HTTP-level extraction failure.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("extraction failed: http status=%d", e.Code)
}

// RestrictionError is a platform-side restriction reported during
// extraction (age gate, sign-in wall).
type RestrictionError struct {
	Reason string
}

func (e *RestrictionError) Error() string {
	return "restricted: " + e.Reason
}

func (e *RestrictionError) IsAgeRestricted() bool {
	return strings.Contains(strings.ToUpper(e.Reason), "AGE")
}

func (e *RestrictionError) RequiresAccount() bool {
	s := strings.ToUpper(e.Reason)
	return strings.Contains(s, "SIGN IN") || strings.Contains(s, "ACCOUNT")
}

// HTTPStatus extracts the status code from an error chain.
func HTTPStatus(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

// IsRestriction reports whether the error chain contains a platform
// restriction.
func IsRestriction(err error) bool {
	var re *RestrictionError
	return errors.As(err, &re)
}
