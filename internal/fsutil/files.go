// Package fsutil handles output naming and temporary-file conventions.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// TempPrefix marks intermediate download artifacts. Files carrying it
// must never survive a completed run.
const TempPrefix = ".tmp_"

var (
	hostileChars = regexp.MustCompile(`[\\/:*?"<>|]+`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// SanitizeTitle turns a media title into a safe base filename: hostile
// characters become spaces, whitespace collapses, trailing dots and
// spaces are trimmed. Falls back when nothing printable remains.
func SanitizeTitle(title, fallback string) string {
	s := hostileChars.ReplaceAllString(title, " ")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ". ")
	if s == "" {
		return fallback
	}
	return s
}

// TempPath returns a unique intermediate path inside dir for one
// elementary stream. The uuid suffix keeps concurrent items from ever
// colliding.
func TempPath(dir, kind string) string {
	name := fmt.Sprintf("%s%s.%s", TempPrefix, uuid.NewString(), kind)
	return filepath.Join(dir, name)
}

// Remove deletes path, tolerating files that were never created.
func Remove(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// EnsureDir creates dir and parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
