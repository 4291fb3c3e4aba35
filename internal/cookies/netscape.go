// Package cookies locates and validates a browser-exported Netscape
// cookie jar. The jar itself is handed to the extraction tool; loading
// here only confirms the file is usable and worth passing along.
package cookies

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultFileName is the conventional jar name looked up beside the
// config directory.
const DefaultFileName = "cookies.txt"

// Locate returns the jar path under dir when one exists. Absence is
// not an error.
func Locate(dir string) (string, bool) {
	path := filepath.Join(dir, DefaultFileName)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Load parses the jar at path and returns the number of cookies it
// carries. A readable file with zero cookies is still valid.
func Load(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open cookie jar: %w", err)
	}
	defer f.Close()

	jar, err := ParseNetscape(f)
	if err != nil {
		return 0, fmt.Errorf("parse cookie jar: %w", err)
	}
	return len(jar), nil
}

// ParseNetscape reads the Netscape cookies.txt format:
// domain flag path secure expiration name value, tab separated.
// Comment and malformed lines are skipped.
func ParseNetscape(r io.Reader) ([]*http.Cookie, error) {
	var out []*http.Cookie
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}

		expiresUnix, _ := strconv.ParseInt(fields[4], 10, 64)
		out = append(out, &http.Cookie{
			Domain:  fields[0],
			Path:    fields[2],
			Secure:  strings.EqualFold(fields[3], "TRUE"),
			Expires: time.Unix(expiresUnix, 0),
			Name:    fields[5],
			Value:   fields[6],
		})
	}
	return out, scanner.Err()
}
