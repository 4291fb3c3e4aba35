// Package auth escalates credentials for extraction: anonymous, cached
// OAuth token, then a fresh device-authorization flow.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// Public identity of the TV device client; the device grant requires no
// confidential secret handling.
const (
	deviceClientID     = "861556708454-d6dlm3lh05idd8npek18k6be8ba3oc68.apps.googleusercontent.com"
	deviceClientSecret = "SboVhoG9s0rNafixCSGGKXAT"

	tokenCacheFile = "oauth_token.json"
)

var deviceEndpoint = oauth2.Endpoint{
	DeviceAuthURL: "https://oauth2.googleapis.com/device/code",
	TokenURL:      "https://oauth2.googleapis.com/token",
}

// ErrFlowPending is returned when a second fresh authorization is
// requested while the first device flow has not produced a token.
var ErrFlowPending = errors.New("device authorization already in progress: finish the first device page")

// PromptFunc shows the user the verification URL and code of a device
// flow.
type PromptFunc func(verificationURL, userCode string)

// TokenProvider supplies bearer tokens for the OAuth auth modes.
type TokenProvider interface {
	// Cached returns a previously obtained token, "" when none exists.
	Cached(ctx context.Context) (string, error)
	// Fresh runs the interactive device flow. At most one flow is
	// prompted per session; later calls reuse its token.
	Fresh(ctx context.Context) (string, error)
}

// Session owns the per-process authorization state: the single-prompt
// flag and the token cache. The orchestrator creates one per run; no
// package-level globals are involved.
type Session struct {
	mu        sync.Mutex
	prompted  bool
	token     *oauth2.Token
	conf      *oauth2.Config
	cachePath string
	prompt    PromptFunc
}

// NewSession builds a Session caching tokens under cacheDir.
func NewSession(cacheDir string, prompt PromptFunc) *Session {
	return &Session{
		conf: &oauth2.Config{
			ClientID:     deviceClientID,
			ClientSecret: deviceClientSecret,
			Endpoint:     deviceEndpoint,
			Scopes:       []string{"https://www.googleapis.com/auth/youtube"},
		},
		cachePath: filepath.Join(cacheDir, tokenCacheFile),
		prompt:    prompt,
	}
}

// Prompted reports whether the device flow ran in this session.
func (s *Session) Prompted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompted
}

// Cached returns the cached token, refreshing it when expired. A
// missing cache is not an error; it reports "".
func (s *Session) Cached(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok := s.token
	if tok == nil {
		tok = s.loadCache()
	}
	if tok == nil {
		return "", nil
	}
	if tok.Valid() {
		s.token = tok
		return tok.AccessToken, nil
	}

	refreshed, err := s.conf.TokenSource(ctx, tok).Token()
	if err != nil {
		return "", err
	}
	s.token = refreshed
	s.saveCache(refreshed)
	return refreshed.AccessToken, nil
}

// Fresh runs the device-authorization grant. The prompted flag is
// checked-then-set under the lock, so the single-prompt invariant holds
// even if callers ever parallelize playlist items.
func (s *Session) Fresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.prompted {
		if s.token != nil {
			return s.token.AccessToken, nil
		}
		return "", ErrFlowPending
	}
	s.prompted = true

	da, err := s.conf.DeviceAuth(ctx)
	if err != nil {
		return "", err
	}
	if s.prompt != nil {
		s.prompt(da.VerificationURI, da.UserCode)
	}

	tok, err := s.conf.DeviceAccessToken(ctx, da)
	if err != nil {
		return "", err
	}
	s.token = tok
	s.saveCache(tok)
	return tok.AccessToken, nil
}

func (s *Session) loadCache() *oauth2.Token {
	data, err := os.ReadFile(s.cachePath)
	if err != nil {
		return nil
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil
	}
	return &tok
}

// saveCache is best effort; a failed write only costs a re-auth later.
func (s *Session) saveCache(tok *oauth2.Token) {
	data, err := json.Marshal(tok)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.cachePath), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(s.cachePath, data, 0o600)
}
