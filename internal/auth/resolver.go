package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/famomatic/yt2av/internal/extract"
	"github.com/famomatic/yt2av/internal/media"
)

// freshRetryLimit bounds the extra attempts after a fresh authorization
// while the token propagates (1 immediate + 4 retries).
const freshRetryLimit = 4

// Logger is the minimal logging surface the resolver needs.
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// Resolver drives the auth fallback ladder to obtain a Source. Auth
// requirements are only discoverable by attempting the operation, so
// the machine is reactive: classify each failure, escalate credential
// strength, or give up.
type Resolver struct {
	Client extract.Client
	Tokens TokenProvider
	// CookiesFile applies to the anonymous state only; OAuth states
	// never send cookies.
	CookiesFile string
	Log         Logger
	// Sleep is swappable for tests; nil means time.Sleep.
	Sleep func(time.Duration)
}

func (r *Resolver) logger() Logger {
	if r.Log != nil {
		return r.Log
	}
	return nopLogger{}
}

func (r *Resolver) sleep(d time.Duration) {
	if r.Sleep != nil {
		r.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Resolve obtains a Source for url, escalating Anonymous → OAuthCached
// → OAuthFresh. Transitions are strictly forward; only the fresh state
// loops, on HTTP 428, with linearly increasing backoff.
func (r *Resolver) Resolve(ctx context.Context, url string) (*media.Source, error) {
	mode := media.AuthAnonymous
	for {
		switch mode {
		case media.AuthAnonymous:
			src, err := r.Client.Resolve(ctx, url, extract.Options{
				Auth:        mode,
				CookiesFile: r.CookiesFile,
			})
			if err == nil {
				return src, nil
			}
			if !escalatesAnonymous(err) {
				return nil, err
			}
			r.logger().Warnf("restricted content detected (%v), retrying with cached OAuth", err)
			mode = media.AuthOAuthCached

		case media.AuthOAuthCached:
			token, err := r.Tokens.Cached(ctx)
			if err != nil || token == "" {
				// No usable cache counts as insufficient auth.
				mode = media.AuthOAuthFresh
				continue
			}
			src, err := r.Client.Resolve(ctx, url, extract.Options{Auth: mode, Token: token})
			if err == nil {
				return src, nil
			}
			if !escalatesCached(err) {
				return nil, err
			}
			r.logger().Warnf("cached OAuth token insufficient, forcing fresh authorization")
			mode = media.AuthOAuthFresh

		case media.AuthOAuthFresh:
			return r.resolveFresh(ctx, url)
		}
	}
}

// resolveFresh performs the device flow once, then tolerates a few
// HTTP 428 responses while the new token becomes accepted.
func (r *Resolver) resolveFresh(ctx context.Context, url string) (*media.Source, error) {
	token, err := r.Tokens.Fresh(ctx)
	if err != nil {
		return nil, fmt.Errorf("device authorization: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= freshRetryLimit; attempt++ {
		if attempt > 0 {
			wait := time.Duration(3+2*(attempt-1)) * time.Second
			r.logger().Warnf("token not accepted yet (HTTP 428), waiting %s before retry %d/%d", wait, attempt, freshRetryLimit)
			r.sleep(wait)
			// Re-resolve from the now-cached fresh token.
			if cached, err := r.Tokens.Cached(ctx); err == nil && cached != "" {
				token = cached
			}
		}

		src, err := r.Client.Resolve(ctx, url, extract.Options{
			Auth:  media.AuthOAuthFresh,
			Token: token,
		})
		if err == nil {
			return src, nil
		}
		if code, ok := media.HTTPStatus(err); !ok || code != http.StatusPreconditionRequired {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("authorization not accepted after %d attempts: %w", freshRetryLimit+1, lastErr)
}

// escalatesAnonymous: age-restriction classes and HTTP 400 (an age
// check surfacing as a bad request) escalate; anything else is fatal.
func escalatesAnonymous(err error) bool {
	if media.IsRestriction(err) {
		return true
	}
	code, ok := media.HTTPStatus(err)
	return ok && code == http.StatusBadRequest
}

// escalatesCached: restrictions that need a stronger account (or the
// same HTTP 400 shape) escalate; anything else is fatal.
func escalatesCached(err error) bool {
	return escalatesAnonymous(err)
}
