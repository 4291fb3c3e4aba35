package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/famomatic/yt2av/internal/media"
)

// TransportConfig controls retry behavior for stream byte downloads.
type TransportConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (c TransportConfig) normalize() TransportConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 3 * time.Second
	}
	return c
}

func (c TransportConfig) backoffFor(attempt int) time.Duration {
	backoff := c.InitialBackoff
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > c.MaxBackoff {
			return c.MaxBackoff
		}
	}
	return backoff
}

// Fetch downloads one stream to dst, retrying transient failures with
// exponential backoff. Each attempt rewrites the file from the start.
func (y *YTDLP) Fetch(ctx context.Context, stream media.Stream, dst string, progress ProgressFunc) (int64, error) {
	cfg := y.Transport.normalize()

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := waitBackoff(ctx, cfg.backoffFor(attempt-1)); err != nil {
				return 0, err
			}
		}

		n, err := y.fetchOnce(ctx, stream, dst, progress)
		if err == nil {
			return n, nil
		}
		lastErr = err
		if !isRetryable(err) {
			break
		}
	}
	return 0, lastErr
}

func (y *YTDLP) fetchOnce(ctx context.Context, stream media.Stream, dst string, progress ProgressFunc) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, stream.URL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := y.httpClient().Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return 0, &media.StatusError{Code: resp.StatusCode}
	}

	total := stream.Filesize
	if total == 0 && resp.ContentLength > 0 {
		total = resp.ContentLength
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var written int64
	buf := make([]byte, 64*1024)
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := f.Write(buf[:n]); writeErr != nil {
				return written, writeErr
			}
			written += int64(n)
			if progress != nil {
				progress(written, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, readErr
		}
	}

	if total > 0 && written < total {
		return written, fmt.Errorf("short download: %d of %d bytes", written, total)
	}
	return written, f.Sync()
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code, ok := media.HTTPStatus(err); ok {
		switch code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	return true
}

func waitBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
