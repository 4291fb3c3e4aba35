// Package extract is the boundary to the stream-extraction backend.
//
// The core pipeline only depends on the Client interface; the production
// implementation shells out to the external yt-dlp tool for metadata and
// performs byte downloads in-process.
package extract

import (
	"context"
	"net/url"

	"github.com/famomatic/yt2av/internal/media"
)

// ProgressFunc receives byte-level download progress. total is 0 when
// the size is unknown. It is invoked synchronously on the calling
// goroutine.
type ProgressFunc func(done, total int64)

// Options is the explicit per-call credential configuration. There is
// no ambient client state: cookies and tokens apply only to the call
// that names them.
type Options struct {
	Auth media.AuthMode
	// Token is a bearer token attached to extraction requests for the
	// OAuth modes.
	Token string
	// CookiesFile is a Netscape cookies.txt path, honored only in
	// anonymous mode. Empty disables cookies.
	CookiesFile string
}

// Client resolves remote items and fetches stream bytes.
type Client interface {
	// Resolve builds a Source for a single item URL.
	Resolve(ctx context.Context, rawURL string, opts Options) (*media.Source, error)

	// ResolvePlaylist expands a playlist URL into its member entries.
	// Returns media.ErrNotPlaylist when the URL carries no playlist
	// component; any other error is a genuine playlist failure.
	ResolvePlaylist(ctx context.Context, rawURL string) (*media.Playlist, error)

	// Fetch downloads one stream's bytes to dst, reporting progress.
	Fetch(ctx context.Context, stream media.Stream, dst string, progress ProgressFunc) (int64, error)
}

// PlaylistID returns the playlist component of a URL, if any. This is
// the structured classification step: no network I/O is involved.
func PlaylistID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	id := u.Query().Get("list")
	return id, id != ""
}
