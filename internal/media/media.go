// Package media holds the shared data model for sources, streams and
// download modes.
package media

// StreamKind distinguishes the two elementary track types.
type StreamKind string

const (
	KindVideo StreamKind = "video"
	KindAudio StreamKind = "audio"
)

// Stream describes one selectable elementary stream of a source.
type Stream struct {
	FormatID string
	Kind     StreamKind
	// Container is the container hint reported by the extractor ("mp4",
	// "webm", "m4a", ...).
	Container string
	// Height is the vertical resolution in pixels, 0 when unknown or
	// audio-only.
	Height int
	FPS    int
	// Bitrate is the average bitrate in bits per second, 0 when unknown.
	Bitrate int
	// Adaptive marks a single-track stream that requires muxing with a
	// complementary track to produce playable media.
	Adaptive bool
	URL      string
	Filesize int64
}

// Source is an immutable handle to one remote item and its streams.
type Source struct {
	ID       string
	Title    string
	Uploader string
	// DurationSec is the reported duration, 0 when unknown.
	DurationSec int
	Streams     []Stream
}

// PlaylistEntry is one member of a resolved playlist.
type PlaylistEntry struct {
	ID    string
	Title string
	URL   string
}

// Playlist is an ordered batch of member URLs sharing one output
// subdirectory.
type Playlist struct {
	ID      string
	Title   string
	Entries []PlaylistEntry
}

// Mode selects the output pipeline for one item.
type Mode string

const (
	// ModeAudio transcodes the best audio stream to MP3.
	ModeAudio Mode = "audio"
	// ModeVideo re-encodes best video + best audio into an MP4.
	ModeVideo Mode = "video"
	// ModeVideoRemux copies best video + best audio into an MKV without
	// re-encoding.
	ModeVideoRemux Mode = "video_remux"
)

// Ext returns the final output extension for the mode.
func (m Mode) Ext() string {
	switch m {
	case ModeVideo:
		return "mp4"
	case ModeVideoRemux:
		return "mkv"
	default:
		return "mp3"
	}
}

// AuthMode is the credential path used to build a Source, ordered by
// escalating strength.
type AuthMode int

const (
	AuthAnonymous AuthMode = iota
	AuthOAuthCached
	AuthOAuthFresh
)

func (m AuthMode) String() string {
	switch m {
	case AuthAnonymous:
		return "anonymous"
	case AuthOAuthCached:
		return "oauth-cached"
	case AuthOAuthFresh:
		return "oauth-fresh"
	default:
		return "unknown"
	}
}
