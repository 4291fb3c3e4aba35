package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"strings"

	"github.com/famomatic/yt2av/internal/media"
)

const defaultYTDLPCommand = "yt-dlp"

// YTDLP resolves metadata through the external yt-dlp tool's JSON dump
// mode and downloads stream bytes in-process.
type YTDLP struct {
	// Path to the yt-dlp binary; empty uses PATH.
	Path string
	// HTTPClient used for stream byte downloads.
	HTTPClient *http.Client
	// Transport tunes download retry behavior.
	Transport TransportConfig
}

// NewYTDLP returns a client using the given binary path ("" for PATH).
func NewYTDLP(path string) *YTDLP {
	return &YTDLP{Path: path}
}

func (y *YTDLP) command() string {
	if y.Path != "" {
		return y.Path
	}
	return defaultYTDLPCommand
}

func (y *YTDLP) httpClient() *http.Client {
	if y.HTTPClient != nil {
		return y.HTTPClient
	}
	return http.DefaultClient
}

// Resolve dumps metadata for a single item and maps its formats.
func (y *YTDLP) Resolve(ctx context.Context, rawURL string, opts Options) (*media.Source, error) {
	args := []string{"-J", "--no-warnings", "--no-playlist"}
	if opts.Auth == media.AuthAnonymous && opts.CookiesFile != "" {
		args = append(args, "--cookies", opts.CookiesFile)
	}
	if opts.Token != "" {
		args = append(args, "--add-header", "Authorization: Bearer "+opts.Token)
	}
	args = append(args, rawURL)

	out, err := y.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseSource(out)
}

// ResolvePlaylist expands a playlist URL via a flat dump. URLs without
// a playlist component are rejected before any subprocess is spawned.
func (y *YTDLP) ResolvePlaylist(ctx context.Context, rawURL string) (*media.Playlist, error) {
	if _, ok := PlaylistID(rawURL); !ok {
		return nil, media.ErrNotPlaylist
	}

	args := []string{"-J", "--no-warnings", "--flat-playlist", "--yes-playlist", rawURL}
	out, err := y.run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("resolve playlist: %w", err)
	}
	return parsePlaylist(out)
}

func (y *YTDLP) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, y.command(), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyExtractorError(stderr.String(), err)
	}
	return stdout.Bytes(), nil
}

type formatPayload struct {
	FormatID string  `json:"format_id"`
	URL      string  `json:"url"`
	Ext      string  `json:"ext"`
	Protocol string  `json:"protocol"`
	Vcodec   string  `json:"vcodec"`
	Acodec   string  `json:"acodec"`
	Height   int     `json:"height"`
	FPS      float64 `json:"fps"`
	TBR      float64 `json:"tbr"`
	ABR      float64 `json:"abr"`
	Filesize int64   `json:"filesize"`
}

type sourcePayload struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Uploader string          `json:"uploader"`
	Duration float64         `json:"duration"`
	Formats  []formatPayload `json:"formats"`
}

func parseSource(data []byte) (*media.Source, error) {
	var p sourcePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse extractor output: %w", err)
	}
	if p.ID == "" {
		return nil, fmt.Errorf("parse extractor output: missing id")
	}

	src := &media.Source{
		ID:          p.ID,
		Title:       p.Title,
		Uploader:    p.Uploader,
		DurationSec: int(p.Duration),
	}
	for _, f := range p.Formats {
		s, ok := mapFormat(f)
		if !ok {
			continue
		}
		src.Streams = append(src.Streams, s)
	}
	return src, nil
}

// mapFormat normalizes one yt-dlp format entry. Manifest-only formats
// (HLS/DASH protocols) and URL-less entries are skipped: the fetch path
// downloads plain HTTP streams.
func mapFormat(f formatPayload) (media.Stream, bool) {
	if f.URL == "" {
		return media.Stream{}, false
	}
	if f.Protocol != "" && f.Protocol != "https" && f.Protocol != "http" {
		return media.Stream{}, false
	}

	hasVideo := f.Vcodec != "" && f.Vcodec != "none"
	hasAudio := f.Acodec != "" && f.Acodec != "none"

	s := media.Stream{
		FormatID:  f.FormatID,
		Container: f.Ext,
		Height:    f.Height,
		FPS:       int(f.FPS),
		URL:       f.URL,
		Filesize:  f.Filesize,
	}
	switch {
	case hasVideo:
		s.Kind = media.KindVideo
		s.Adaptive = !hasAudio
		s.Bitrate = int(f.TBR * 1000)
	case hasAudio:
		s.Kind = media.KindAudio
		s.Adaptive = true
		s.Bitrate = int(f.ABR * 1000)
		if s.Bitrate == 0 {
			s.Bitrate = int(f.TBR * 1000)
		}
	default:
		return media.Stream{}, false
	}
	return s, true
}

type playlistPayload struct {
	Type    string `json:"_type"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Entries []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"entries"`
}

func parsePlaylist(data []byte) (*media.Playlist, error) {
	var p playlistPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse playlist output: %w", err)
	}
	if p.Type != "playlist" {
		return nil, media.ErrNotPlaylist
	}

	pl := &media.Playlist{ID: p.ID, Title: p.Title}
	for _, e := range p.Entries {
		memberURL := e.URL
		if !strings.HasPrefix(memberURL, "http") {
			memberURL = "https://www.youtube.com/watch?v=" + e.ID
		}
		pl.Entries = append(pl.Entries, media.PlaylistEntry{
			ID:    e.ID,
			Title: e.Title,
			URL:   memberURL,
		})
	}
	return pl, nil
}
