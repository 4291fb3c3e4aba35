package extract

import (
	"errors"
	"testing"

	"github.com/famomatic/yt2av/internal/media"
)

const sampleDump = `{
  "id": "dQw4w9WgXcQ",
  "title": "Sample Video",
  "uploader": "Sample Channel",
  "duration": 212.5,
  "formats": [
    {"format_id": "137", "url": "https://cdn.example/137", "ext": "mp4", "protocol": "https", "vcodec": "avc1.640028", "acodec": "none", "height": 1080, "fps": 30, "tbr": 4500.2},
    {"format_id": "251", "url": "https://cdn.example/251", "ext": "webm", "protocol": "https", "vcodec": "none", "acodec": "opus", "abr": 160.0, "filesize": 3400000},
    {"format_id": "22", "url": "https://cdn.example/22", "ext": "mp4", "protocol": "https", "vcodec": "avc1.64001F", "acodec": "mp4a.40.2", "height": 720, "fps": 30, "tbr": 1800},
    {"format_id": "hls", "url": "https://cdn.example/master.m3u8", "ext": "mp4", "protocol": "m3u8_native", "vcodec": "avc1", "acodec": "mp4a", "height": 1080},
    {"format_id": "sb0", "url": "", "ext": "mhtml", "vcodec": "none", "acodec": "none"}
  ]
}`

func TestParseSource(t *testing.T) {
	src, err := parseSource([]byte(sampleDump))
	if err != nil {
		t.Fatalf("parseSource() error: %v", err)
	}
	if src.ID != "dQw4w9WgXcQ" || src.Title != "Sample Video" {
		t.Fatalf("parseSource() identity = %s/%s", src.ID, src.Title)
	}
	if src.DurationSec != 212 {
		t.Fatalf("parseSource() duration = %d, want 212", src.DurationSec)
	}
	// Manifest-only and URL-less entries are dropped.
	if len(src.Streams) != 3 {
		t.Fatalf("parseSource() kept %d streams, want 3", len(src.Streams))
	}

	byID := map[string]media.Stream{}
	for _, s := range src.Streams {
		byID[s.FormatID] = s
	}

	v := byID["137"]
	if v.Kind != media.KindVideo || !v.Adaptive || v.Height != 1080 || v.Bitrate != 4500200 {
		t.Fatalf("video-only stream mapped wrong: %+v", v)
	}
	a := byID["251"]
	if a.Kind != media.KindAudio || !a.Adaptive || a.Bitrate != 160000 || a.Filesize != 3400000 {
		t.Fatalf("audio-only stream mapped wrong: %+v", a)
	}
	p := byID["22"]
	if p.Kind != media.KindVideo || p.Adaptive {
		t.Fatalf("progressive stream mapped wrong: %+v", p)
	}
}

func TestParseSource_MissingID(t *testing.T) {
	if _, err := parseSource([]byte(`{"title":"x"}`)); err == nil {
		t.Fatal("parseSource() accepted output without id")
	}
}

func TestParsePlaylist(t *testing.T) {
	dump := `{
	  "_type": "playlist",
	  "id": "PLx",
	  "title": "Mix: Best Of",
	  "entries": [
	    {"id": "aaa11111111", "title": "One", "url": "https://www.youtube.com/watch?v=aaa11111111"},
	    {"id": "bbb22222222", "title": "Two", "url": "bbb22222222"}
	  ]
	}`
	pl, err := parsePlaylist([]byte(dump))
	if err != nil {
		t.Fatalf("parsePlaylist() error: %v", err)
	}
	if pl.Title != "Mix: Best Of" || len(pl.Entries) != 2 {
		t.Fatalf("parsePlaylist() = %q with %d entries", pl.Title, len(pl.Entries))
	}
	if pl.Entries[1].URL != "https://www.youtube.com/watch?v=bbb22222222" {
		t.Fatalf("bare-id entry not expanded: %s", pl.Entries[1].URL)
	}
}

func TestParsePlaylist_SingleItemDump(t *testing.T) {
	_, err := parsePlaylist([]byte(`{"id":"x","title":"not a list"}`))
	if !errors.Is(err, media.ErrNotPlaylist) {
		t.Fatalf("parsePlaylist() = %v, want ErrNotPlaylist", err)
	}
}

func TestPlaylistID(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/playlist?list=PLabc", true},
		{"https://www.youtube.com/watch?v=abc&list=PLabc", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://youtu.be/abc", false},
		{"::bad::", false},
	}
	for _, tt := range tests {
		if _, got := PlaylistID(tt.url); got != tt.want {
			t.Errorf("PlaylistID(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestClassifyExtractorError(t *testing.T) {
	runErr := errors.New("exit status 1")

	err := classifyExtractorError("ERROR: Sign in to confirm your age. This video may be inappropriate for some users.", runErr)
	var re *media.RestrictionError
	if !errors.As(err, &re) || !re.IsAgeRestricted() {
		t.Fatalf("age wall classified as %T: %v", err, err)
	}

	err = classifyExtractorError("ERROR: unable to download API page: HTTP Error 428: Precondition Required", runErr)
	if code, ok := media.HTTPStatus(err); !ok || code != 428 {
		t.Fatalf("http status classified as %v", err)
	}

	err = classifyExtractorError("ERROR: Video unavailable", runErr)
	if !errors.Is(err, media.ErrUnavailable) {
		t.Fatalf("unavailable classified as %v", err)
	}

	err = classifyExtractorError("ERROR: something else entirely", runErr)
	if media.IsRestriction(err) {
		t.Fatalf("generic error classified as restriction: %v", err)
	}
	if !errors.Is(err, runErr) {
		t.Fatalf("generic error lost its cause: %v", err)
	}
}
