package transcode

import "testing"

func TestBitrateLadder_Steps(t *testing.T) {
	l := DefaultLadder()
	tests := []struct {
		ch   int
		want string
	}{
		{1, "192k"},
		{2, "192k"},
		{3, "256k"},
		{5, "256k"},
		{6, "384k"},
		{7, "384k"},
		{8, "512k"},
		{12, "512k"},
	}
	for _, tt := range tests {
		if got := l.ForChannels(tt.ch); got != tt.want {
			t.Errorf("ForChannels(%d) = %s, want %s", tt.ch, got, tt.want)
		}
	}
}

func TestBitrateLadder_MonotonicNonDecreasing(t *testing.T) {
	l := DefaultLadder()
	kbps := func(ch int) int {
		switch l.ForChannels(ch) {
		case "192k":
			return 192
		case "256k":
			return 256
		case "384k":
			return 384
		case "512k":
			return 512
		}
		t.Fatalf("unexpected bitrate for %d channels", ch)
		return 0
	}
	prev := 0
	for ch := 1; ch <= 16; ch++ {
		cur := kbps(ch)
		if cur < prev {
			t.Fatalf("ladder decreased at %d channels: %d < %d", ch, cur, prev)
		}
		prev = cur
	}
}

func TestParseChannelProbe(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
		err  bool
	}{
		{
			name: "stereo",
			json: `{"streams":[{"codec_type":"audio","channels":2}]}`,
			want: 2,
		},
		{
			name: "surround picks audio stream not video",
			json: `{"streams":[{"codec_type":"video"},{"codec_type":"audio","channels":6}]}`,
			want: 6,
		},
		{
			name: "clamped high",
			json: `{"streams":[{"codec_type":"audio","channels":24}]}`,
			want: 8,
		},
		{
			name: "missing channel count defaults to stereo",
			json: `{"streams":[{"codec_type":"audio"}]}`,
			want: 2,
		},
		{
			name: "no audio stream",
			json: `{"streams":[{"codec_type":"video"}]}`,
			err:  true,
		},
		{
			name: "garbage",
			json: `not-json`,
			err:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChannelProbe([]byte(tt.json))
			if tt.err {
				if err == nil {
					t.Fatal("parseChannelProbe() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseChannelProbe() error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("parseChannelProbe() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInvoker_ToolPaths(t *testing.T) {
	var zero Invoker
	if zero.ffmpeg() != "ffmpeg" || zero.ffprobe() != "ffprobe" {
		t.Fatalf("zero Invoker paths = %s/%s", zero.ffmpeg(), zero.ffprobe())
	}

	custom := Invoker{FFmpegPath: "/opt/media/ffmpeg"}
	if custom.ffprobe() != "/opt/media/ffprobe" {
		t.Fatalf("ffprobe beside custom ffmpeg = %s", custom.ffprobe())
	}
}
