// Package transcode wraps the external ffmpeg/ffprobe tools.
package transcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/famomatic/yt2av/internal/fsutil"
	"github.com/google/uuid"
)

const (
	ffmpegCommand  = "ffmpeg"
	ffprobeCommand = "ffprobe"

	videoCodec  = "libx264"
	videoPreset = "medium"
	videoCRF    = "18"
	pixelFormat = "yuv420p"
	audioCodec  = "aac"
	mp3Codec    = "libmp3lame"
	mp3Bitrate  = "192k"
	mp3Rate     = "44100"

	fastStartFlags = "use_metadata_tags+faststart"
)

// BitrateLadder maps probed channel counts to AAC bitrates. It is
// monotonic non-decreasing by construction of ForChannels.
type BitrateLadder struct {
	Stereo   string // 1-2 channels
	Surround string // 3-5 channels (5.1 side/back counted as 6)
	Extended string // 6-7 channels
	Discrete string // 8+ discrete channels
}

// DefaultLadder preserves the historical AAC-LC heuristics.
func DefaultLadder() BitrateLadder {
	return BitrateLadder{
		Stereo:   "192k",
		Surround: "256k",
		Extended: "384k",
		Discrete: "512k",
	}
}

// ForChannels returns the bitrate step for a channel count.
func (l BitrateLadder) ForChannels(ch int) string {
	switch {
	case ch >= 8:
		return l.Discrete
	case ch >= 6:
		return l.Extended
	case ch >= 3:
		return l.Surround
	default:
		return l.Stereo
	}
}

// Invoker runs ffmpeg/ffprobe subprocesses. The zero value uses the
// tools from PATH and the default bitrate ladder.
type Invoker struct {
	FFmpegPath  string
	FFprobePath string
	Ladder      BitrateLadder
}

// New returns an Invoker using the given ffmpeg path ("" for PATH
// lookup) and the default ladder.
func New(ffmpegPath string) *Invoker {
	return &Invoker{FFmpegPath: ffmpegPath, Ladder: DefaultLadder()}
}

// Available reports whether ffmpeg is executable.
func (i *Invoker) Available() bool {
	_, err := exec.LookPath(i.ffmpeg())
	return err == nil
}

func (i *Invoker) ffmpeg() string {
	if i.FFmpegPath != "" {
		return i.FFmpegPath
	}
	return ffmpegCommand
}

func (i *Invoker) ffprobe() string {
	if i.FFprobePath != "" {
		return i.FFprobePath
	}
	if i.FFmpegPath != "" {
		// Sit next to a custom ffmpeg binary.
		return filepath.Join(filepath.Dir(i.FFmpegPath), ffprobeCommand)
	}
	return ffprobeCommand
}

func (i *Invoker) ladder() BitrateLadder {
	if i.Ladder == (BitrateLadder{}) {
		return DefaultLadder()
	}
	return i.Ladder
}

// Remux copies video and audio elementary streams into a container
// without re-encoding. Playback stops at the shorter input.
func (i *Invoker) Remux(ctx context.Context, videoPath, audioPath, outPath string) error {
	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-c", "copy",
		"-shortest",
	}
	return i.runToOutput(ctx, args, outPath)
}

// MuxTranscode re-encodes video and audio into a widely compatible
// H.264/AAC file. The audio bitrate follows a channel-count probe of
// the audio input; the probe falls back to stereo on any failure.
func (i *Invoker) MuxTranscode(ctx context.Context, videoPath, audioPath, outPath string) error {
	ch := i.ProbeChannels(audioPath)
	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", videoCodec,
		"-preset", videoPreset,
		"-crf", videoCRF,
		"-pix_fmt", pixelFormat,
		"-c:a", audioCodec,
		"-b:a", i.ladder().ForChannels(ch),
		"-ac", fmt.Sprint(ch),
		"-movflags", fastStartFlags,
		"-shortest",
	}
	return i.runToOutput(ctx, args, outPath)
}

// TranscodeAudio drops any video track and re-encodes to MP3 at a
// fixed bitrate and sample rate.
func (i *Invoker) TranscodeAudio(ctx context.Context, audioPath, outPath string) error {
	args := []string{
		"-i", audioPath,
		"-vn",
		"-c:a", mp3Codec,
		"-b:a", mp3Bitrate,
		"-ar", mp3Rate,
	}
	return i.runToOutput(ctx, args, outPath)
}

// ProbeChannels returns the channel count of the first audio stream,
// clamped to [1,8]. Best effort: any probe failure yields 2.
func (i *Invoker) ProbeChannels(path string) int {
	cmd := exec.Command(i.ffprobe(),
		"-v", "error",
		"-show_entries", "stream=codec_type,channels",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 2
	}
	ch, err := parseChannelProbe(out)
	if err != nil {
		return 2
	}
	return ch
}

func parseChannelProbe(out []byte) (int, error) {
	var probe struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Channels  int    `json:"channels"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &probe); err != nil {
		return 0, err
	}
	for _, s := range probe.Streams {
		if s.CodecType != "audio" {
			continue
		}
		ch := s.Channels
		if ch < 1 {
			ch = 2
		}
		if ch > 8 {
			ch = 8
		}
		return ch, nil
	}
	return 0, fmt.Errorf("no audio stream in probe output")
}

// runToOutput executes ffmpeg writing to a temporary name in the
// destination directory and renames into place only after a zero exit,
// so a half-written final-name file is never observable.
func (i *Invoker) runToOutput(ctx context.Context, args []string, outPath string) error {
	dir := filepath.Dir(outPath)
	tmp := filepath.Join(dir, fsutil.TempPrefix+uuid.NewString()+filepath.Ext(outPath))

	full := append([]string{"-y", "-hide_banner", "-loglevel", "error"}, args...)
	full = append(full, tmp)

	cmd := exec.CommandContext(ctx, i.ffmpeg(), full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(tmp)
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("finalize output: %w", err)
	}
	return nil
}
