// Package selector picks source streams for download.
package selector

import "github.com/famomatic/yt2av/internal/media"

// Caps bounds the video candidates considered before fallback. The
// defaults keep transcode cost sane and avoid exotic high-frame-rate
// sources.
type Caps struct {
	MaxHeight int
	MaxFPS    int
}

// DefaultCaps matches the historical 1440p/60fps limits.
func DefaultCaps() Caps {
	return Caps{MaxHeight: 1440, MaxFPS: 60}
}

// SelectVideo picks the best adaptive MP4 video-only stream.
//
// Preference order: candidates within both caps, then candidates within
// the resolution cap only, then the single highest-resolution video
// stream of any container or frame rate. Within a tier the winner
// maximizes (height, fps, bitrate) lexicographically.
func SelectVideo(streams []media.Stream, caps Caps) (media.Stream, bool) {
	var base []media.Stream
	for _, s := range streams {
		if s.Kind == media.KindVideo && s.Adaptive && s.Container == "mp4" {
			base = append(base, s)
		}
	}

	capped := filter(base, func(s media.Stream) bool {
		return s.Height <= caps.MaxHeight && s.FPS <= caps.MaxFPS
	})
	if best, ok := maxByVideoKey(capped); ok {
		return best, true
	}

	withinRes := filter(base, func(s media.Stream) bool {
		return s.Height <= caps.MaxHeight
	})
	if best, ok := maxByVideoKey(withinRes); ok {
		return best, true
	}

	// Last resort: tallest video stream overall, any container.
	var any []media.Stream
	for _, s := range streams {
		if s.Kind == media.KindVideo {
			any = append(any, s)
		}
	}
	return maxByVideoKey(any)
}

// SelectAudio picks the audio-only stream with the highest average
// bitrate regardless of container, so multi-channel opus/webm sources
// stay eligible. The container is normalized downstream anyway.
func SelectAudio(streams []media.Stream) (media.Stream, bool) {
	var best media.Stream
	found := false
	for _, s := range streams {
		if s.Kind != media.KindAudio {
			continue
		}
		if !found || s.Bitrate > best.Bitrate {
			best = s
			found = true
		}
	}
	return best, found
}

func filter(streams []media.Stream, keep func(media.Stream) bool) []media.Stream {
	var out []media.Stream
	for _, s := range streams {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func maxByVideoKey(streams []media.Stream) (media.Stream, bool) {
	if len(streams) == 0 {
		return media.Stream{}, false
	}
	best := streams[0]
	for _, s := range streams[1:] {
		if compareKeys(
			[]int{s.Height, s.FPS, s.Bitrate},
			[]int{best.Height, best.FPS, best.Bitrate},
		) {
			best = s
		}
	}
	return best, true
}

// compareKeys reports whether a sorts strictly above b in lexicographic
// order.
func compareKeys(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		return a[i] > b[i]
	}
	return false
}
