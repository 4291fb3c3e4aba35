// Package orchestrator drives one URL (or each playlist member) through
// auth fallback, stream selection, byte download and transcoding.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/famomatic/yt2av/internal/extract"
	"github.com/famomatic/yt2av/internal/fsutil"
	"github.com/famomatic/yt2av/internal/media"
	"github.com/famomatic/yt2av/internal/selector"
)

// SourceResolver obtains a Source for a URL; in production this is the
// auth fallback ladder.
type SourceResolver interface {
	Resolve(ctx context.Context, url string) (*media.Source, error)
}

// Transcoder is the external-tool boundary for the three output
// pipelines.
type Transcoder interface {
	Remux(ctx context.Context, videoPath, audioPath, outPath string) error
	MuxTranscode(ctx context.Context, videoPath, audioPath, outPath string) error
	TranscodeAudio(ctx context.Context, audioPath, outPath string) error
}

// Logger is the console surface the orchestrator reports through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Successf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)   {}
func (nopLogger) Infof(string, ...any)    {}
func (nopLogger) Warnf(string, ...any)    {}
func (nopLogger) Errorf(string, ...any)   {}
func (nopLogger) Successf(string, ...any) {}

// ProgressReporter receives byte progress for one stream download.
type ProgressReporter interface {
	Update(done, total int64)
	Finish(done, total int64)
}

// ItemResult is the outcome of one processed item.
type ItemResult struct {
	URL        string
	Title      string
	OutputPath string
	Err        error
}

// Orchestrator wires the pipeline together. Fields with interface
// types are required; Log and Progress are optional.
type Orchestrator struct {
	Extractor  extract.Client
	Resolver   SourceResolver
	Transcoder Transcoder
	Caps       selector.Caps
	Log        Logger
	// Progress builds a reporter per downloaded stream; nil disables
	// progress output.
	Progress func(label string) ProgressReporter
}

func (o *Orchestrator) logger() Logger {
	if o.Log != nil {
		return o.Log
	}
	return nopLogger{}
}

func (o *Orchestrator) caps() selector.Caps {
	if o.Caps == (selector.Caps{}) {
		return selector.DefaultCaps()
	}
	return o.Caps
}

// Process classifies the URL and runs the pipeline for every item it
// names. The returned error covers batch-level failures only;
// per-item failures live in the results.
func (o *Orchestrator) Process(ctx context.Context, url, outDir string, mode media.Mode) ([]ItemResult, error) {
	if err := fsutil.EnsureDir(outDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	if _, ok := extract.PlaylistID(url); ok {
		pl, err := o.Extractor.ResolvePlaylist(ctx, url)
		switch {
		case err == nil && len(pl.Entries) > 0:
			return o.processPlaylist(ctx, pl, outDir, mode), nil
		case err == nil:
			o.logger().Warnf("playlist resolved empty, treating URL as a single item")
		case errors.Is(err, media.ErrNotPlaylist):
			o.logger().Debugf("no playlist behind the list parameter, treating URL as a single item")
		default:
			// A URL that names a playlist but fails to resolve is a real
			// failure, not a single-item fallback.
			return nil, err
		}
	}

	res := o.processItem(ctx, url, outDir, mode)
	return []ItemResult{res}, nil
}

func (o *Orchestrator) processPlaylist(ctx context.Context, pl *media.Playlist, outDir string, mode media.Mode) []ItemResult {
	log := o.logger()
	title := fsutil.SanitizeTitle(pl.Title, "playlist")
	dir := filepath.Join(outDir, title)

	log.Infof("Found playlist: %s (%d videos)", pl.Title, len(pl.Entries))

	results := make([]ItemResult, 0, len(pl.Entries))
	for i, entry := range pl.Entries {
		res := o.processItem(ctx, entry.URL, dir, mode)
		results = append(results, res)
		if res.Err != nil {
			log.Errorf("[%d/%d] ✗ Failed: %v%s", i+1, len(pl.Entries), res.Err, restrictionHint(res.Err))
			continue
		}
		log.Successf("[%d/%d] ✓ %s", i+1, len(pl.Entries), filepath.Base(res.OutputPath))
	}
	return results
}

// processItem runs one item end to end. Intermediate artifacts are
// removed on every exit path where they were actually created.
func (o *Orchestrator) processItem(ctx context.Context, url, outDir string, mode media.Mode) ItemResult {
	res := ItemResult{URL: url}

	if err := fsutil.EnsureDir(outDir); err != nil {
		res.Err = fmt.Errorf("create output directory: %w", err)
		return res
	}

	src, err := o.Resolver.Resolve(ctx, url)
	if err != nil {
		res.Err = err
		return res
	}
	res.Title = src.Title

	title := fsutil.SanitizeTitle(src.Title, src.ID)
	outPath := filepath.Join(outDir, title+"."+mode.Ext())
	log := o.logger()

	var temps []string
	defer func() {
		for _, p := range temps {
			if err := fsutil.Remove(p); err != nil {
				log.Warnf("could not remove intermediate file %s: %v", p, err)
			}
		}
	}()

	audio, ok := selector.SelectAudio(src.Streams)
	if !ok {
		res.Err = media.ErrNoAudioStream
		return res
	}

	if mode == media.ModeAudio {
		log.Debugf("Downloading audio for: %s", src.Title)
		tmpAudio := fsutil.TempPath(outDir, "audio")
		temps = append(temps, tmpAudio)
		if err := o.fetch(ctx, audio, tmpAudio, title+" [audio]"); err != nil {
			res.Err = fmt.Errorf("download audio: %w", err)
			return res
		}
		if err := o.Transcoder.TranscodeAudio(ctx, tmpAudio, outPath); err != nil {
			res.Err = err
			return res
		}
		res.OutputPath = outPath
		return res
	}

	video, ok := selector.SelectVideo(src.Streams, o.caps())
	if !ok {
		res.Err = media.ErrNoVideoStream
		return res
	}

	log.Debugf("Downloading video: %s", src.Title)
	tmpVideo := fsutil.TempPath(outDir, "video")
	temps = append(temps, tmpVideo)
	if err := o.fetch(ctx, video, tmpVideo, title+" [video]"); err != nil {
		res.Err = fmt.Errorf("download video: %w", err)
		return res
	}

	tmpAudio := fsutil.TempPath(outDir, "audio")
	temps = append(temps, tmpAudio)
	if err := o.fetch(ctx, audio, tmpAudio, title+" [audio]"); err != nil {
		res.Err = fmt.Errorf("download audio: %w", err)
		return res
	}

	if mode == media.ModeVideoRemux {
		log.Debugf("Muxing streams without re-encoding")
		err = o.Transcoder.Remux(ctx, tmpVideo, tmpAudio, outPath)
	} else {
		log.Debugf("Re-encoding to H.264/AAC")
		err = o.Transcoder.MuxTranscode(ctx, tmpVideo, tmpAudio, outPath)
	}
	if err != nil {
		res.Err = err
		return res
	}

	res.OutputPath = outPath
	return res
}

func (o *Orchestrator) fetch(ctx context.Context, stream media.Stream, dst, label string) error {
	var reporter ProgressReporter
	var progress extract.ProgressFunc
	if o.Progress != nil {
		reporter = o.Progress(label)
		progress = reporter.Update
	}
	n, err := o.Extractor.Fetch(ctx, stream, dst, progress)
	if reporter != nil {
		reporter.Finish(n, stream.Filesize)
	}
	return err
}

// restrictionHint adds operator guidance for restriction-class
// failures.
func restrictionHint(err error) string {
	msg := strings.ToLower(err.Error())
	if media.IsRestriction(err) || strings.Contains(msg, "age restricted") || strings.Contains(msg, "sign in") {
		return "  (Tip: sign in with your primary account during the device flow; age verification may be required)"
	}
	return ""
}
