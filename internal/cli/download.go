package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/famomatic/yt2av/internal/auth"
	"github.com/famomatic/yt2av/internal/config"
	"github.com/famomatic/yt2av/internal/console"
	"github.com/famomatic/yt2av/internal/cookies"
	"github.com/famomatic/yt2av/internal/extract"
	"github.com/famomatic/yt2av/internal/media"
	"github.com/famomatic/yt2av/internal/orchestrator"
	"github.com/famomatic/yt2av/internal/selector"
	"github.com/famomatic/yt2av/internal/transcode"
)

type downloadFlags struct {
	outDir    string
	video     bool
	mkv       bool
	verbose   bool
	cookies   string
	ffmpeg    string
	ytdlp     string
	maxHeight int
	maxFPS    int
}

func newDownloadCmd() *cobra.Command {
	var flags downloadFlags

	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Download one video or a whole playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, args[0], flags)
		},
	}

	caps := selector.DefaultCaps()
	cmd.Flags().StringVarP(&flags.outDir, "path", "p", "", "output directory (default: configured output.default_path)")
	cmd.Flags().BoolVar(&flags.video, "video", false, "produce an H.264/AAC MP4 instead of an MP3")
	cmd.Flags().BoolVar(&flags.mkv, "mkv", false, "copy the source streams into an MKV without re-encoding")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "print debug output")
	cmd.Flags().StringVar(&flags.cookies, "cookies", "", "Netscape cookie jar for anonymous requests")
	cmd.Flags().StringVar(&flags.ffmpeg, "ffmpeg-location", "", "path to the ffmpeg binary")
	cmd.Flags().StringVar(&flags.ytdlp, "ytdlp-location", "", "path to the yt-dlp binary")
	cmd.Flags().IntVar(&flags.maxHeight, "max-height", caps.MaxHeight, "highest video resolution to select")
	cmd.Flags().IntVar(&flags.maxFPS, "max-fps", caps.MaxFPS, "highest video frame rate to select")
	cmd.MarkFlagsMutuallyExclusive("video", "mkv")

	return cmd
}

func runDownload(cmd *cobra.Command, url string, flags downloadFlags) error {
	log := console.New(flags.verbose)

	store, err := config.DefaultStore()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(store.Path)

	outDir := flags.outDir
	if outDir == "" {
		outDir = store.OutputPath()
	}

	mode := media.ModeAudio
	switch {
	case flags.mkv:
		mode = media.ModeVideoRemux
	case flags.video:
		mode = media.ModeVideo
	}

	transcoder := transcode.New(flags.ffmpeg)
	if !transcoder.Available() {
		return errors.New("ffmpeg not found: install it or pass --ffmpeg-location")
	}

	jar, err := resolveCookies(flags.cookies, configDir, log)
	if err != nil {
		return err
	}

	session := auth.NewSession(configDir, func(verificationURL, userCode string) {
		fmt.Fprintf(cmd.ErrOrStderr(), "\nAuthorization required. Open %s and enter code: %s\n\n", verificationURL, userCode)
	})

	extractor := extract.NewYTDLP(flags.ytdlp)
	orch := &orchestrator.Orchestrator{
		Extractor: extractor,
		Resolver: &auth.Resolver{
			Client:      extractor,
			Tokens:      session,
			CookiesFile: jar,
			Log:         log,
		},
		Transcoder: transcoder,
		Caps:       selector.Caps{MaxHeight: flags.maxHeight, MaxFPS: flags.maxFPS},
		Log:        log,
		Progress: func(label string) orchestrator.ProgressReporter {
			return console.NewProgress(cmd.ErrOrStderr(), label)
		},
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := orch.Process(ctx, url, outDir, mode)
	if err != nil {
		return err
	}
	return report(results, log)
}

// resolveCookies validates an explicit jar, or looks for the
// conventional one beside the config file. A broken conventional jar is
// skipped with a warning; a broken explicit one is an error.
func resolveCookies(explicit, configDir string, log *console.Logger) (string, error) {
	if explicit != "" {
		n, err := cookies.Load(explicit)
		if err != nil {
			return "", err
		}
		log.Debugf("using cookie jar %s (%d cookies)", explicit, n)
		return explicit, nil
	}

	path, ok := cookies.Locate(configDir)
	if !ok {
		return "", nil
	}
	n, err := cookies.Load(path)
	if err != nil {
		log.Warnf("ignoring unreadable cookie jar %s: %v", path, err)
		return "", nil
	}
	log.Debugf("using cookie jar %s (%d cookies)", path, n)
	return path, nil
}

// report summarizes the batch and decides the command's exit status:
// any failure in a single-item run fails the command, a playlist fails
// only when nothing succeeded.
func report(results []orchestrator.ItemResult, log *console.Logger) error {
	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if len(results) == 1 {
		res := results[0]
		if res.Err != nil {
			return res.Err
		}
		log.Successf("✓ Saved %s", res.OutputPath)
		return nil
	}

	log.Infof("Finished: %d/%d items succeeded", len(results)-failed, len(results))
	if failed == len(results) {
		return fmt.Errorf("all %d playlist items failed", failed)
	}
	return nil
}
