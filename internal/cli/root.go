// Package cli defines the yt2av command tree and wires the pipeline
// components together for a run.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is stamped by the release build; "dev" otherwise.
var Version = "dev"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "yt2av",
		Short: "Download YouTube audio and video through ffmpeg",
		Long: `yt2av downloads a YouTube video or playlist and produces an MP3,
an H.264/AAC MP4, or a stream-copied MKV. Age-walled content falls back
to an OAuth device flow automatically.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newDownloadCmd())
	root.AddCommand(newConfigCmd())
	return root
}

// Execute runs the command tree and returns the process exit code.
func Execute(args []string) int {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		root.PrintErrln("Error:", err)
		return 1
	}
	return 0
}
