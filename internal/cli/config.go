package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/famomatic/yt2av/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config KEY [VALUE]",
		Short: "Read or write a persisted setting",
		Long: fmt.Sprintf(`Reads the value of KEY, or sets it when VALUE is given.

Supported keys: %s`, strings.Join(config.SupportedKeys(), ", ")),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.DefaultStore()
			if err != nil {
				return err
			}

			if len(args) == 2 {
				if err := store.Set(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			}

			value, err := store.Get(args[0])
			if err != nil {
				return err
			}
			if value == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not set\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	return cmd
}
