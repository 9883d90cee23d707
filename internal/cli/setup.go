package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"skillkit/internal/config"
	"skillkit/internal/setup"
)

func newSetupCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the skillkit workspace",
		Long: `Create the configuration directory, skill directory, and a starter
config file. Safe to run repeatedly: existing files are detected and left
untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configDir == "" {
				configDir = config.Dir()
			}

			result, err := setup.Run(configDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range result.Created {
				fmt.Fprintf(out, "created %s\n", path)
			}
			for _, path := range result.Existing {
				fmt.Fprintf(out, "already present %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configDir, "dir", "", "workspace directory (default ~/.skillkit)")

	return cmd
}
