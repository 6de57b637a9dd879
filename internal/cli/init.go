package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tally storage",
		Long:  "Create the configuration and data directories, write a default config.yaml\nif none exists, and initialize the storage backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// loadSettings has already written config.yaml when it was missing.
			_, release, err := a.attachStore()
			if err != nil {
				return err
			}
			if err := release(); err != nil {
				return sysErr("finalize storage: %w", err)
			}

			w := cmd.OutOrStdout()
			okColor.Fprintln(w, "Tally initialized")
			fmt.Fprintf(w, "config: %s\n", filepath.Join(a.cfg.ConfigDir, configFileExt))
			fmt.Fprintf(w, "data:   %s (%s)\n", a.cfg.DataDir, a.cfg.Backend)
			return nil
		},
	}
}
