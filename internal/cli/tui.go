package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Count interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			if err := tui.Run(s, cmd.InOrStdin(), cmd.OutOrStdout(), tui.Options{}); err != nil {
				return sysErr("tui: %w", err)
			}
			return nil
		}),
	}
}
