// Preference and sharing commands: toggle, theme, share.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

// parseOnOff accepts on/off and the usual boolean spellings.
func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, userErr("expected on or off, got %q", s)
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "toggle <sound|haptics|compact> <on|off>",
		Short:     "Switch a preference on or off",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"sound", "haptics", "compact"},
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			on, err := parseOnOff(args[1])
			if err != nil {
				return err
			}
			switch args[0] {
			case "sound":
				s.SetSound(on)
			case "haptics":
				s.SetHaptics(on)
			case "compact":
				s.SetCompact(on)
			default:
				return userErr("unknown toggle %q (valid: sound, haptics, compact)", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], onOff(on))
			return nil
		}),
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [system|light|dark]",
		Short:     "Show or set the theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"system", "light", "dark"},
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			if len(args) == 1 {
				theme, ok := types.ParseTheme(args[0])
				if !ok {
					return userErr("%w: %q (valid: system, light, dark)", types.ErrInvalidTheme, args[0])
				}
				if err := s.SetTheme(theme); err != nil {
					return userErr("%w", err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", s.Snapshot().Toggles.Theme)
			return nil
		}),
	}
}

func newShareCmd(a *app) *cobra.Command {
	var copyText bool
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a one-line summary of the count",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			text := s.ShareText()
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, text)
			if copyText {
				if err := a.copy(text); err != nil {
					return sysErr("copy to clipboard: %w", err)
				}
				okColor.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&copyText, "copy", false, "also copy the summary to the clipboard")
	return cmd
}
