// Descriptor and sequence commands: job, label, seq.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
	"github.com/mesh-intelligence/tally/pkg/types"
)

func newJobCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "job [text...]",
		Short: "Set the job recorded on printed entries (no text clears it)",
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			s.SetJob(strings.Join(args, " "))
			fmt.Fprintf(cmd.OutOrStdout(), "Job: %s\n", s.Snapshot().Job)
			return nil
		}),
	}
}

func newLabelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "label [text...]",
		Short: "Set the label recorded on printed entries (no text clears it)",
		Long:  "Set the label. Each label keeps its own sequence; labels differing only in case or surrounding spaces share one.",
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			s.SetLabel(strings.Join(args, " "))
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Label: %s\n", s.Snapshot().Label)
			fmt.Fprintln(w, s.SequenceDisplay())
			return nil
		}),
	}
}

func newSeqCmd(a *app) *cobra.Command {
	seq := &cobra.Command{
		Use:   "seq",
		Short: "Show or configure sequence numbering",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			fmt.Fprintln(cmd.OutOrStdout(), s.SequenceDisplay())
			return nil
		}),
	}

	enable := func(use string, on bool) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: "Turn sequence numbering " + use,
			Args:  cobra.NoArgs,
			RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
				s.SetSeqEnabled(on)
				fmt.Fprintln(cmd.OutOrStdout(), s.SequenceDisplay())
				return nil
			}),
		}
	}

	mode := &cobra.Command{
		Use:       "mode <none|simple|custom>",
		Short:     "Choose how sequence numbers appear on entries",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"none", "simple", "custom"},
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			m, ok := types.ParseSeqMode(args[0])
			if !ok {
				return userErr("%w: %q (valid: none, simple, custom)", types.ErrInvalidSeqMode, args[0])
			}
			if err := s.SetSeqTitleMode(m); err != nil {
				return userErr("%w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sequence mode: %s\n", m)
			return nil
		}),
	}

	custom := &cobra.Command{
		Use:   "custom [prefix...]",
		Short: "Set the prefix used by the custom sequence mode",
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			s.SetSeqTitleCustom(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), s.SequenceDisplay())
			return nil
		}),
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restart the current label's sequence at 1",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			s.ResetSequence()
			fmt.Fprintln(cmd.OutOrStdout(), s.SequenceDisplay())
			return nil
		}),
	}

	seq.AddCommand(enable("on", true), enable("off", false), mode, custom, reset)
	return seq
}
