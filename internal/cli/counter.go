// Counter commands: show, inc, dec, reset, step.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the count, descriptors and sequence",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			w := cmd.OutOrStdout()
			if a.jsonMode {
				return writeJSON(w, s.Snapshot())
			}
			snap := s.Snapshot()
			printCount(w, snap.Count)
			fmt.Fprintf(w, "Step:  %d\n", snap.Step)
			fmt.Fprintf(w, "Job:   %s\n", snap.Job)
			fmt.Fprintf(w, "Label: %s\n", snap.Label)
			fmt.Fprintln(w, s.SequenceDisplay())
			dimColor.Fprintf(w, "Today %s: %d entries, tape: %d entries\n",
				s.DateISO(), len(s.DailyEntries()), len(snap.Tape))
			return nil
		}),
	}
}

// parseDelta reads the optional amount argument of inc and dec.
func parseDelta(args []string) (int64, bool, error) {
	if len(args) == 0 {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || n < 0 || n > tally.MaxCount {
		return 0, false, userErr("amount must be an integer from 0 to %d, got %q", tally.MaxCount, args[0])
	}
	return n, true, nil
}

func newIncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inc [n]",
		Short: "Add n to the count (default: one step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			n, ok, err := parseDelta(args)
			if err != nil {
				return err
			}
			if ok {
				s.ChangeCount(n)
			} else {
				s.Increment()
			}
			return a.reportCount(cmd, s)
		}),
	}
}

func newDecCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dec [n]",
		Short: "Subtract n from the count (default: one step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			n, ok, err := parseDelta(args)
			if err != nil {
				return err
			}
			if ok {
				s.ChangeCount(-n)
			} else {
				s.Decrement()
			}
			return a.reportCount(cmd, s)
		}),
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Set the count to zero",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			s.ResetCount()
			return a.reportCount(cmd, s)
		}),
	}
}

func newStepCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "step <n>",
		Short: "Set the step used by inc and dec",
		Long:  "Set the step. Fractions round down; anything that is not a positive number sets the step to 1.",
		Args:  cobra.ExactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			step := s.SetStepInput(args[0])
			if a.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"step": step})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Step: %d\n", step)
			return nil
		}),
	}
}

func (a *app) reportCount(cmd *cobra.Command, s *tally.Session) error {
	if a.jsonMode {
		return writeJSON(cmd.OutOrStdout(), map[string]int64{"count": s.Count()})
	}
	printCount(cmd.OutOrStdout(), s.Count())
	return nil
}
