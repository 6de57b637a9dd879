// Tape commands: print, tape, day.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/tally"
)

func newPrintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Record the count on the tape and reset it",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			e := s.PrintToTape()
			w := cmd.OutOrStdout()
			if a.jsonMode {
				return writeJSON(w, e)
			}
			okColor.Fprint(w, "Printed ")
			fmt.Fprintln(w, entryLine(e))
			return nil
		}),
	}
}

func newTapeCmd(a *app) *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "tape",
		Short: "List the tape, newest first",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			w := cmd.OutOrStdout()
			if clear {
				if s.ClearTape() {
					okColor.Fprintln(w, "Tape cleared")
				} else {
					warnColor.Fprintln(w, "Tape already empty")
				}
				return nil
			}
			if a.jsonMode {
				return writeJSON(w, s.Tape())
			}
			printEntries(w, s.Tape(), "Tape is empty")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "remove every entry from the tape (today's log is kept)")
	return cmd
}

func newDayCmd(a *app) *cobra.Command {
	var clear bool
	cmd := &cobra.Command{
		Use:   "day",
		Short: "List today's log, newest first",
		Args:  cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			w := cmd.OutOrStdout()
			if clear {
				if s.ClearDay() {
					okColor.Fprintln(w, "Day cleared")
				} else {
					warnColor.Fprintln(w, "Nothing to clear")
				}
				return nil
			}
			if a.jsonMode {
				return writeJSON(w, s.DailyEntries())
			}
			fmt.Fprintf(w, "Today %s\n", s.DateISO())
			printEntries(w, s.DailyEntries(), "No entries today")
			return nil
		}),
	}
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the tape, today's log, every sequence and the count")
	return cmd
}
