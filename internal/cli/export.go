// Export and import commands.
package cli

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tally/internal/export"
	"github.com/mesh-intelligence/tally/internal/tally"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format   string
		out      string
		clearDay bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export today's log and the tape, oldest first",
		Long: "Export every entry on the tape or in today's log, once each, sorted by time.\n" +
			"The default file is tally-<date>.csv in the current directory; --out - writes to stdout.",
		Args: cobra.NoArgs,
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return userErr("%w", err)
			}
			w := cmd.OutOrStdout()
			entries := s.ExportEntries()
			if len(entries) == 0 {
				warnColor.Fprintln(w, "No entries to export yet")
				return nil
			}

			path := out
			if path == "" {
				path = exportFilename(s, f)
			}
			if path == "-" {
				if err := export.Write(w, f, entries); err != nil {
					return sysErr("export: %w", err)
				}
			} else {
				if err := export.WriteFile(path, f, entries); err != nil {
					return sysErr("export: %w", err)
				}
				okColor.Fprintf(w, "Exported %d entries to %s\n", len(entries), path)
			}

			if clearDay {
				s.ClearDay()
				// Keep stdout clean when it carries the report.
				msgOut := w
				if path == "-" {
					msgOut = cmd.ErrOrStderr()
				}
				okColor.Fprintln(msgOut, "Day cleared")
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&format, "format", string(export.FormatCSV), "report format: csv or jsonl")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, or - for stdout")
	cmd.Flags().BoolVar(&clearDay, "clear-day", false, "clear the day after a successful export")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the state with a saved JSON document",
		Long: "Replace the whole state with the document in file (- reads stdin).\n" +
			"Documents from any earlier version are migrated; invalid fields fall back to defaults.",
		Args: cobra.ExactArgs(1),
		RunE: a.withSession(func(cmd *cobra.Command, args []string, s *tally.Session) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return userErr("read %s: %w", args[0], err)
			}
			if err := s.Import(data); err != nil {
				return userErr("%w", err)
			}
			snap := s.Snapshot()
			okColor.Fprintf(cmd.OutOrStdout(), "Imported state: count %d, %d tape entries, %d today\n",
				snap.Count, len(snap.Tape), len(snap.Daily.Entries))
			return nil
		}),
	}
}

// exportFilename is the default report name for format f.
func exportFilename(s *tally.Session, f export.Format) string {
	name := s.ExportFilename()
	if f == export.FormatJSONL {
		return strings.TrimSuffix(name, ".csv") + ".jsonl"
	}
	return name
}
