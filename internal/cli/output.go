package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/tally/pkg/types"
)

var (
	countColor = color.New(color.FgCyan, color.Bold)
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
)

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return sysErr("marshal output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printCount prints "Count: n".
func printCount(w io.Writer, n int64) {
	fmt.Fprint(w, "Count: ")
	countColor.Fprintf(w, "%d\n", n)
}

// entryLine renders an entry as "2026-10-16 09:30  Line 2  Widget  #1  12".
func entryLine(e types.TapeEntry) string {
	parts := []string{time.UnixMilli(e.TS).Format("2006-01-02 15:04")}
	for _, p := range []string{e.Job, e.Label, e.SeqText} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	parts = append(parts, fmt.Sprintf("%g", e.Count))
	return strings.Join(parts, "  ")
}

// printEntries lists entries, or a placeholder when there are none.
func printEntries(w io.Writer, entries []types.TapeEntry, empty string) {
	if len(entries) == 0 {
		dimColor.Fprintln(w, empty)
		return
	}
	for _, e := range entries {
		fmt.Fprintln(w, entryLine(e))
	}
}
