// Package export writes tape entries out as CSV or JSONL reports.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// Format selects the report encoding.
type Format string

// Supported formats.
const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// ErrUnknownFormat is returned by ParseFormat for anything but csv or jsonl.
var ErrUnknownFormat = errors.New("unknown export format")

// Header is the CSV header row.
var Header = []string{"timestamp", "job", "label", "sequence", "sequence_mode", "sequence_text", "count"}

// timestampLayout is ISO-8601 in UTC with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSONL:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q (valid: csv, jsonl)", ErrUnknownFormat, s)
}

// Row renders one entry as CSV fields in Header order.
func Row(e types.TapeEntry) []string {
	seq := ""
	if e.Seq != nil {
		seq = strconv.Itoa(*e.Seq)
	}
	return []string{
		time.UnixMilli(e.TS).UTC().Format(timestampLayout),
		e.Job,
		e.Label,
		seq,
		e.SeqMode.String(),
		e.SeqText,
		strconv.FormatFloat(e.Count, 'f', -1, 64),
	}
}

// WriteCSV writes the header and one row per entry with CRLF line endings.
func WriteCSV(w io.Writer, entries []types.TapeEntry) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write(Row(e)); err != nil {
			return fmt.Errorf("write entry %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSONL writes one JSON object per entry, one per line.
func WriteJSONL(w io.Writer, entries []types.TapeEntry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return fmt.Errorf("write entry %s: %w", e.ID, err)
		}
	}
	return nil
}

// Write encodes entries to w in format f.
func Write(w io.Writer, f Format, entries []types.TapeEntry) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, entries)
	case FormatJSONL:
		return WriteJSONL(w, entries)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteFile writes entries to path in format f using the temp-file,
// fsync, rename pattern, so a reader never sees a partial report.
func WriteFile(path string, f Format, entries []types.TapeEntry) error {
	if _, err := ParseFormat(string(f)); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	bw := bufio.NewWriter(tmp)
	if err := Write(bw, f, entries); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
