// Tape entry normalization for persisted, possibly corrupt records.
package tally

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// EntryContext supplies the state's current descriptors, used where a raw
// entry lacks its own.
type EntryContext struct {
	Job            string
	SeqTitleCustom string
}

// timestampLayouts are tried in order for string timestamps. Date-only
// strings are read as UTC; date-times without a zone are read as local.
var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{time.RFC1123Z, false},
	{time.RFC1123, false},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02 15:04:05", true},
	{dateLayout, false},
}

// NormalizeEntry coerces raw into a well-formed TapeEntry. It returns false
// only when raw is not a JSON object.
func NormalizeEntry(raw any, ctx EntryContext, opts ...Option) (types.TapeEntry, bool) {
	return normalizeEntry(raw, ctx, newSettings(opts))
}

func normalizeEntry(raw any, ctx EntryContext, set settings) (types.TapeEntry, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return types.TapeEntry{}, false
	}

	var e types.TapeEntry
	if id, ok := asString(obj["id"]); ok {
		e.ID = id
	} else {
		e.ID = set.newID()
	}
	e.TS = normalizeTimestamp(obj["ts"], set.now)
	e.Label, _ = asString(obj["label"])
	if job, ok := asString(obj["job"]); ok {
		e.Job = job
	} else {
		e.Job = ctx.Job
	}
	e.Seq = normalizeSeq(obj["seq"])

	mode, ok := parseMode(obj["seqMode"])
	if !ok {
		mode = types.SeqNone
		if e.Seq != nil {
			mode = types.SeqSimple
		}
	}
	text, _ := asString(obj["seqText"])
	switch {
	case e.Seq == nil:
		// A missing number overrides whatever mode and text were stored.
		mode = types.SeqNone
		text = ""
	case mode == types.SeqNone:
		text = ""
	case text == "":
		prefix := ctx.SeqTitleCustom
		if own, ok := asString(obj["seqTitleCustom"]); ok && strings.TrimSpace(own) != "" {
			prefix = own
		}
		text = FormatText(mode, e.Seq, prefix)
	}
	e.SeqMode = mode
	e.SeqText = text

	if count := toNumber(obj["count"]); isFinite(count) {
		e.Count = count
	}
	return e, true
}

// normalizeEntries maps a raw array through normalizeEntry, dropping
// elements that are not objects. The result is never nil.
func normalizeEntries(raw any, ctx EntryContext, set settings) []types.TapeEntry {
	arr, _ := asArray(raw)
	out := make([]types.TapeEntry, 0, len(arr))
	for _, item := range arr {
		if e, ok := normalizeEntry(item, ctx, set); ok {
			out = append(out, e)
		}
	}
	return out
}

func normalizeSeq(v any) *int {
	if v == nil {
		return nil
	}
	n, ok := floorInt(toNumber(v))
	if !ok {
		return nil
	}
	seq := int(max(n, 0))
	return &seq
}

func normalizeTimestamp(v any, now func() time.Time) int64 {
	switch t := v.(type) {
	case json.Number, float64:
		if f, ok := finiteNumber(t); ok {
			if ms, ok := truncInt(f); ok {
				return ms
			}
		}
	case string:
		if strings.TrimSpace(t) != "" {
			if ms, ok := truncInt(toNumber(t)); ok {
				return ms
			}
		}
		if ts, ok := parseTimestamp(t); ok {
			return ts.UnixMilli()
		}
	}
	return now().UnixMilli()
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range timestampLayouts {
		var (
			ts  time.Time
			err error
		)
		if l.local {
			ts, err = time.ParseInLocation(l.layout, s, time.Local)
		} else {
			ts, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseMode(v any) (types.SeqMode, bool) {
	s, ok := asString(v)
	if !ok {
		return types.SeqNone, false
	}
	return types.ParseSeqMode(s)
}
