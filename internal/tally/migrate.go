// State migration: any persisted payload in, a valid State out.
package tally

import (
	"github.com/mesh-intelligence/tally/pkg/types"
)

// Migrate builds a current State from raw, a decoded JSON value of any
// shape. Each field is copied only when it passes that field's check;
// everything else keeps its default. Older documents that lack job,
// seqTitleMode, daily and so on take the same path: a missing field is a
// field that failed its check. The daily log is rolled to today before
// returning.
func Migrate(raw any, opts ...Option) types.State {
	return migrate(raw, newSettings(opts))
}

// MigrateJSON decodes data and migrates it. Unparseable data yields the
// default state and the parse error.
func MigrateJSON(data []byte, opts ...Option) (types.State, error) {
	set := newSettings(opts)
	raw, err := decodeDocument(string(data))
	if err != nil {
		return migrate(nil, set), err
	}
	return migrate(raw, set), nil
}

func migrate(raw any, set settings) types.State {
	now := set.now()
	next := types.DefaultState(LocalDateISO(now))

	obj, ok := asObject(raw)
	if !ok {
		return next
	}

	if f, ok := finiteNumber(obj["count"]); ok {
		if n, ok := clampTrunc(f); ok {
			next.Count = n
		}
	}
	next.Step = coerceStep(obj["step"], next.Step)
	if s, ok := asString(obj["job"]); ok {
		next.Job = s
	}
	if s, ok := asString(obj["label"]); ok {
		next.Label = s
	}
	if b, ok := asBool(obj["seqEnabled"]); ok {
		next.SeqEnabled = b
	}
	if m, ok := parseMode(obj["seqTitleMode"]); ok {
		next.SeqTitleMode = m
	}
	if s, ok := asString(obj["seqTitleCustom"]); ok {
		next.SeqTitleCustom = s
	}
	next.Toggles = migrateToggles(obj["toggles"], next.Toggles)
	next.SeqByLabel = migrateSeqByLabel(obj["seqByLabel"])

	ctx := EntryContext{Job: next.Job, SeqTitleCustom: next.SeqTitleCustom}
	next.Tape = normalizeEntries(obj["tape"], ctx, set)
	if daily, ok := asObject(obj["daily"]); ok {
		if d, ok := asString(daily["dateISO"]); ok && d != "" {
			next.Daily.DateISO = d
		}
		next.Daily.Entries = normalizeEntries(daily["entries"], ctx, set)
	}

	EnsureToday(&next, now)
	return next
}

// coerceStep reads a step value, falling back to def for anything that is
// not a positive number. Fractions floor; the result is at least 1.
func coerceStep(v any, def int64) int64 {
	f := toNumber(v)
	if !isFinite(f) || f == 0 {
		return def
	}
	n, ok := floorInt(f)
	if !ok {
		return def
	}
	return max(n, 1)
}

func migrateToggles(v any, base types.Toggles) types.Toggles {
	obj, ok := asObject(v)
	if !ok {
		return base
	}
	if b, ok := asBool(obj["sound"]); ok {
		base.Sound = b
	}
	if b, ok := asBool(obj["haptics"]); ok {
		base.Haptics = b
	}
	if s, ok := asString(obj["theme"]); ok {
		if theme, ok := types.ParseTheme(s); ok {
			base.Theme = theme
		}
	}
	if b, ok := asBool(obj["compact"]); ok {
		base.Compact = b
	}
	return base
}

// migrateSeqByLabel keeps counters that read as a number of at least 1.
// Keys are trusted as written.
func migrateSeqByLabel(v any) map[string]int {
	out := map[string]int{}
	obj, ok := asObject(v)
	if !ok {
		return out
	}
	for key, value := range obj {
		f := toNumber(value)
		if !isFinite(f) || f <= 0 {
			continue
		}
		n, ok := floorInt(f)
		if !ok || n < 1 {
			continue
		}
		out[key] = int(n)
	}
	return out
}
