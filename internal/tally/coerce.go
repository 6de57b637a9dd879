// Field coercion for decoded, untrusted JSON values.
package tally

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// maxSafeInt bounds integers carried through float64 without loss.
const maxSafeInt = 1<<53 - 1

// MaxCount is the largest count or step magnitude that survives a save
// and reload. Counts saturate at plus or minus MaxCount.
const MaxCount int64 = maxSafeInt

// clampCount limits n to [-MaxCount, MaxCount].
func clampCount(n int64) int64 {
	return min(max(n, -MaxCount), MaxCount)
}

// addCount returns count+delta saturated at plus or minus MaxCount.
func addCount(count, delta int64) int64 {
	count = clampCount(count)
	switch {
	case delta > 0 && count > MaxCount-delta:
		return MaxCount
	case delta < 0 && count < -MaxCount-delta:
		return -MaxCount
	}
	return count + delta
}

// decodeDocument parses a persisted JSON payload. Numbers are kept as
// json.Number so that every field decides its own coercion.
func decodeDocument(data string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after document")
	}
	return v, nil
}

// asObject returns v as a JSON object.
func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

// asArray returns v as a JSON array.
func asArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// asString returns v when it is a JSON string.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asBool returns v when it is a JSON boolean.
func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// finiteNumber accepts only JSON numbers with a finite value.
func finiteNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil || !isFinite(f) {
			return 0, false
		}
		return f, true
	case float64:
		return n, isFinite(n)
	}
	return 0, false
}

// toNumber converts v the way a loosely typed document expects numbers to
// be read: numeric strings parse, blank strings and null are zero,
// booleans are 0 or 1, and anything else is NaN.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case json.Number, float64:
		if f, ok := finiteNumber(n); ok {
			return f
		}
		return math.NaN()
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}

// floorInt floors f into the safe integer range.
func floorInt(f float64) (int64, bool) {
	if !isFinite(f) {
		return 0, false
	}
	f = math.Floor(f)
	if f > maxSafeInt || f < -maxSafeInt {
		return 0, false
	}
	return int64(f), true
}

// clampTrunc truncates a finite f toward zero and saturates it at plus or
// minus MaxCount.
func clampTrunc(f float64) (int64, bool) {
	if !isFinite(f) {
		return 0, false
	}
	f = math.Max(math.Min(math.Trunc(f), maxSafeInt), -maxSafeInt)
	return int64(f), true
}

// truncInt truncates f toward zero into the safe integer range.
func truncInt(f float64) (int64, bool) {
	if !isFinite(f) {
		return 0, false
	}
	f = math.Trunc(f)
	if f > maxSafeInt || f < -maxSafeInt {
		return 0, false
	}
	return int64(f), true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
