package tally

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// day1 is a mid-morning local time; day2 is the next local day.
var (
	day1 = time.Date(2026, 10, 16, 9, 30, 0, 0, time.Local)
	day2 = time.Date(2026, 10, 17, 0, 0, 1, 0, time.Local)
)

// testClock is a settable clock.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

// sequentialIDs returns a generator producing id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testOptions(now time.Time) []Option {
	return []Option{
		WithClock(func() time.Time { return now }),
		WithIDGenerator(sequentialIDs()),
	}
}

func mustDecode(t *testing.T, doc string) any {
	t.Helper()
	v, err := decodeDocument(doc)
	require.NoError(t, err, "decoding test document")
	return v
}

// assertValidState checks the structural invariants every State must hold.
func assertValidState(t *testing.T, s types.State) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Step, int64(1), "step")
	assert.True(t, s.SeqTitleMode.Valid(), "seqTitleMode")
	assert.NotNil(t, s.SeqByLabel, "seqByLabel")
	assert.NotNil(t, s.Tape, "tape")
	assert.NotNil(t, s.Daily.Entries, "daily.entries")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, s.Daily.DateISO)
	for k, v := range s.SeqByLabel {
		assert.GreaterOrEqual(t, v, 1, "seqByLabel[%q]", k)
	}
	for _, e := range append(append([]types.TapeEntry{}, s.Tape...), s.Daily.Entries...) {
		assertValidEntry(t, e)
	}
}

func assertValidEntry(t *testing.T, e types.TapeEntry) {
	t.Helper()
	assert.True(t, e.SeqMode.Valid(), "seqMode")
	if e.Seq == nil {
		assert.Equal(t, types.SeqNone, e.SeqMode, "null seq forces mode none")
		assert.Empty(t, e.SeqText, "null seq forces empty text")
	} else {
		assert.GreaterOrEqual(t, *e.Seq, 0)
	}
	if e.SeqMode == types.SeqNone {
		assert.Empty(t, e.SeqText, "mode none has no text")
	}
}

func intPtr(n int) *int { return &n }
