package tally

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/tally/pkg/types"
)

func TestLocalDateISOUsesLocation(t *testing.T) {
	instant := time.Date(2026, 10, 16, 23, 30, 0, 0, time.UTC)
	west := time.FixedZone("UTC-5", -5*60*60)
	east := time.FixedZone("UTC+3", 3*60*60)

	assert.Equal(t, "2026-10-16", LocalDateISO(instant.In(west)))
	assert.Equal(t, "2026-10-17", LocalDateISO(instant.In(east)))
}

func TestEnsureTodayIdempotent(t *testing.T) {
	s := types.DefaultState(LocalDateISO(day1))
	s.Daily.Entries = []types.TapeEntry{{ID: "a"}}

	assert.False(t, EnsureToday(&s, day1))
	assert.False(t, EnsureToday(&s, day1))
	assert.Len(t, s.Daily.Entries, 1, "entries untouched on the same day")
}

func TestEnsureTodayRollsOver(t *testing.T) {
	s := types.DefaultState(LocalDateISO(day1))
	s.Daily.Entries = []types.TapeEntry{{ID: "a"}}
	s.Tape = []types.TapeEntry{{ID: "a"}}

	assert.True(t, EnsureToday(&s, day2))
	assert.Equal(t, "2026-10-17", s.Daily.DateISO)
	assert.Empty(t, s.Daily.Entries)
	assert.NotNil(t, s.Daily.Entries)
	assert.Len(t, s.Tape, 1, "tape survives rollover")

	assert.False(t, EnsureToday(&s, day2))
}

func TestEnsureTodayRepairsMissingDaily(t *testing.T) {
	var s types.State
	assert.True(t, EnsureToday(&s, day1))
	assert.Equal(t, "2026-10-16", s.Daily.DateISO)
	assert.NotNil(t, s.Daily.Entries)

	s.Daily.Entries = nil
	assert.True(t, EnsureToday(&s, day1), "nil entries repaired")
	assert.NotNil(t, s.Daily.Entries)
	assert.False(t, EnsureToday(&s, day1))
}
