// Daily rollover: keeps State.Daily on the current local date.
package tally

import (
	"time"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// dateLayout is the YYYY-MM-DD form of DailyLog.DateISO.
const dateLayout = "2006-01-02"

// LocalDateISO formats t's calendar date in t's own location. Callers
// pass local time (time.Now()) so the date follows the local timezone
// rather than UTC.
func LocalDateISO(t time.Time) string {
	return t.Format(dateLayout)
}

// EnsureToday resets s.Daily when its date is not now's local date, and
// repairs a missing entries list. It reports whether s changed. Calling it
// twice at the same date returns false the second time.
func EnsureToday(s *types.State, now time.Time) bool {
	changed := false
	today := LocalDateISO(now)
	if s.Daily.DateISO != today {
		s.Daily.DateISO = today
		s.Daily.Entries = []types.TapeEntry{}
		changed = true
	}
	if s.Daily.Entries == nil {
		s.Daily.Entries = []types.TapeEntry{}
		changed = true
	}
	return changed
}
