package schedule

import (
	"fmt"
	"time"
)

// The business runs out of Nadi regardless of where the server is deployed,
// so dispatch and digest math is pinned to this zone.
const BusinessTimezone = "Pacific/Fiji"

const (
	DefaultPickupTime  = "09:00"
	DefaultDropoffTime = "17:00"
)

// BusinessLocation resolves the business timezone, falling back to a fixed
// UTC+12 zone when the tz database is unavailable.
func BusinessLocation() *time.Location {
	loc, err := time.LoadLocation(BusinessTimezone)
	if err != nil {
		return time.FixedZone("FJT", 12*60*60)
	}
	return loc
}

// DateRange is an inclusive [Start, End] pair at day granularity.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// InRange reports whether d falls inside r, inclusive on both ends.
func InRange(d time.Time, r DateRange, loc *time.Location) bool {
	d = StartOfDay(d, loc)
	return !d.Before(StartOfDay(r.Start, loc)) && !d.After(StartOfDay(r.End, loc))
}

// RangesOverlap is the single overlap predicate for the whole system:
// closed-interval intersection at day granularity. A booking ending on day N
// conflicts with one starting on day N; same-day handoff is not allowed.
func RangesOverlap(aStart, aEnd time.Time, b DateRange, loc *time.Location) bool {
	aStart = StartOfDay(aStart, loc)
	aEnd = StartOfDay(aEnd, loc)
	bStart := StartOfDay(b.Start, loc)
	bEnd := StartOfDay(b.End, loc)
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}

// ClockOrDefault returns hhmm unless it is empty.
func ClockOrDefault(hhmm, def string) string {
	if hhmm == "" {
		return def
	}
	return hhmm
}

// MinutesBetween returns the signed minute difference between two "HH:MM"
// clock strings on the same day. Negative means to precedes from.
func MinutesBetween(from, to string) (int, error) {
	f, err := parseClock(from)
	if err != nil {
		return 0, err
	}
	t, err := parseClock(to)
	if err != nil {
		return 0, err
	}
	return t - f, nil
}

func parseClock(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", hhmm)
	}
	return h*60 + m, nil
}
