package schedule

import (
	"sort"
	"time"

	"fijicarhire/internal/db"
)

// DefaultPendingHoldHours is how long an unconfirmed booking keeps soft-
// blocking the calendar while the customer finishes checkout.
const DefaultPendingHoldHours = 48

// BulkVehicleCap bounds a single bulk availability request.
const BulkVehicleCap = 500

type AvailabilityOptions struct {
	IncludePending   bool
	PendingHoldHours int
}

func (o AvailabilityOptions) holdWindow() time.Duration {
	hours := o.PendingHoldHours
	if hours <= 0 {
		hours = DefaultPendingHoldHours
	}
	return time.Duration(hours) * time.Hour
}

// Blocks reports whether b should block the calendar at the given moment.
// Confirmed bookings always block; pending ones only within the hold window.
// Ranges ending before today never block.
func Blocks(b db.Booking, now time.Time, loc *time.Location, opts AvailabilityOptions) bool {
	if StartOfDay(b.EndDate, loc).Before(StartOfDay(now, loc)) {
		return false
	}
	switch db.NormalizeStatus(b.Status) {
	case db.StatusConfirmed:
		return true
	case db.StatusPending:
		return opts.IncludePending && b.CreatedAt.After(now.Add(-opts.holdWindow()))
	}
	return false
}

// ComputeBlockedRanges projects a vehicle's bookings onto blocked date
// ranges, sorted by start. Overlapping or adjacent ranges are deliberately
// not merged; the calendar only asks "is this day inside any range".
func ComputeBlockedRanges(bookings []db.Booking, now time.Time, loc *time.Location, opts AvailabilityOptions) []DateRange {
	ranges := []DateRange{}
	for _, b := range bookings {
		if Blocks(b, now, loc, opts) {
			ranges = append(ranges, DateRange{
				Start: StartOfDay(b.StartDate, loc),
				End:   StartOfDay(b.EndDate, loc),
			})
		}
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start.Before(ranges[j].Start) })
	return ranges
}

// GroupBlockedRanges buckets bookings per vehicle and projects each bucket.
// Every requested id gets an entry, empty when the vehicle has no blocking
// bookings, so API consumers never see a missing key.
func GroupBlockedRanges(vehicleIDs []string, bookings []db.Booking, now time.Time, loc *time.Location, opts AvailabilityOptions) map[string][]DateRange {
	byVehicle := make(map[string][]db.Booking, len(vehicleIDs))
	for _, b := range bookings {
		byVehicle[b.VehicleID] = append(byVehicle[b.VehicleID], b)
	}
	out := make(map[string][]DateRange, len(vehicleIDs))
	for _, id := range vehicleIDs {
		out[id] = ComputeBlockedRanges(byVehicle[id], now, loc, opts)
	}
	return out
}

// DedupeVehicleIDs drops duplicates and empty ids, preserving first-seen
// order, and truncates to BulkVehicleCap.
func DedupeVehicleIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == BulkVehicleCap {
			break
		}
	}
	return out
}
