package service

import (
	"fmt"
	"time"

	"fijicarhire/internal/db"
	"fijicarhire/internal/schedule"
)

// AvailabilityStore is the slice of the booking repository the availability
// resolvers need.
type AvailabilityStore interface {
	ListBlockingBookings(vehicleIDs []string, status string, horizon time.Time, createdAfter *time.Time) ([]db.Booking, error)
}

type AvailabilityService struct {
	Store AvailabilityStore
	Loc   *time.Location

	// now is swappable for tests.
	now func() time.Time
}

func NewAvailabilityService(store AvailabilityStore) *AvailabilityService {
	return &AvailabilityService{
		Store: store,
		Loc:   time.Local,
		now:   time.Now,
	}
}

// VehicleAvailability resolves the blocked date ranges for one vehicle. It
// runs through the same batch path as BulkAvailability so a single lookup
// and a one-element bulk lookup always agree.
func (s *AvailabilityService) VehicleAvailability(vehicleID string, opts schedule.AvailabilityOptions) ([]schedule.DateRange, error) {
	results, err := s.BulkAvailability([]string{vehicleID}, opts)
	if err != nil {
		return nil, err
	}
	return results[vehicleID], nil
}

// BulkAvailability resolves blocked ranges for many vehicles with at most
// two repository queries: one for confirmed rows across all ids, one for
// recent pending rows when asked for. Every requested id is present in the
// result, empty when the vehicle is fully free.
func (s *AvailabilityService) BulkAvailability(vehicleIDs []string, opts schedule.AvailabilityOptions) (map[string][]schedule.DateRange, error) {
	ids := schedule.DedupeVehicleIDs(vehicleIDs)
	now := s.now()
	today := schedule.StartOfDay(now, s.Loc)

	bookings, err := s.Store.ListBlockingBookings(ids, db.StatusConfirmed, today, nil)
	if err != nil {
		return nil, fmt.Errorf("availability lookup failed: %w", err)
	}

	if opts.IncludePending {
		hold := opts.PendingHoldHours
		if hold <= 0 {
			hold = schedule.DefaultPendingHoldHours
		}
		createdAfter := now.Add(-time.Duration(hold) * time.Hour)
		pending, err := s.Store.ListBlockingBookings(ids, db.StatusPending, today, &createdAfter)
		if err != nil {
			return nil, fmt.Errorf("pending availability lookup failed: %w", err)
		}
		bookings = append(bookings, pending...)
	}

	return schedule.GroupBlockedRanges(ids, bookings, now, s.Loc, opts), nil
}
