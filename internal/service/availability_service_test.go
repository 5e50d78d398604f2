package service

import (
	"errors"
	"testing"
	"time"

	"fijicarhire/internal/db"
	"fijicarhire/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAvailabilityStore replays canned bookings and counts queries so the
// two-queries-per-bulk-call property is testable.
type fakeAvailabilityStore struct {
	bookings []db.Booking
	calls    int
	failWith error
}

func (f *fakeAvailabilityStore) ListBlockingBookings(vehicleIDs []string, status string, horizon time.Time, createdAfter *time.Time) ([]db.Booking, error) {
	f.calls++
	if f.failWith != nil {
		return nil, f.failWith
	}
	requested := map[string]bool{}
	for _, id := range vehicleIDs {
		requested[id] = true
	}
	var out []db.Booking
	for _, b := range f.bookings {
		if !requested[b.VehicleID] {
			continue
		}
		if db.NormalizeStatus(b.Status) != status {
			continue
		}
		if b.EndDate.Before(horizon) {
			continue
		}
		if createdAfter != nil && b.CreatedAt.Before(*createdAfter) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func newTestAvailabilityService(store *fakeAvailabilityStore, now time.Time) *AvailabilityService {
	svc := NewAvailabilityService(store)
	svc.Loc = time.UTC
	svc.now = func() time.Time { return now }
	return svc
}

func availBooking(vehicleID, status, start, end string, created time.Time) db.Booking {
	return db.Booking{
		ID:        vehicleID + start,
		VehicleID: vehicleID,
		Status:    status,
		StartDate: mustDay(start),
		EndDate:   mustDay(end),
		CreatedAt: created,
	}
}

func TestBulkAvailabilityTwoQueriesAtMost(t *testing.T) {
	now := mustDay("2024-05-01")
	store := &fakeAvailabilityStore{}
	svc := newTestAvailabilityService(store, now)

	_, err := svc.BulkAvailability([]string{"a", "b", "c"}, schedule.AvailabilityOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls, "confirmed-only bulk lookup is one query")

	store.calls = 0
	_, err = svc.BulkAvailability([]string{"a", "b", "c"}, schedule.AvailabilityOptions{IncludePending: true})
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls, "pending adds exactly one more query")
}

func TestBulkAvailabilityCompleteness(t *testing.T) {
	now := mustDay("2024-05-01")
	store := &fakeAvailabilityStore{bookings: []db.Booking{
		availBooking("x", "confirmed", "2024-05-10", "2024-05-12", now),
	}}
	svc := newTestAvailabilityService(store, now)

	results, err := svc.BulkAvailability([]string{"x", "y"}, schedule.AvailabilityOptions{})
	require.NoError(t, err)
	require.Contains(t, results, "y")
	assert.NotNil(t, results["y"])
	assert.Empty(t, results["y"])
	assert.Len(t, results["x"], 1)
}

func TestSingleMatchesBulk(t *testing.T) {
	now := mustDay("2024-05-01")
	store := &fakeAvailabilityStore{bookings: []db.Booking{
		availBooking("v", "confirmed", "2024-05-10", "2024-05-12", now),
		availBooking("v", "CONFIRMED", "2024-06-01", "2024-06-03", now),
		availBooking("v", "pending", "2024-05-20", "2024-05-21", now.Add(-time.Hour)),
	}}
	opts := schedule.AvailabilityOptions{IncludePending: true, PendingHoldHours: 48}

	single, err := newTestAvailabilityService(store, now).VehicleAvailability("v", opts)
	require.NoError(t, err)

	bulk, err := newTestAvailabilityService(store, now).BulkAvailability([]string{"v"}, opts)
	require.NoError(t, err)

	assert.Equal(t, bulk["v"], single, "single lookup must equal a one-element bulk lookup")
	assert.Len(t, single, 3)
}

func TestBulkAvailabilityPendingExpiry(t *testing.T) {
	now := mustDay("2024-05-01").Add(12 * time.Hour)
	store := &fakeAvailabilityStore{bookings: []db.Booking{
		availBooking("v", "pending", "2024-05-10", "2024-05-12", now.Add(-47*time.Hour)),
		availBooking("v", "pending", "2024-05-20", "2024-05-22", now.Add(-49*time.Hour)),
	}}
	svc := newTestAvailabilityService(store, now)

	results, err := svc.BulkAvailability([]string{"v"}, schedule.AvailabilityOptions{IncludePending: true, PendingHoldHours: 48})
	require.NoError(t, err)
	require.Len(t, results["v"], 1)
	assert.Equal(t, mustDay("2024-05-10"), results["v"][0].Start)
}

func TestBulkAvailabilityDeduplicates(t *testing.T) {
	now := mustDay("2024-05-01")
	store := &fakeAvailabilityStore{}
	svc := newTestAvailabilityService(store, now)

	results, err := svc.BulkAvailability([]string{"a", "a", "b"}, schedule.AvailabilityOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestBulkAvailabilityPropagatesStoreError(t *testing.T) {
	store := &fakeAvailabilityStore{failWith: errors.New("connection refused")}
	svc := newTestAvailabilityService(store, mustDay("2024-05-01"))

	_, err := svc.BulkAvailability([]string{"a"}, schedule.AvailabilityOptions{})
	assert.Error(t, err)
}
