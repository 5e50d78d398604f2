package schedule

import (
	"strings"
	"testing"
	"time"

	"fijicarhire/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectStartConflicts(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1",
			StartDate: target, EndDate: target,
			PickupTime: "08:00", DropoffTime: "12:00",
		},
		{
			ID: "b", Code: "B1", VehicleID: "v1",
			StartDate: target, EndDate: day("2024-06-12"),
			PickupTime: "10:00",
		},
	}

	digest := BuildDigest(bookings, target, time.UTC, nil)
	require.Len(t, digest.Conflicts, 1)
	assert.Equal(t, "CONFLICT", digest.Conflicts[0].Kind)
	assert.Equal(t, "v1", digest.Conflicts[0].VehicleID)
	assert.Contains(t, digest.Conflicts[0].Detail, "A1")
	assert.Contains(t, digest.Conflicts[0].Detail, "B1")
}

func TestDetectStartConflictsNoneWhenSequential(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1",
			StartDate: target, EndDate: target,
			PickupTime: "08:00", DropoffTime: "09:30",
		},
		{
			ID: "b", Code: "B1", VehicleID: "v1",
			StartDate: target, EndDate: day("2024-06-12"),
			PickupTime: "10:00",
		},
	}

	digest := BuildDigest(bookings, target, time.UTC, nil)
	assert.Empty(t, digest.Conflicts)
}

func TestDetectMoves(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "y", Code: "Y1", VehicleID: "v1",
			StartDate: day("2024-06-05"), EndDate: day("2024-06-09"),
			DropoffTime: "16:00", DropoffLocation: "Suva",
		},
		{
			ID: "t", Code: "T1", VehicleID: "v1",
			StartDate: target, EndDate: day("2024-06-14"),
			PickupTime: "09:00", PickupLocation: "Nadi Airport",
		},
	}

	digest := BuildDigest(bookings, target, time.UTC, nil)
	require.Len(t, digest.Moves, 1)
	assert.Equal(t, "MOVE", digest.Moves[0].Kind)
	assert.Contains(t, digest.Moves[0].Detail, "Suva")
	assert.Contains(t, digest.Moves[0].Detail, "Nadi Airport")
}

func TestDetectMovesCaseInsensitive(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "y", Code: "Y1", VehicleID: "v1",
			StartDate: day("2024-06-05"), EndDate: day("2024-06-09"),
			DropoffLocation: "NADI AIRPORT",
		},
		{
			ID: "t", Code: "T1", VehicleID: "v1",
			StartDate: target, EndDate: day("2024-06-14"),
			PickupLocation: "Nadi Airport",
		},
	}

	digest := BuildDigest(bookings, target, time.UTC, nil)
	assert.Empty(t, digest.Moves, "location comparison ignores case")
}

func TestDetectCleanGaps(t *testing.T) {
	target := day("2024-06-10")
	cases := []struct {
		name     string
		dropoff  string
		pickup   string
		expected int
	}{
		{"two hour gap flagged", "10:00", "12:00", 1},
		{"six hours or more not flagged", "09:00", "15:00", 0},
		{"zero gap not flagged", "10:00", "10:00", 0},
		{"negative gap not flagged", "14:00", "10:00", 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bookings := []db.Booking{
				{
					ID: "a", Code: "A1", VehicleID: "v1",
					StartDate: day("2024-06-05"), EndDate: target,
					DropoffTime: c.dropoff, DropoffLocation: "Nadi",
				},
				{
					ID: "b", Code: "B1", VehicleID: "v1",
					StartDate: target, EndDate: day("2024-06-14"),
					PickupTime: c.pickup, PickupLocation: "Nadi",
				},
			}
			digest := BuildDigest(bookings, target, time.UTC, nil)
			assert.Len(t, digest.CleanGaps, c.expected)
		})
	}
}

func TestDigestMessageContent(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1", Status: "confirmed",
			StartDate: target, EndDate: day("2024-06-12"),
			PickupTime: "14:00", PickupLocation: "Denarau",
			CustomerName: "Bob",
		},
	}

	msg := BuildDigest(bookings, target, time.UTC, nil).Message()
	assert.Contains(t, msg, "Dispatch digest for Mon 10 Jun 2024")
	assert.Contains(t, msg, "14:00 Deliver")
	assert.Contains(t, msg, "Bob")
}

func TestDigestMessageEmptyDay(t *testing.T) {
	msg := BuildDigest(nil, day("2024-06-10"), time.UTC, nil).Message()
	assert.Contains(t, msg, "No pickups or deliveries scheduled.")
}

func TestDigestMessageCapped(t *testing.T) {
	target := day("2024-06-10")
	var bookings []db.Booking
	for i := 0; i < 200; i++ {
		bookings = append(bookings, db.Booking{
			ID: string(rune('a' + i%26)), Code: "LONGCODE", VehicleID: strings.Repeat("v", 40),
			StartDate: target, EndDate: day("2024-06-14"),
			PickupTime: "09:00", PickupLocation: strings.Repeat("Longtown ", 5),
			CustomerName: "Customer With A Fairly Long Name",
		})
	}

	msg := BuildDigest(bookings, target, time.UTC, nil).Message()
	assert.LessOrEqual(t, len(msg), DigestCharLimit)
	assert.True(t, strings.HasSuffix(msg, "..."))
}
