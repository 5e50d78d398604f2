package schedule

import (
	"testing"
	"time"

	"fijicarhire/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDayTasksTurnaround(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1", Status: "confirmed",
			StartDate: day("2024-06-05"), EndDate: target,
			DropoffTime: "10:00", DropoffLocation: "Nadi Airport",
			CustomerName: "Alice",
		},
		{
			ID: "b", Code: "B1", VehicleID: "v1", Status: "confirmed",
			StartDate: target, EndDate: day("2024-06-15"),
			PickupTime: "14:00", PickupLocation: "Denarau Marina",
			CustomerName: "Bob",
		},
	}

	tasks := BuildDayTasks(bookings, target, time.UTC, nil)

	// The same-day end is folded into the delivery's buffer; no separate
	// pick-up row.
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, TaskDeliver, task.Type)
	assert.Equal(t, "14:00", task.Time)
	assert.Equal(t, "Nadi Airport", task.From)
	assert.Equal(t, "Denarau Marina", task.To)
	assert.Equal(t, "Bob", task.Customer)
	require.NotNil(t, task.BufferMinutes)
	assert.Equal(t, 240, *task.BufferMinutes)
}

func TestBuildDayTasksNegativeBufferSurfaced(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1", Status: "confirmed",
			StartDate: day("2024-06-05"), EndDate: target,
			DropoffTime: "15:00", DropoffLocation: "Suva Depot",
		},
		{
			ID: "b", Code: "B1", VehicleID: "v1", Status: "confirmed",
			StartDate: target, EndDate: day("2024-06-12"),
			PickupTime: "13:00", PickupLocation: "Suva Depot",
		},
	}

	tasks := BuildDayTasks(bookings, target, time.UTC, nil)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].BufferMinutes)
	assert.Equal(t, -120, *tasks[0].BufferMinutes)
}

func TestBuildDayTasksStandalonePickup(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1", Status: "confirmed",
			StartDate: day("2024-06-05"), EndDate: target,
			DropoffTime: "11:00", DropoffLocation: "Nadi Airport",
			CustomerName: "Alice",
		},
	}

	tasks := BuildDayTasks(bookings, target, time.UTC, nil)
	require.Len(t, tasks, 1)
	assert.Equal(t, TaskPickUp, tasks[0].Type)
	assert.Equal(t, "11:00", tasks[0].Time)
	assert.Equal(t, "Nadi Airport", tasks[0].From)
	assert.Equal(t, DepotPlaceholder, tasks[0].To)
	assert.Nil(t, tasks[0].BufferMinutes)
}

func TestBuildDayTasksDefaultTimes(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1", Status: "confirmed",
			StartDate: target, EndDate: day("2024-06-12"),
			PickupLocation: "Nadi Airport",
		},
		{
			ID: "b", Code: "B1", VehicleID: "v2", Status: "confirmed",
			StartDate: day("2024-06-08"), EndDate: target,
			DropoffLocation: "Suva Depot",
		},
	}

	tasks := BuildDayTasks(bookings, target, time.UTC, nil)
	require.Len(t, tasks, 2)

	// 09:00 delivery first, 17:00 pickup second.
	assert.Equal(t, TaskDeliver, tasks[0].Type)
	assert.Equal(t, "09:00", tasks[0].Time)
	assert.Equal(t, DepotPlaceholder, tasks[0].From)
	assert.Equal(t, TaskPickUp, tasks[1].Type)
	assert.Equal(t, "17:00", tasks[1].Time)
}

func TestBuildDayTasksTiePickupBeforeDeliver(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1", Status: "confirmed",
			StartDate: target, EndDate: day("2024-06-12"),
			PickupTime: "10:00", PickupLocation: "Nadi",
		},
		{
			ID: "b", Code: "B1", VehicleID: "v2", Status: "confirmed",
			StartDate: day("2024-06-08"), EndDate: target,
			DropoffTime: "10:00", DropoffLocation: "Suva",
		},
	}

	tasks := BuildDayTasks(bookings, target, time.UTC, nil)
	require.Len(t, tasks, 2)
	assert.Equal(t, TaskPickUp, tasks[0].Type, "at equal times the vehicle is cleared before the delivery")
	assert.Equal(t, TaskDeliver, tasks[1].Type)
}

func TestBuildDayTasksEarliestDropoffChained(t *testing.T) {
	target := day("2024-06-10")
	bookings := []db.Booking{
		{
			ID: "e1", Code: "E1", VehicleID: "v1", Status: "completed",
			StartDate: day("2024-06-01"), EndDate: target,
			DropoffTime: "12:00", DropoffLocation: "Lautoka",
		},
		{
			ID: "e2", Code: "E2", VehicleID: "v1", Status: "confirmed",
			StartDate: day("2024-06-02"), EndDate: target,
			DropoffTime: "08:00", DropoffLocation: "Nadi Airport",
		},
		{
			ID: "s1", Code: "S1", VehicleID: "v1", Status: "confirmed",
			StartDate: target, EndDate: day("2024-06-14"),
			PickupTime: "09:30", PickupLocation: "Denarau",
		},
	}

	tasks := BuildDayTasks(bookings, target, time.UTC, nil)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Nadi Airport", tasks[0].From, "from chains off the earliest same-day drop-off")
	require.NotNil(t, tasks[0].BufferMinutes)
	assert.Equal(t, 90, *tasks[0].BufferMinutes)
}

func TestBuildDayTasksVehicleLabel(t *testing.T) {
	target := day("2024-06-10")
	vehicles := map[string]db.Vehicle{
		"v1": {ID: "v1", Title: "Toyota Hilux", Plate: "FJ 123"},
	}
	bookings := []db.Booking{
		{
			ID: "a", Code: "A1", VehicleID: "v1", Status: "confirmed",
			StartDate: target, EndDate: day("2024-06-12"),
			PickupLocation: "Nadi",
		},
	}

	tasks := BuildDayTasks(bookings, target, time.UTC, vehicles)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Toyota Hilux (FJ 123)", tasks[0].Vehicle)
}
