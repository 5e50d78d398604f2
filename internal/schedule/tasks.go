package schedule

import (
	"sort"
	"time"

	"fijicarhire/internal/db"
)

const (
	TaskDeliver = "Deliver"
	TaskPickUp  = "Pick up"
)

// DepotPlaceholder is shown when a vehicle has no preceding same-day
// drop-off to chain a location from.
const DepotPlaceholder = "(Depot / As arranged)"

// Task is one row in a day's dispatch sheet. Derived per query, never stored.
type Task struct {
	Type          string `json:"type"`
	Time          string `json:"time"`
	BookingID     string `json:"booking_id"`
	BookingCode   string `json:"booking_code"`
	VehicleID     string `json:"vehicle_id"`
	Vehicle       string `json:"vehicle"`
	Customer      string `json:"customer"`
	From          string `json:"from"`
	To            string `json:"to"`
	BufferMinutes *int   `json:"buffer_minutes,omitempty"`
}

// BuildDayTasks derives the ordered Deliver / Pick up operations for one
// business day from the given bookings (callers pre-filter to confirmed and
// completed). When a vehicle ends one booking and starts another on the same
// day, only the Deliver task is emitted and the turnaround shows up as its
// buffer; the standalone Pick up row would duplicate it.
func BuildDayTasks(bookings []db.Booking, day time.Time, loc *time.Location, vehicles map[string]db.Vehicle) []Task {
	day = StartOfDay(day, loc)

	startsByVehicle := make(map[string][]db.Booking)
	endsByVehicle := make(map[string][]db.Booking)
	for _, b := range bookings {
		if SameDay(b.StartDate, day, loc) {
			startsByVehicle[b.VehicleID] = append(startsByVehicle[b.VehicleID], b)
		}
		if SameDay(b.EndDate, day, loc) {
			endsByVehicle[b.VehicleID] = append(endsByVehicle[b.VehicleID], b)
		}
	}

	var tasks []Task

	for vehicleID, starts := range startsByVehicle {
		for _, b := range starts {
			pickup := ClockOrDefault(b.PickupTime, DefaultPickupTime)
			task := Task{
				Type:        TaskDeliver,
				Time:        pickup,
				BookingID:   b.ID,
				BookingCode: b.Code,
				VehicleID:   vehicleID,
				Vehicle:     vehicleLabel(vehicles, vehicleID),
				Customer:    b.CustomerName,
				From:        DepotPlaceholder,
				To:          b.PickupLocation,
			}
			if prev, ok := earliestDropoff(endsByVehicle[vehicleID]); ok {
				task.From = prev.DropoffLocation
				if mins, err := MinutesBetween(ClockOrDefault(prev.DropoffTime, DefaultDropoffTime), pickup); err == nil {
					// Negative means the handover is tighter than the prior
					// return; surfaced as-is so dispatch can react.
					task.BufferMinutes = &mins
				}
			}
			tasks = append(tasks, task)
		}
	}

	for vehicleID, ends := range endsByVehicle {
		if _, hasStart := startsByVehicle[vehicleID]; hasStart {
			continue
		}
		for _, b := range ends {
			tasks = append(tasks, Task{
				Type:        TaskPickUp,
				Time:        ClockOrDefault(b.DropoffTime, DefaultDropoffTime),
				BookingID:   b.ID,
				BookingCode: b.Code,
				VehicleID:   vehicleID,
				Vehicle:     vehicleLabel(vehicles, vehicleID),
				Customer:    b.CustomerName,
				From:        b.DropoffLocation,
				To:          DepotPlaceholder,
			})
		}
	}

	// Earliest first; on equal times a vehicle is cleared before the next
	// delivery, so Pick up sorts ahead of Deliver.
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Time != tasks[j].Time {
			return tasks[i].Time < tasks[j].Time
		}
		return tasks[i].Type == TaskPickUp && tasks[j].Type == TaskDeliver
	})
	return tasks
}

// earliestDropoff picks the same-day ending booking with the lowest
// drop-off clock, ties broken by plain string comparison.
func earliestDropoff(ends []db.Booking) (db.Booking, bool) {
	if len(ends) == 0 {
		return db.Booking{}, false
	}
	best := ends[0]
	for _, b := range ends[1:] {
		if ClockOrDefault(b.DropoffTime, DefaultDropoffTime) < ClockOrDefault(best.DropoffTime, DefaultDropoffTime) {
			best = b
		}
	}
	return best, true
}

func vehicleLabel(vehicles map[string]db.Vehicle, id string) string {
	if v, ok := vehicles[id]; ok && v.Title != "" {
		if v.Plate != "" {
			return v.Title + " (" + v.Plate + ")"
		}
		return v.Title
	}
	return id
}
