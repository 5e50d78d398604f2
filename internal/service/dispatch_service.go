package service

import (
	"time"

	"fijicarhire/internal/db"
	"fijicarhire/internal/schedule"
)

// DispatchStore feeds the task builder with the bookings touching a day
// window.
type DispatchStore interface {
	ListDispatchBookings(from, to time.Time) ([]db.Booking, error)
}

// VehicleStore resolves display metadata for task rows.
type VehicleStore interface {
	ListVehicles() ([]db.Vehicle, error)
}

type DispatchService struct {
	Bookings DispatchStore
	Vehicles VehicleStore
	Loc      *time.Location
}

func NewDispatchService(bookings DispatchStore, vehicles VehicleStore) *DispatchService {
	return &DispatchService{
		Bookings: bookings,
		Vehicles: vehicles,
		Loc:      schedule.BusinessLocation(),
	}
}

// TasksForDay builds the dispatch sheet for one business day.
func (s *DispatchService) TasksForDay(day time.Time) ([]schedule.Task, error) {
	bookings, vehicles, err := s.load(day)
	if err != nil {
		return nil, err
	}
	return schedule.BuildDayTasks(bookings, day, s.Loc, vehicles), nil
}

// DigestForDay builds the full logistics digest for one business day,
// including the look-back needed for MOVE detection.
func (s *DispatchService) DigestForDay(day time.Time) (schedule.Digest, error) {
	bookings, vehicles, err := s.load(day)
	if err != nil {
		return schedule.Digest{}, err
	}
	return schedule.BuildDigest(bookings, day, s.Loc, vehicles), nil
}

// load fetches bookings from the day before (MOVE look-back) through the
// day after the target, plus the vehicle lookup map.
func (s *DispatchService) load(day time.Time) ([]db.Booking, map[string]db.Vehicle, error) {
	day = schedule.StartOfDay(day, s.Loc)
	bookings, err := s.Bookings.ListDispatchBookings(day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		return nil, nil, err
	}

	vehicleMap := map[string]db.Vehicle{}
	if s.Vehicles != nil {
		vehicles, err := s.Vehicles.ListVehicles()
		if err != nil {
			return nil, nil, err
		}
		for _, v := range vehicles {
			vehicleMap[v.ID] = v
		}
	}
	return bookings, vehicleMap, nil
}
