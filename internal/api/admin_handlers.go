package api

import (
	"encoding/json"
	"net/http"
	"time"

	"fijicarhire/internal/db"
	"fijicarhire/internal/entities"
	apperrors "fijicarhire/internal/errors"
	"fijicarhire/internal/schedule"
	"fijicarhire/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Bookings *service.BookingService
	Dispatch *service.DispatchService
	Repo     AdminBookingLister
	Vehicles service.VehicleStore
}

// AdminBookingLister is the read-side feed for the dashboard.
type AdminBookingLister interface {
	ListBookings(day *time.Time, status string) ([]db.Booking, error)
}

func NewAdminHandler(bookings *service.BookingService, dispatch *service.DispatchService, repo AdminBookingLister, vehicles service.VehicleStore) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Dispatch: dispatch, Repo: repo, Vehicles: vehicles}
}

// ListBookings handles GET /api/admin/bookings/list?day=YYYY-MM-DD&status=.
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	var day *time.Time
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, v, schedule.BusinessLocation())
		if err != nil {
			http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = &parsed
	}
	status := r.URL.Query().Get("status")

	bookings, err := h.Repo.ListBookings(day, status)
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	resp := make([]entities.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, toBookingResponse(b))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// DeleteBooking handles DELETE /api/admin/bookings/{id}. Hard delete.
func (h *AdminHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.Bookings.DeleteBooking(id); err != nil {
		http.Error(w, err.Error(), apperrors.StatusOf(err))
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"message": "Booking deleted"})
}

// ListVehicles handles GET /api/admin/vehicles.
func (h *AdminHandler) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.Vehicles.ListVehicles()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicles)
}

// Tasks handles GET /api/admin/tasks?day=YYYY-MM-DD, defaulting to today in
// business time.
func (h *AdminHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	loc := schedule.BusinessLocation()
	day := schedule.StartOfDay(time.Now(), loc)
	if v := r.URL.Query().Get("day"); v != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, v, loc)
		if err != nil {
			http.Error(w, "day must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	tasks, err := h.Dispatch.TasksForDay(day)
	if err != nil {
		http.Error(w, "Could not build tasks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"day":   day.Format(time.DateOnly),
		"tasks": tasks,
	})
}
