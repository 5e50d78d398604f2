package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"fijicarhire/internal/db"
	"fijicarhire/internal/entities"
	apperrors "fijicarhire/internal/errors"
	"fijicarhire/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBooking handles POST /api/bookings/create.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Service.CreateBooking(req)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusOf(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// ConfirmBooking handles POST /api/bookings/confirm with {id} or {code}.
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.ConfirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, already, err := h.Service.ConfirmBooking(req.ID, req.Code)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusOf(err))
		return
	}

	resp := map[string]interface{}{
		"ok":      true,
		"booking": toBookingResponse(*booking),
	}
	if already {
		resp["message"] = "already confirmed"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// DeclineBooking handles POST /api/admin/bookings/decline with {id} or
// {code}.
func (h *BookingHandler) DeclineBooking(w http.ResponseWriter, r *http.Request) {
	var req entities.ConfirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.DeclineBooking(req.ID, req.Code)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusOf(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":      true,
		"booking": toBookingResponse(*booking),
	})
}

// GetBooking handles GET /api/bookings/{code}?email= for the customer
// "my booking" page.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		http.Error(w, "email required", http.StatusBadRequest)
		return
	}

	booking, err := h.Service.GetBookingForCustomer(code, email)
	if err != nil {
		http.Error(w, err.Error(), apperrors.StatusOf(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toBookingResponse(*booking))
}

func toBookingResponse(b db.Booking) entities.BookingResponse {
	return entities.BookingResponse{
		ID:              b.ID,
		Code:            b.Code,
		VehicleID:       b.VehicleID,
		StartDate:       b.StartDate.Format("2006-01-02"),
		EndDate:         b.EndDate.Format("2006-01-02"),
		PickupTime:      b.PickupTime,
		DropoffTime:     b.DropoffTime,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		CustomerName:    b.CustomerName,
		ContactNumber:   b.CustomerPhone,
		Email:           b.CustomerEmail,
		TotalPrice:      b.TotalPrice,
		Status:          b.Status,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
