package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"fijicarhire/internal/entities"
	"fijicarhire/internal/schedule"
	"fijicarhire/internal/service"

	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	Service *service.AvailabilityService
}

func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// VehicleAvailability handles GET /api/availability/{vehicleId}.
// Availability is advisory, so repository failures degrade to an empty
// range list with a logged warning instead of failing the page.
func (h *AvailabilityHandler) VehicleAvailability(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicleId"]
	opts := availabilityOptionsFromQuery(r)

	ranges, err := h.Service.VehicleAvailability(vehicleID, opts)
	if err != nil {
		log.Printf("WARNING: availability lookup for vehicle %s failed: %v", vehicleID, err)
		ranges = nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entities.AvailabilityResponse{Ranges: entities.ToBlockedRanges(ranges)})
}

// BulkAvailability handles POST /api/availability/bulk with a JSON body,
// and the GET variant with ?ids=a,b,c.
func (h *AvailabilityHandler) BulkAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.BulkAvailabilityRequest
	if r.Method == http.MethodGet {
		if ids := r.URL.Query().Get("ids"); ids != "" {
			req.VehicleIDs = strings.Split(ids, ",")
		}
		opts := availabilityOptionsFromQuery(r)
		req.IncludePending = opts.IncludePending
		req.PendingHours = opts.PendingHoldHours
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	opts := schedule.AvailabilityOptions{
		IncludePending:   req.IncludePending,
		PendingHoldHours: req.PendingHours,
	}
	results, err := h.Service.BulkAvailability(req.VehicleIDs, opts)
	if err != nil {
		log.Printf("WARNING: bulk availability lookup failed: %v", err)
		results = map[string][]schedule.DateRange{}
		for _, id := range schedule.DedupeVehicleIDs(req.VehicleIDs) {
			results[id] = nil
		}
	}

	mapped := make(map[string][]entities.BlockedRange, len(results))
	for id, ranges := range results {
		mapped[id] = entities.ToBlockedRanges(ranges)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entities.BulkAvailabilityResponse{OK: true, Results: mapped})
}

func availabilityOptionsFromQuery(r *http.Request) schedule.AvailabilityOptions {
	opts := schedule.AvailabilityOptions{}
	if v := r.URL.Query().Get("includePending"); v == "1" || strings.EqualFold(v, "true") {
		opts.IncludePending = true
	}
	if v := r.URL.Query().Get("pendingHours"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.PendingHoldHours = n
		}
	}
	return opts
}
