package entities

import (
	"time"

	"fijicarhire/internal/schedule"
)

// BlockedRange is an inclusive unavailable date pair, ISO dates.
type BlockedRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailabilityResponse struct {
	Ranges []BlockedRange `json:"ranges"`
}

type BulkAvailabilityRequest struct {
	VehicleIDs     []string `json:"vehicleIds"`
	IncludePending bool     `json:"includePending,omitempty"`
	PendingHours   int      `json:"pendingHours,omitempty"`
}

type BulkAvailabilityResponse struct {
	OK      bool                      `json:"ok"`
	Results map[string][]BlockedRange `json:"results"`
}

// ToBlockedRanges formats schedule ranges for the wire. A non-nil empty
// slice is returned for empty input so vehicles without bookings still
// serialize as [].
func ToBlockedRanges(ranges []schedule.DateRange) []BlockedRange {
	out := make([]BlockedRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, BlockedRange{
			Start: r.Start.Format(time.DateOnly),
			End:   r.End.Format(time.DateOnly),
		})
	}
	return out
}
