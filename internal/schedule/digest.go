package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"fijicarhire/internal/db"
)

// DigestCharLimit caps the rendered digest so it stays inside one WhatsApp
// message.
const DigestCharLimit = 3500

// Advisory is a purely informational flag in the daily digest. Nothing is
// mutated on its behalf.
type Advisory struct {
	Kind      string `json:"kind"` // CONFLICT, MOVE or CLEAN
	VehicleID string `json:"vehicle_id"`
	Detail    string `json:"detail"`
}

// Digest is the derived logistics report for one business day.
type Digest struct {
	Day       time.Time  `json:"day"`
	Tasks     []Task     `json:"tasks"`
	Conflicts []Advisory `json:"conflicts"`
	Moves     []Advisory `json:"moves"`
	CleanGaps []Advisory `json:"clean_gaps"`
}

// BuildDigest assembles the dispatch tasks and advisory checks for day.
// Move detection looks back one day: a vehicle dropped off somewhere today
// that starts somewhere else tomorrow has to be repositioned overnight.
func BuildDigest(bookings []db.Booking, day time.Time, loc *time.Location, vehicles map[string]db.Vehicle) Digest {
	day = StartOfDay(day, loc)
	return Digest{
		Day:       day,
		Tasks:     BuildDayTasks(bookings, day, loc, vehicles),
		Conflicts: detectStartConflicts(bookings, day, loc),
		Moves:     detectMoves(bookings, day, loc),
		CleanGaps: detectCleanGaps(bookings, day, loc),
	}
}

// detectStartConflicts flags vehicles with two or more bookings starting the
// same day where an earlier booking's drop-off clock exceeds a later
// booking's pickup clock. The string comparison is sound because both sides
// are zero-padded 24h "HH:MM".
func detectStartConflicts(bookings []db.Booking, day time.Time, loc *time.Location) []Advisory {
	starts := make(map[string][]db.Booking)
	for _, b := range bookings {
		if SameDay(b.StartDate, day, loc) {
			starts[b.VehicleID] = append(starts[b.VehicleID], b)
		}
	}

	var advisories []Advisory
	for _, vehicleID := range sortedKeys(starts) {
		rows := starts[vehicleID]
		if len(rows) < 2 {
			continue
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return ClockOrDefault(rows[i].PickupTime, DefaultPickupTime) < ClockOrDefault(rows[j].PickupTime, DefaultPickupTime)
		})
		for i := 0; i < len(rows)-1; i++ {
			earlier, later := rows[i], rows[i+1]
			if ClockOrDefault(earlier.DropoffTime, DefaultDropoffTime) > ClockOrDefault(later.PickupTime, DefaultPickupTime) {
				advisories = append(advisories, Advisory{
					Kind:      "CONFLICT",
					VehicleID: vehicleID,
					Detail: fmt.Sprintf("%s drop-off %s overlaps %s pickup %s",
						earlier.Code, ClockOrDefault(earlier.DropoffTime, DefaultDropoffTime),
						later.Code, ClockOrDefault(later.PickupTime, DefaultPickupTime)),
				})
			}
		}
	}
	return advisories
}

// detectMoves compares each vehicle's last drop-off location the day before
// against its first pickup location on the target day.
func detectMoves(bookings []db.Booking, day time.Time, loc *time.Location) []Advisory {
	prevDay := day.AddDate(0, 0, -1)

	lastDrop := make(map[string]db.Booking)
	firstPickup := make(map[string]db.Booking)
	for _, b := range bookings {
		if SameDay(b.EndDate, prevDay, loc) {
			cur, ok := lastDrop[b.VehicleID]
			if !ok || ClockOrDefault(b.DropoffTime, DefaultDropoffTime) > ClockOrDefault(cur.DropoffTime, DefaultDropoffTime) {
				lastDrop[b.VehicleID] = b
			}
		}
		if SameDay(b.StartDate, day, loc) {
			cur, ok := firstPickup[b.VehicleID]
			if !ok || ClockOrDefault(b.PickupTime, DefaultPickupTime) < ClockOrDefault(cur.PickupTime, DefaultPickupTime) {
				firstPickup[b.VehicleID] = b
			}
		}
	}

	pickupVehicles := make([]string, 0, len(firstPickup))
	for id := range firstPickup {
		pickupVehicles = append(pickupVehicles, id)
	}
	sort.Strings(pickupVehicles)

	var advisories []Advisory
	for _, vehicleID := range pickupVehicles {
		drop, ok := lastDrop[vehicleID]
		if !ok {
			continue
		}
		pickup := firstPickup[vehicleID]
		if !strings.EqualFold(strings.TrimSpace(drop.DropoffLocation), strings.TrimSpace(pickup.PickupLocation)) {
			advisories = append(advisories, Advisory{
				Kind:      "MOVE",
				VehicleID: vehicleID,
				Detail:    fmt.Sprintf("relocate from %q to %q before %s", drop.DropoffLocation, pickup.PickupLocation, ClockOrDefault(pickup.PickupTime, DefaultPickupTime)),
			})
		}
	}
	return advisories
}

// detectCleanGaps flags same-day turnarounds shorter than six hours, the
// window the wash team cares about.
func detectCleanGaps(bookings []db.Booking, day time.Time, loc *time.Location) []Advisory {
	ends := make(map[string][]db.Booking)
	starts := make(map[string][]db.Booking)
	for _, b := range bookings {
		if SameDay(b.EndDate, day, loc) {
			ends[b.VehicleID] = append(ends[b.VehicleID], b)
		}
		if SameDay(b.StartDate, day, loc) {
			starts[b.VehicleID] = append(starts[b.VehicleID], b)
		}
	}

	var advisories []Advisory
	for _, vehicleID := range sortedKeys(ends) {
		prev, ok := earliestDropoff(ends[vehicleID])
		if !ok || len(starts[vehicleID]) == 0 {
			continue
		}
		next := starts[vehicleID][0]
		for _, b := range starts[vehicleID][1:] {
			if ClockOrDefault(b.PickupTime, DefaultPickupTime) < ClockOrDefault(next.PickupTime, DefaultPickupTime) {
				next = b
			}
		}
		gap, err := MinutesBetween(ClockOrDefault(prev.DropoffTime, DefaultDropoffTime), ClockOrDefault(next.PickupTime, DefaultPickupTime))
		if err != nil {
			continue
		}
		if gap > 0 && gap < 360 {
			advisories = append(advisories, Advisory{
				Kind:      "CLEAN",
				VehicleID: vehicleID,
				Detail:    fmt.Sprintf("%d min turnaround between %s and %s", gap, prev.Code, next.Code),
			})
		}
	}
	return advisories
}

// Message renders the digest as the WhatsApp text, truncated to
// DigestCharLimit.
func (d Digest) Message() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Dispatch digest for %s\n", d.Day.Format("Mon 02 Jan 2006"))

	if len(d.Tasks) == 0 {
		sb.WriteString("No pickups or deliveries scheduled.\n")
	}
	for _, t := range d.Tasks {
		fmt.Fprintf(&sb, "%s %s %s: %s -> %s (%s)", t.Time, t.Type, t.Vehicle, t.From, t.To, t.Customer)
		if t.BufferMinutes != nil {
			fmt.Fprintf(&sb, " [buffer %d min]", *t.BufferMinutes)
		}
		sb.WriteString("\n")
	}

	for _, group := range [][]Advisory{d.Conflicts, d.Moves, d.CleanGaps} {
		for _, a := range group {
			fmt.Fprintf(&sb, "%s %s: %s\n", a.Kind, a.VehicleID, a.Detail)
		}
	}

	msg := sb.String()
	if len(msg) > DigestCharLimit {
		msg = msg[:DigestCharLimit-3] + "..."
	}
	return msg
}

func sortedKeys(m map[string][]db.Booking) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
