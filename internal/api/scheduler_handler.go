package api

import (
	"encoding/json"
	"net/http"
	"time"

	"fijicarhire/internal/schedule"
	"fijicarhire/internal/service"
)

// DigestSender delivers the rendered digest text.
type DigestSender interface {
	SendDigest(message string) error
}

// SchedulerHandler serves the cron-triggered digest endpoint. It never
// panics outward; the trigger runs unattended and only understands a JSON
// body.
type SchedulerHandler struct {
	Dispatch *service.DispatchService
	Sender   DigestSender

	now func() time.Time
}

func NewSchedulerHandler(dispatch *service.DispatchService, sender DigestSender) *SchedulerHandler {
	return &SchedulerHandler{Dispatch: dispatch, Sender: sender, now: time.Now}
}

// DigestTomorrow handles POST /api/scheduler/digest-tomorrow. The message
// only goes out inside the 15:00-15:14 business-time window unless ?force=1,
// so a retrying cron trigger cannot spam the operations number all day.
func (h *SchedulerHandler) DigestTomorrow(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	loc := schedule.BusinessLocation()
	now := h.now().In(loc)
	force := r.URL.Query().Get("force") == "1"

	if !force && (now.Hour() != 15 || now.Minute() > 14) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"ok":      true,
			"sent":    false,
			"message": "outside send window",
		})
		return
	}

	tomorrow := schedule.StartOfDay(now, loc).AddDate(0, 0, 1)
	digest, err := h.Dispatch.DigestForDay(tomorrow)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": err.Error()})
		return
	}

	if err := h.Sender.SendDigest(digest.Message()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"ok":        true,
		"sent":      true,
		"day":       tomorrow.Format(time.DateOnly),
		"tasks":     len(digest.Tasks),
		"conflicts": len(digest.Conflicts),
	})
}
