package db

import (
	"strings"
	"time"
)

// Canonical booking statuses. The database carries legacy rows with mixed
// casing ("CONFIRMED", "Pending"), so every comparison goes through
// NormalizeStatus instead of raw string equality.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusDeclined  = "declined"
	StatusPayLater  = "pay_later"
)

// NormalizeStatus lowers a stored status to its canonical form. Unknown
// values are returned lowercased rather than rejected, matching the legacy
// rows that predate the canonical set.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending
	case "confirmed":
		return StatusConfirmed
	case "completed", "finished":
		return StatusCompleted
	case "cancelled", "canceled":
		return StatusCancelled
	case "declined":
		return StatusDeclined
	case "pay_later", "paylater":
		return StatusPayLater
	}
	return strings.ToLower(strings.TrimSpace(s))
}

type Vehicle struct {
	ID    string
	Title string
	Plate string
}

type Booking struct {
	ID              string
	Code            string
	VehicleID       string
	StartDate       time.Time
	EndDate         time.Time
	PickupTime      string // "HH:MM", empty means default 09:00
	DropoffTime     string // "HH:MM", empty means default 17:00
	PickupLocation  string
	DropoffLocation string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	TotalPrice      float64
	Status          string
	StripeSessionID string
	PaymentStatus   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
