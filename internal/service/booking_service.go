package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"fijicarhire/internal/db"
	"fijicarhire/internal/entities"
	apperrors "fijicarhire/internal/errors"
	"fijicarhire/internal/schedule"

	"github.com/google/uuid"
)

const (
	// ConflictAtConfirm is the exact 409 body for a failed confirm.
	ConflictAtConfirm = "Cannot confirm: dates overlap an existing confirmed booking."
	// ConflictAtCreate is the retry prompt shown when the final pre-insert
	// check loses the race against another booking.
	ConflictAtCreate = "Selected dates just became unavailable. Please choose different dates."

	bookingNotFound = "Booking not found."
)

// BookingStore is the booking repository surface the write paths need.
type BookingStore interface {
	CreateBooking(b *db.Booking) error
	GetBookingByID(id string) (*db.Booking, error)
	GetBookingByCode(code string) (*db.Booking, error)
	GetBookingByStripeSessionID(sessionID string) (*db.Booking, error)
	FindConfirmedOverlap(vehicleID string, start, end time.Time, excludeID string) (*db.Booking, error)
	UpdateBookingStatus(id, status string) error
	UpdateBookingStatusAndPayment(id, status, paymentStatus string) error
	DeleteBooking(id string) error
}

// PaymentProvider creates hosted checkout sessions and refunds them.
// Implemented by StripeService; nil disables online payment.
type PaymentProvider interface {
	CreateCheckoutSession(amount int64, currency, description, customerEmail string) (url, sessionID string, err error)
	RefundPaymentBySessionID(sessionID string) error
}

// Notifier delivers customer-facing status messages. Nil disables them.
type Notifier interface {
	SendBookingStatusEmail(b db.Booking, status string)
	SendBookingStatusMessage(b db.Booking, status string)
}

type BookingService struct {
	Store    BookingStore
	Payments PaymentProvider
	Notify   Notifier
	Loc      *time.Location

	now func() time.Time
}

func NewBookingService(store BookingStore, payments PaymentProvider, notify Notifier) *BookingService {
	return &BookingService{
		Store:    store,
		Payments: payments,
		Notify:   notify,
		Loc:      time.Local,
		now:      time.Now,
	}
}

// CreateBooking inserts a pending booking after a final overlap check
// against confirmed bookings. The availability calendar the customer saw is
// advisory; this check is the last gate before the row exists.
func (s *BookingService) CreateBooking(req entities.CreateBookingRequest) (*entities.CreateBookingResponse, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}
	start, err := time.ParseInLocation(time.DateOnly, req.StartDate, s.Loc)
	if err != nil {
		return nil, apperrors.ErrBadRequest("start_date must be YYYY-MM-DD")
	}
	end, err := time.ParseInLocation(time.DateOnly, req.EndDate, s.Loc)
	if err != nil {
		return nil, apperrors.ErrBadRequest("end_date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperrors.ErrBadRequest("end_date must not be before start_date")
	}

	overlap, err := s.Store.FindConfirmedOverlap(req.VehicleID, start, end, "")
	if err != nil {
		return nil, err
	}
	if overlap != nil {
		return nil, apperrors.ErrConflict(ConflictAtCreate)
	}

	now := s.now().UTC()
	booking := &db.Booking{
		ID:              uuid.NewString(),
		Code:            fmt.Sprintf("%08X", s.now().UnixNano()%100000000),
		VehicleID:       req.VehicleID,
		StartDate:       start,
		EndDate:         end,
		PickupTime:      req.PickupTime,
		DropoffTime:     req.DropoffTime,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.ContactNumber,
		CustomerEmail:   req.Email,
		TotalPrice:      req.TotalPrice,
		Status:          db.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var checkoutURL string
	if strings.EqualFold(req.PaymentMethod, "online") && s.Payments != nil {
		amount := int64(req.TotalPrice * 100)
		url, sessionID, err := s.Payments.CreateCheckoutSession(amount, "fjd", "Vehicle hire "+booking.Code, req.Email)
		if err != nil {
			return nil, fmt.Errorf("could not start checkout session: %w", err)
		}
		booking.StripeSessionID = sessionID
		booking.PaymentStatus = db.StatusPending
		checkoutURL = url
	}

	if err := s.Store.CreateBooking(booking); err != nil {
		log.Printf("Error creating booking in repository: %v", err)
		return nil, apperrors.ErrBadRequest("could not create booking: " + err.Error())
	}

	return &entities.CreateBookingResponse{
		ID:          booking.ID,
		Code:        booking.Code,
		Status:      "PENDING",
		CheckoutURL: checkoutURL,
	}, nil
}

// ConfirmBooking transitions a booking to confirmed, re-validating the
// non-overlap invariant at confirmation time: a booking can sit pending for
// days while its dates get taken. Already-confirmed bookings succeed as a
// no-op. The check and the write are not one transaction; two admins
// confirming overlapping pendings at the same instant can both pass the
// probe. Accepted for human-paced usage.
func (s *BookingService) ConfirmBooking(id, code string) (*db.Booking, bool, error) {
	booking, err := s.loadBooking(id, code)
	if err != nil {
		return nil, false, err
	}

	if db.NormalizeStatus(booking.Status) == db.StatusConfirmed {
		return booking, true, nil
	}

	overlap, err := s.Store.FindConfirmedOverlap(booking.VehicleID, booking.StartDate, booking.EndDate, booking.ID)
	if err != nil {
		return nil, false, err
	}
	if overlap != nil {
		return nil, false, apperrors.ErrConflict(ConflictAtConfirm)
	}

	if err := s.Store.UpdateBookingStatus(booking.ID, db.StatusConfirmed); err != nil {
		return nil, false, err
	}
	booking.Status = db.StatusConfirmed

	if s.Notify != nil {
		b := *booking
		go func() {
			s.Notify.SendBookingStatusEmail(b, db.StatusConfirmed)
			s.Notify.SendBookingStatusMessage(b, db.StatusConfirmed)
		}()
	}
	return booking, false, nil
}

// DeclineBooking marks a pending booking declined. No overlap rules apply.
func (s *BookingService) DeclineBooking(id, code string) (*db.Booking, error) {
	booking, err := s.loadBooking(id, code)
	if err != nil {
		return nil, err
	}
	if err := s.Store.UpdateBookingStatus(booking.ID, db.StatusDeclined); err != nil {
		return nil, err
	}
	booking.Status = db.StatusDeclined
	return booking, nil
}

// GetBookingForCustomer fetches a booking by code, guarded by the email the
// booking was made with.
func (s *BookingService) GetBookingForCustomer(code, email string) (*db.Booking, error) {
	booking, err := s.Store.GetBookingByCode(code)
	if err != nil {
		return nil, err
	}
	if booking == nil || !strings.EqualFold(booking.CustomerEmail, email) {
		return nil, apperrors.ErrNotFound(bookingNotFound)
	}
	return booking, nil
}

// DeleteBooking hard-deletes a booking, refunding a completed online
// payment first. Refund failures are logged, not fatal; the money side is
// reconciled in the Stripe dashboard.
func (s *BookingService) DeleteBooking(id string) error {
	booking, err := s.Store.GetBookingByID(id)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperrors.ErrNotFound(bookingNotFound)
	}
	if booking.StripeSessionID != "" && booking.PaymentStatus == "succeeded" && s.Payments != nil {
		if err := s.Payments.RefundPaymentBySessionID(booking.StripeSessionID); err != nil {
			log.Printf("Refund for booking %s (session %s) failed: %v", booking.Code, booking.StripeSessionID, err)
		}
	}
	return s.Store.DeleteBooking(id)
}

// ConfirmPaidBooking is the Stripe webhook path: record the successful
// payment, then run the normal confirm. A conflict at this point means the
// dates were taken while the customer was paying; the booking stays pending
// for an admin to resolve and refund.
func (s *BookingService) ConfirmPaidBooking(sessionID string) (*db.Booking, error) {
	booking, err := s.Store.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound(bookingNotFound)
	}
	if err := s.Store.UpdateBookingStatusAndPayment(booking.ID, booking.Status, "succeeded"); err != nil {
		return nil, err
	}

	confirmed, _, err := s.ConfirmBooking(booking.ID, "")
	if err != nil {
		log.Printf("ALERT: payment for booking %s succeeded but confirm failed: %v", booking.Code, err)
		return nil, err
	}
	return confirmed, nil
}

// CancelPaidBooking marks a refunded booking cancelled (charge.refunded
// webhook).
func (s *BookingService) CancelPaidBooking(sessionID string) error {
	booking, err := s.Store.GetBookingByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperrors.ErrNotFound(bookingNotFound)
	}
	return s.Store.UpdateBookingStatusAndPayment(booking.ID, db.StatusCancelled, "refunded")
}

func (s *BookingService) loadBooking(id, code string) (*db.Booking, error) {
	var booking *db.Booking
	var err error
	if id != "" {
		booking, err = s.Store.GetBookingByID(id)
	} else if code != "" {
		booking, err = s.Store.GetBookingByCode(code)
	} else {
		return nil, apperrors.ErrBadRequest("id or code required")
	}
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound(bookingNotFound)
	}
	return booking, nil
}

func validateCreateRequest(req entities.CreateBookingRequest) error {
	missing := []string{}
	if req.VehicleID == "" {
		missing = append(missing, "vehicle_id")
	}
	if req.StartDate == "" {
		missing = append(missing, "start_date")
	}
	if req.EndDate == "" {
		missing = append(missing, "end_date")
	}
	if req.PickupLocation == "" {
		missing = append(missing, "pickup_location")
	}
	if req.DropoffLocation == "" {
		missing = append(missing, "dropoff_location")
	}
	if req.CustomerName == "" {
		missing = append(missing, "customer_name")
	}
	if req.ContactNumber == "" {
		missing = append(missing, "contact_number")
	}
	if req.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return apperrors.ErrBadRequest("missing required fields: " + strings.Join(missing, ", "))
	}
	for _, clock := range []string{req.PickupTime, req.DropoffTime} {
		if clock == "" {
			continue
		}
		if _, err := schedule.MinutesBetween(clock, clock); err != nil {
			return apperrors.ErrBadRequest("times must be HH:MM")
		}
	}
	return nil
}
