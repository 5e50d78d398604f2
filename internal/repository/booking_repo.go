package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fijicarhire/internal/db"

	"github.com/lib/pq"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `id, code, vehicle_id, start_date, end_date,
	COALESCE(pickup_time, ''), COALESCE(dropoff_time, ''),
	pickup_location, dropoff_location,
	customer_name, customer_phone, customer_email,
	total_price, status,
	COALESCE(stripe_session_id, ''), COALESCE(payment_status, ''),
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.VehicleID, &b.StartDate, &b.EndDate,
		&b.PickupTime, &b.DropoffTime,
		&b.PickupLocation, &b.DropoffLocation,
		&b.CustomerName, &b.CustomerPhone, &b.CustomerEmail,
		&b.TotalPrice, &b.Status,
		&b.StripeSessionID, &b.PaymentStatus,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err == nil {
		b.Status = db.NormalizeStatus(b.Status)
	}
	return b, err
}

func (r *BookingRepository) CreateBooking(b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(id, code, vehicle_id, start_date, end_date, pickup_time, dropoff_time,
		 pickup_location, dropoff_location, customer_name, customer_phone, customer_email,
		 total_price, status, stripe_session_id, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14, NULLIF($15, ''), NULLIF($16, ''), $17, $18)
		RETURNING created_at, updated_at`
	return r.DB.QueryRow(query,
		b.ID, b.Code, b.VehicleID, b.StartDate, b.EndDate, b.PickupTime, b.DropoffTime,
		b.PickupLocation, b.DropoffLocation, b.CustomerName, b.CustomerPhone, b.CustomerEmail,
		b.TotalPrice, b.Status, b.StripeSessionID, b.PaymentStatus, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepository) GetBookingByID(id string) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.DB.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *BookingRepository) GetBookingByCode(code string) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE code = $1`
	b, err := scanBooking(r.DB.QueryRow(query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking with code %s: %w", code, err)
	}
	return &b, nil
}

func (r *BookingRepository) GetBookingByStripeSessionID(sessionID string) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE stripe_session_id = $1`
	b, err := scanBooking(r.DB.QueryRow(query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying booking for session %s: %w", sessionID, err)
	}
	return &b, nil
}

// ListBlockingBookings returns bookings for the given vehicles with the
// given canonical status and end_date on or after horizon. createdAfter
// narrows to recently created rows (the pending hold window). One call per
// status keeps bulk availability at two queries total regardless of how
// many vehicles the listing page asks about.
func (r *BookingRepository) ListBlockingBookings(vehicleIDs []string, status string, horizon time.Time, createdAfter *time.Time) ([]db.Booking, error) {
	if len(vehicleIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE vehicle_id = ANY($1) AND LOWER(status) = $2 AND end_date >= $3`
	args := []interface{}{pq.Array(vehicleIDs), db.NormalizeStatus(status), horizon}
	if createdAfter != nil {
		query += ` AND created_at >= $4`
		args = append(args, *createdAfter)
	}
	query += ` ORDER BY start_date`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying blocking bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning blocking booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// FindConfirmedOverlap probes for any other confirmed booking on the same
// vehicle whose inclusive [start_date, end_date] intersects the given range.
// Returns nil when the range is clear.
func (r *BookingRepository) FindConfirmedOverlap(vehicleID string, start, end time.Time, excludeID string) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE vehicle_id = $1
		  AND id <> $2
		  AND LOWER(status) = 'confirmed'
		  AND start_date <= $3
		  AND end_date >= $4
		LIMIT 1`
	b, err := scanBooking(r.DB.QueryRow(query, vehicleID, excludeID, end, start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error probing for overlap on vehicle %s: %w", vehicleID, err)
	}
	return &b, nil
}

// ListDispatchBookings returns confirmed and completed bookings whose stay
// touches the [from, to] day window.
func (r *BookingRepository) ListDispatchBookings(from, to time.Time) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE LOWER(status) IN ('confirmed', 'completed')
		  AND start_date <= $2
		  AND end_date >= $1
		ORDER BY start_date`
	rows, err := r.DB.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying dispatch bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning dispatch booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// ListBookings is the admin dashboard feed, optionally filtered by status
// and by start day.
func (r *BookingRepository) ListBookings(day *time.Time, status string) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if day != nil {
		query += fmt.Sprintf(" AND start_date = $%d", idx)
		args = append(args, *day)
		idx++
	}
	if status != "" {
		query += fmt.Sprintf(" AND LOWER(status) = $%d", idx)
		args = append(args, db.NormalizeStatus(status))
	}
	query += " ORDER BY start_date DESC, created_at DESC"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking row: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) UpdateBookingStatus(id, status string) error {
	result, err := r.DB.Exec(
		`UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`,
		db.NormalizeStatus(status), id,
	)
	if err != nil {
		return fmt.Errorf("error updating booking %s status: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *BookingRepository) UpdateBookingStatusAndPayment(id, status, paymentStatus string) error {
	_, err := r.DB.Exec(
		`UPDATE bookings SET status = $1, payment_status = $2, updated_at = NOW() WHERE id = $3`,
		db.NormalizeStatus(status), paymentStatus, id,
	)
	if err != nil {
		return fmt.Errorf("error updating booking %s payment status: %w", id, err)
	}
	return nil
}

func (r *BookingRepository) DeleteBooking(id string) error {
	result, err := r.DB.Exec(`DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", id, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
