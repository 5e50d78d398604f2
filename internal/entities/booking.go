package entities

import "time"

type CreateBookingRequest struct {
	VehicleID       string  `json:"vehicle_id"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	PickupTime      string  `json:"pickup_time,omitempty"`
	DropoffTime     string  `json:"dropoff_time,omitempty"`
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`
	CustomerName    string  `json:"customer_name"`
	ContactNumber   string  `json:"contact_number"`
	Email           string  `json:"email"`
	TotalPrice      float64 `json:"total_price,omitempty"`
	PaymentMethod   string  `json:"payment_method,omitempty"` // "online" or "pay_later"
}

type CreateBookingResponse struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type ConfirmBookingRequest struct {
	ID   string `json:"id,omitempty"`
	Code string `json:"code,omitempty"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	VehicleID       string    `json:"vehicle_id"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	PickupTime      string    `json:"pickup_time,omitempty"`
	DropoffTime     string    `json:"dropoff_time,omitempty"`
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	CustomerName    string    `json:"customer_name"`
	ContactNumber   string    `json:"contact_number"`
	Email           string    `json:"email"`
	TotalPrice      float64   `json:"total_price"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
