package service

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"fijicarhire/internal/db"
	"fijicarhire/internal/schedule"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// NotifyService delivers booking status email via SendGrid and WhatsApp
// messages via Twilio. All sends are best-effort: failures are logged,
// never propagated into the booking flow.
type NotifyService struct{}

func NewNotifyService() *NotifyService {
	return &NotifyService{}
}

func (s *NotifyService) SendBookingStatusEmail(b db.Booking, status string) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Println("WARNING: SENDGRID_API_KEY not configured, skipping booking email")
		return
	}
	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		log.Println("WARNING: SENDGRID_FROM_EMAIL not configured, skipping booking email")
		return
	}
	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "Fiji Car Hire"
	}

	loc := schedule.BusinessLocation()
	subject := fmt.Sprintf("Your booking %s is %s", b.Code, status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour vehicle hire booking is now %s.\n\n"+
			"Booking Details:\n"+
			"Booking Code: %s\n"+
			"Pickup: %s at %s (%s)\n"+
			"Drop-off: %s at %s (%s)\n\n"+
			"Thank you for booking with Fiji Car Hire.",
		b.CustomerName, status,
		b.Code,
		b.StartDate.In(loc).Format("02 Jan 2006"), schedule.ClockOrDefault(b.PickupTime, schedule.DefaultPickupTime), b.PickupLocation,
		b.EndDate.In(loc).Format("02 Jan 2006"), schedule.ClockOrDefault(b.DropoffTime, schedule.DefaultDropoffTime), b.DropoffLocation,
	)

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(b.CustomerName, b.CustomerEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending booking email to %s: %v", b.CustomerEmail, err)
		return
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		log.Printf("SendGrid returned status %d for booking %s: %s", response.StatusCode, b.Code, response.Body)
		return
	}
	log.Printf("Booking email sent to %s (code %s, status %s)", b.CustomerEmail, b.Code, status)
}

// SendBookingStatusMessage sends the customer a WhatsApp status update.
func (s *NotifyService) SendBookingStatusMessage(b db.Booking, status string) {
	loc := schedule.BusinessLocation()
	msg := fmt.Sprintf("Fiji Car Hire: booking %s is %s!\nPickup: %s %s at %s.\nDetails are in your email.",
		b.Code, status,
		b.StartDate.In(loc).Format("02/01"),
		schedule.ClockOrDefault(b.PickupTime, schedule.DefaultPickupTime),
		b.PickupLocation,
	)
	if err := s.SendWhatsApp(b.CustomerPhone, msg); err != nil {
		log.Printf("ALERT: booking %s updated but WhatsApp message to %s failed: %v", b.Code, b.CustomerPhone, err)
	}
}

// SendDigest delivers the daily dispatch digest to the operations number.
func (s *NotifyService) SendDigest(message string) error {
	to := os.Getenv("DIGEST_TO_NUMBER")
	if to == "" {
		return fmt.Errorf("DIGEST_TO_NUMBER not configured")
	}
	return s.SendWhatsApp(to, message)
}

// SendWhatsApp sends one WhatsApp message through Twilio. Numbers are
// E.164; the whatsapp: channel prefix is added here.
func (s *NotifyService) SendWhatsApp(toNumber, body string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_WHATSAPP_FROM")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		log.Println("WARNING: Twilio credentials not fully configured, message will not be sent")
		return fmt.Errorf("twilio credentials not configured")
	}
	if !strings.HasPrefix(toNumber, "+") {
		log.Printf("WARNING: destination number %q is not E.164, send may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo("whatsapp:" + toNumber)
	params.SetFrom("whatsapp:" + fromNumber)
	params.SetBody(body)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("Error sending WhatsApp message to %s: %v", toNumber, err)
		return fmt.Errorf("failed to send WhatsApp message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("WhatsApp message sent to %s at %s. SID: %s", toNumber, time.Now().Format(time.RFC3339), *resp.Sid)
	}
	return nil
}
