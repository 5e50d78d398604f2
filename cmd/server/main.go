package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"

	"fijicarhire/internal/api"
	"fijicarhire/internal/auth"
	"fijicarhire/internal/repository"
	"fijicarhire/internal/schedule"
	"fijicarhire/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v82"
)

func main() {
	godotenv.Load()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	bookingRepo := repository.NewBookingRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	adminAuthRepo := repository.NewAdminAuthRepository(db)
	jobRepo := repository.NewJobRepository(db)

	notifySvc := service.NewNotifyService()
	stripeSvc := service.NewStripeService()
	availabilitySvc := service.NewAvailabilityService(bookingRepo)
	bookingSvc := service.NewBookingService(bookingRepo, stripeSvc, notifySvc)
	dispatchSvc := service.NewDispatchService(bookingRepo, vehicleRepo)
	adminAuthSvc := service.NewAdminAuthService(adminAuthRepo)
	jobSvc := service.NewJobService(jobRepo)

	availabilityHandler := api.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := api.NewBookingHandler(bookingSvc)
	adminHandler := api.NewAdminHandler(bookingSvc, dispatchSvc, bookingRepo, vehicleRepo)
	adminAuthHandler := api.NewAdminAuthHandler(adminAuthSvc)
	schedulerHandler := api.NewSchedulerHandler(dispatchSvc, notifySvc)
	stripeHandler := api.NewStripeWebhookHandler(os.Getenv("STRIPE_WEBHOOK_SECRET"), bookingSvc)

	r := mux.NewRouter()

	// Public endpoints
	// Bulk is registered before the {vehicleId} wildcard so "bulk" is not
	// taken for a vehicle id.
	r.HandleFunc("/api/availability/bulk", availabilityHandler.BulkAvailability).Methods("GET", "POST")
	r.HandleFunc("/api/availability/{vehicleId}", availabilityHandler.VehicleAvailability).Methods("GET")
	r.HandleFunc("/api/bookings/create", bookingHandler.CreateBooking).Methods("POST")
	r.HandleFunc("/api/bookings/{code}", bookingHandler.GetBooking).Methods("GET")
	r.HandleFunc("/api/stripe/webhook", stripeHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/api/scheduler/digest-tomorrow", schedulerHandler.DigestTomorrow).Methods("POST")

	// Admin auth
	r.HandleFunc("/admin/login", adminAuthHandler.Login).Methods("POST")
	r.HandleFunc("/admin/register", adminAuthHandler.CreateUserAdmin).Methods("POST")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware)
	admin.HandleFunc("/bookings/list", adminHandler.ListBookings).Methods("GET")
	admin.HandleFunc("/bookings/confirm", bookingHandler.ConfirmBooking).Methods("POST")
	admin.HandleFunc("/bookings/decline", bookingHandler.DeclineBooking).Methods("POST")
	admin.HandleFunc("/bookings/{id}", adminHandler.DeleteBooking).Methods("DELETE")
	admin.HandleFunc("/vehicles", adminHandler.ListVehicles).Methods("GET")
	admin.HandleFunc("/tasks", adminHandler.Tasks).Methods("GET")

	// The confirm endpoint is also reachable at its public path for the
	// dashboard frontend; same handler, same JWT middleware.
	confirm := r.PathPrefix("/api/bookings/confirm").Subrouter()
	confirm.Use(auth.AdminAuthMiddleware)
	confirm.HandleFunc("", bookingHandler.ConfirmBooking).Methods("POST")

	// Cron jobs run in business time so "after the last return" means the
	// same thing year round.
	c := cron.New(cron.WithLocation(schedule.BusinessLocation()))
	c.AddFunc("5 15 * * *", func() {
		resp, err := http.Post("http://localhost:"+port()+"/api/scheduler/digest-tomorrow", "application/json", nil)
		if err != nil {
			log.Printf("Cron digest trigger failed: %v", err)
			return
		}
		resp.Body.Close()
	})
	c.AddFunc("30 2 * * *", func() {
		if err := jobSvc.CompleteFinishedBookings(); err != nil {
			log.Printf("Cron completion job failed: %v", err)
		}
	})
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	log.Printf("Server running on port %s", port())
	log.Fatal(http.ListenAndServe(":"+port(), handlers.LoggingHandler(os.Stdout, cors(r))))
}

func port() string {
	p := os.Getenv("PORT")
	if p == "" {
		p = "8080"
	}
	return p
}
