package service

import (
	"fmt"
	"log"
	"time"

	"fijicarhire/internal/db"
	"fijicarhire/internal/repository"
	"fijicarhire/internal/schedule"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteFinishedBookings marks confirmed bookings whose rental ended
// before today (business time) as completed. Pendings past the hold window
// are left alone; they simply stop blocking availability.
func (s *JobService) CompleteFinishedBookings() error {
	log.Println("Cron Job: Checking for bookings to mark as 'completed'...")

	today := schedule.StartOfDay(time.Now(), schedule.BusinessLocation())
	ids, err := s.Repo.GetConfirmedIDsPastEnd(today)
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed bookings past end date: %w", err)
	}

	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed bookings found past their end date.")
		return nil
	}

	log.Printf("Cron Job: Found %d bookings to mark as 'completed'. IDs: %v", len(ids), ids)

	if err := s.Repo.UpdateBookingStatuses(ids, db.StatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}

	log.Printf("Cron Job: Successfully updated %d bookings to 'completed'.", len(ids))
	return nil
}
