package service

import (
	"context"
	"fmt"
	"time"

	"rentiva/internal/logger"
	"rentiva/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// MarkFinishedBookings moves confirmed bookings past their dropoff to
// "finished".
func (s *JobService) MarkFinishedBookings(ctx context.Context) error {
	ids, err := s.Repo.GetConfirmedBookingIDsPastDropoff(ctx)
	if err != nil {
		return fmt.Errorf("cron job: failed to get bookings past dropoff: %w", err)
	}

	if len(ids) == 0 {
		logger.Debug("cron job: no bookings past dropoff")
		return nil
	}

	logger.Info("cron job: marking bookings finished", "count", len(ids))

	if err := s.Repo.UpdateBookingStatuses(ctx, ids, "finished"); err != nil {
		return fmt.Errorf("cron job: failed to update booking statuses: %w", err)
	}
	return nil
}

// PurgeStalePendingBookings deletes pending bookings whose checkout was never
// completed.
func (s *JobService) PurgeStalePendingBookings(ctx context.Context, maxAge time.Duration) error {
	deleted, err := s.Repo.DeletePendingBookingsOlderThan(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return fmt.Errorf("cron job: failed to purge pending bookings: %w", err)
	}
	if deleted > 0 {
		logger.Info("cron job: purged stale pending bookings", "count", deleted)
	}
	return nil
}
