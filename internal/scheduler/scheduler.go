// Package scheduler runs the application's recurring background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/trade-logger/internal/config"
	"github.com/yourusername/trade-logger/internal/mailer"
	"github.com/yourusername/trade-logger/internal/metrics"
	"github.com/yourusername/trade-logger/internal/repository"
)

// Scheduler manages the recurring maintenance jobs: purging expired login
// sessions and dispatching the outbound email queue.
type Scheduler struct {
	cron      *cron.Cron
	sessions  repository.SessionRepository
	mailer    *mailer.Mailer
	authCfg   config.AuthConfig
	logger    *logrus.Logger
	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// New creates a scheduler. Jobs run in UTC.
func New(sessions repository.SessionRepository, m *mailer.Mailer, authCfg config.AuthConfig, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		sessions: sessions,
		mailer:   m,
		authCfg:  authCfg,
		logger:   log,
		jobIDs:   make([]cron.EntryID, 0),
	}
}

// ScheduleSessionPurge schedules removal of sessions idle past their
// lifetime.
func (s *Scheduler) ScheduleSessionPurge(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		purged, err := s.sessions.DeleteExpired(ctx, s.authCfg.SessionLifetime())
		if err != nil {
			s.logger.WithError(err).Error("Session purge failed")
			return
		}
		if purged > 0 {
			s.logger.WithField("purged", purged).Info("Expired sessions purged")
			metrics.ActiveSessions.Sub(float64(purged))
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled session purge job")

	return nil
}

// ScheduleEmailDispatch schedules draining of the outbound email queue.
func (s *Scheduler) ScheduleEmailDispatch(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		sent, err := s.mailer.DispatchPending(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Email dispatch failed")
			return
		}
		if sent > 0 {
			s.logger.WithField("sent", sent).Info("Queued emails dispatched")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled email dispatch job")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}
