package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/trade-logger/internal/config"
	"github.com/yourusername/trade-logger/internal/mailer"
	"github.com/yourusername/trade-logger/internal/models"
)

type stubSessionRepo struct{}

func (stubSessionRepo) Create(ctx context.Context, session *models.Session) error { return nil }
func (stubSessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	return nil, models.ErrNotFound
}
func (stubSessionRepo) Touch(ctx context.Context, token string) error          { return nil }
func (stubSessionRepo) Delete(ctx context.Context, token string) error         { return nil }
func (stubSessionRepo) DeleteByUser(ctx context.Context, userID int64) error   { return nil }
func (stubSessionRepo) Count(ctx context.Context) (int, error)                 { return 0, nil }
func (stubSessionRepo) DeleteExpired(ctx context.Context, maxAge time.Duration) (int64, error) {
	return 0, nil
}

type stubEmailRepo struct{}

func (stubEmailRepo) Pending(ctx context.Context, limit int) ([]*models.EmailMessage, error) {
	return nil, nil
}
func (stubEmailRepo) MarkSent(ctx context.Context, id int64) error                 { return nil }
func (stubEmailRepo) MarkFailed(ctx context.Context, id int64, reason string) error { return nil }
func (stubEmailRepo) CountPending(ctx context.Context) (int, error)                { return 0, nil }

func newTestScheduler() *Scheduler {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	m := mailer.New(stubEmailRepo{}, config.MailerConfig{BatchSize: 10}, log)
	return New(stubSessionRepo{}, m, config.AuthConfig{SessionLifetimeSec: 86400}, log)
}

func TestSchedulerLifecycle(t *testing.T) {
	s := newTestScheduler()

	require.NoError(t, s.ScheduleSessionPurge("@hourly"))
	require.NoError(t, s.ScheduleEmailDispatch("@every 1m"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.NextRun().IsZero())

	assert.Error(t, s.Start(), "starting twice should fail")
	assert.Error(t, s.ScheduleSessionPurge("@hourly"), "scheduling while running should fail")

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(), "stopping twice is a no-op")
}

func TestSchedulerRequiresJobs(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.Start())
}

func TestSchedulerRejectsBadCron(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.ScheduleSessionPurge("not a cron expression"))
}
