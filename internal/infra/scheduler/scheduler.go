package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// NewSchedule returns the poll schedule. An empty cronSpec means a fixed
// delay of interval between cycles; otherwise cronSpec is a standard
// 5-field cron expression (or a descriptor such as "@every 10m").
func NewSchedule(cronSpec string, interval time.Duration) (cron.Schedule, error) {
	if cronSpec != "" {
		sched, err := cron.ParseStandard(cronSpec)
		if err != nil {
			return nil, fmt.Errorf("invalid cron spec %q: %w", cronSpec, err)
		}
		return sched, nil
	}
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	return cron.Every(interval), nil
}

// PollPacer sleeps between poll cycles according to a cron schedule.
// Unlike cron.Cron it never starts a job itself, so cycles cannot overlap:
// the caller runs a cycle, then calls Wait.
type PollPacer struct {
	schedule cron.Schedule
	logger   *logrus.Entry
	now      func() time.Time
}

func NewPollPacer(schedule cron.Schedule, logger *logrus.Entry) *PollPacer {
	return &PollPacer{
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Wait blocks until the next activation time or until ctx is done.
func (p *PollPacer) Wait(ctx context.Context) error {
	now := p.now()
	next := p.schedule.Next(now)
	delay := next.Sub(now)
	if delay < 0 {
		delay = 0
	}
	p.logger.WithField("next_poll", next.Format(time.RFC3339)).Debugf("Sleeping for %s", delay)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
