package notify

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Scheduler runs a job once a day at a fixed wall-clock time.
type Scheduler struct {
	hour, minute int
	loc          *time.Location
	job          func(ctx context.Context) error
	now          func() time.Time
	log          *zap.Logger
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid time of day %q", s)
	}
	return t.Hour(), t.Minute(), nil
}

func NewScheduler(at string, loc *time.Location, job func(ctx context.Context) error, log *zap.Logger) (*Scheduler, error) {
	h, m, err := ParseClock(at)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		hour:   h,
		minute: m,
		loc:    loc,
		job:    job,
		now:    time.Now,
		log:    log.Named("scheduler"),
	}, nil
}

// Next is the first run strictly after now.
func (s *Scheduler) Next(now time.Time) time.Time {
	t := now.In(s.loc)
	next := time.Date(t.Year(), t.Month(), t.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !next.After(t) {
		next = time.Date(t.Year(), t.Month(), t.Day()+1, s.hour, s.minute, 0, 0, s.loc)
	}
	return next
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		now := s.now()
		next := s.Next(now)
		s.log.Info("next run", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
		if err := s.job(ctx); err != nil {
			s.log.Error("job", zap.Error(err))
		}
	}
}
