package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/notify"
	libraryRepo "github.com/Astemirdum/college-library/library/internal/repository"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type Service struct {
	log      *zap.Logger
	repo     libraryRepo.Repository
	notifier notify.Publisher
	clock    Clock
	loc      *time.Location
	newID    func() string
}

type Option func(*Service)

func WithPublisher(p notify.Publisher) Option {
	return func(s *Service) { s.notifier = p }
}

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLocation sets the zone that decides which calendar day "tomorrow" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.loc = loc }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func NewService(repo libraryRepo.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:   log.Named("service"),
		repo:  repo,
		clock: realClock{},
		loc:   time.UTC,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogPublisher(log)
	}
	return s
}

// publish never fails the caller; notification problems are only logged.
func (s *Service) publish(ctx context.Context, ev notify.Event) {
	ev.ID = s.newID()
	ev.OccurredAt = s.clock.Now()
	if err := s.notifier.Publish(ctx, ev); err != nil {
		s.log.Error("publish notification",
			zap.String("kind", string(ev.Kind)),
			zap.String("student_id", ev.StudentID),
			zap.Error(err))
	}
}

func uniqueTrimmed(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
