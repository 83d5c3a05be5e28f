package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/model"
)

type DueSource interface {
	DueTomorrow(ctx context.Context) ([]model.DueEntry, error)
}

// Reminder sends one due_reminder per student holding books due tomorrow.
type Reminder struct {
	src    DueSource
	pub    Publisher
	dedupe Deduper
	now    func() time.Time
	log    *zap.Logger
}

func NewReminder(src DueSource, pub Publisher, dedupe Deduper, log *zap.Logger) *Reminder {
	if dedupe == nil {
		dedupe = NewNopDeduper()
	}
	return &Reminder{
		src:    src,
		pub:    pub,
		dedupe: dedupe,
		now:    time.Now,
		log:    log.Named("reminder"),
	}
}

func reminderKey(due time.Time, studentID string) string {
	return "library:reminder:" + due.Format(time.DateOnly) + ":" + studentID
}

// Run scans once and returns how many reminders were published. A failed
// publish for one student does not stop the others.
func (r *Reminder) Run(ctx context.Context) (int, error) {
	due, err := r.src.DueTomorrow(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "due tomorrow")
	}
	events := groupByStudent(due, r.now())

	sent := 0
	for _, ev := range events {
		key := reminderKey(ev.Books[0].DueDate, ev.StudentID)
		fresh, err := r.dedupe.Claim(ctx, key)
		if err != nil {
			r.log.Warn("dedupe claim", zap.String("key", key), zap.Error(err))
			fresh = true
		}
		if !fresh {
			r.log.Debug("already reminded", zap.String("student_id", ev.StudentID))
			continue
		}
		if err = r.pub.Publish(ctx, ev); err != nil {
			r.log.Error("publish reminder", zap.String("student_id", ev.StudentID), zap.Error(err))
			if err = r.dedupe.Release(ctx, key); err != nil {
				r.log.Warn("dedupe release", zap.String("key", key), zap.Error(err))
			}
			continue
		}
		sent++
	}
	r.log.Info("reminders sent", zap.Int("students", len(events)), zap.Int("sent", sent))
	return sent, nil
}

func groupByStudent(due []model.DueEntry, now time.Time) []Event {
	var events []Event
	idx := make(map[string]int)
	for _, d := range due {
		i, ok := idx[d.Student.ID]
		if !ok {
			i = len(events)
			idx[d.Student.ID] = i
			events = append(events, Event{
				ID:          uuid.NewString(),
				Kind:        KindDueReminder,
				StudentID:   d.Student.ID,
				StudentName: d.Student.Name,
				Email:       d.Student.Email,
				OccurredAt:  now,
			})
		}
		events[i].Books = append(events[i].Books, Book{
			AccessionNumber: d.Book.AccessionNumber,
			Title:           d.Book.Title,
			Author:          d.Book.Author,
			DueDate:         d.DueDate,
		})
	}
	return events
}
