package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/model"
)

type dueSource []model.DueEntry

func (s dueSource) DueTomorrow(context.Context) ([]model.DueEntry, error) {
	return s, nil
}

type recorder struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (r *recorder) Publish(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, ev)
	return nil
}

type mailbox struct {
	sent []Message
}

func (m *mailbox) Send(_ context.Context, msg Message) error {
	m.sent = append(m.sent, msg)
	return nil
}

func dueFixture() dueSource {
	due := time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC)
	alice := model.User{ID: "s1", Name: "Alice", Email: "alice@college.edu", Role: model.RoleStudent}
	bob := model.User{ID: "s2", Name: "Bob", Email: "bob@college.edu", Role: model.RoleStudent}
	return dueSource{
		{Student: alice, Book: model.BookRef{AccessionNumber: "ACC001", Title: "SICP"}, IssuedBookID: "e1", DueDate: due},
		{Student: bob, Book: model.BookRef{AccessionNumber: "ACC002", Title: "TAOCP"}, IssuedBookID: "e2", DueDate: due},
		{Student: alice, Book: model.BookRef{AccessionNumber: "ACC003", Title: "CLRS"}, IssuedBookID: "e3", DueDate: due},
	}
}

func TestReminder_GroupsByStudent(t *testing.T) {
	t.Parallel()
	pub := &recorder{}
	r := NewReminder(dueFixture(), pub, nil, zap.NewExample())

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, sent)
	require.Len(t, pub.events, 2)

	require.Equal(t, "s1", pub.events[0].StudentID)
	require.Equal(t, KindDueReminder, pub.events[0].Kind)
	require.Len(t, pub.events[0].Books, 2)
	require.Equal(t, "s2", pub.events[1].StudentID)
	require.Len(t, pub.events[1].Books, 1)
}

func TestReminder_RedisDedupe(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	pub := &recorder{}
	r := NewReminder(dueFixture(), pub, NewRedisDeduper(rdb), zap.NewExample())

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, sent)

	// second firing on the same day
	sent, err = r.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)
	require.Len(t, pub.events, 2)

	require.True(t, mr.Exists("library:reminder:2024-05-11:s1"))
	ttl := mr.TTL("library:reminder:2024-05-11:s1")
	require.Equal(t, reminderKeyTTL, ttl)
}

func TestReminder_PublishFailureReleasesKey(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	pub := &recorder{err: errors.New("broker down")}
	r := NewReminder(dueFixture(), pub, NewRedisDeduper(rdb), zap.NewExample())

	sent, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)
	require.False(t, mr.Exists("library:reminder:2024-05-11:s1"))

	pub.err = nil
	sent, err = r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, sent)
}

func TestScheduler_Next(t *testing.T) {
	t.Parallel()
	ist := time.FixedZone("IST", 5*3600+1800)
	s, err := NewScheduler("09:00", ist, func(context.Context) error { return nil }, zap.NewExample())
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "later today",
			now:  time.Date(2024, 5, 10, 8, 30, 0, 0, ist),
			want: time.Date(2024, 5, 10, 9, 0, 0, 0, ist),
		},
		{
			name: "exactly at run time",
			now:  time.Date(2024, 5, 10, 9, 0, 0, 0, ist),
			want: time.Date(2024, 5, 11, 9, 0, 0, 0, ist),
		},
		{
			name: "utc input",
			now:  time.Date(2024, 5, 31, 22, 0, 0, 0, time.UTC),
			want: time.Date(2024, 6, 1, 9, 0, 0, 0, ist),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.True(t, tt.want.Equal(s.Next(tt.now)), "got %s", s.Next(tt.now))
		})
	}

	_, err = NewScheduler("9am", ist, nil, zap.NewExample())
	require.Error(t, err)
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()
	s, err := NewScheduler("09:00", time.UTC, func(context.Context) error { return nil }, zap.NewExample())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestKafkaPublisher(t *testing.T) {
	t.Parallel()
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	defer func() { require.NoError(t, producer.Close()) }()

	ev := Event{ID: "ev1", Kind: KindIssueConfirmation, StudentID: "s1", Email: "alice@college.edu"}
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		got, err := decode(val)
		if err != nil {
			return err
		}
		if got.ID != ev.ID || got.Kind != ev.Kind {
			return errors.Errorf("unexpected event %+v", got)
		}
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisher(producer, "library.notifications", zap.NewExample())
	require.NoError(t, pub.Publish(context.Background(), ev))
	require.ErrorIs(t, pub.Publish(context.Background(), ev), sarama.ErrOutOfBrokers)
}

func TestDispatcher_Handle(t *testing.T) {
	t.Parallel()
	box := &mailbox{}
	d := NewDispatcher(box, zap.NewExample())
	returned := time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)

	data, err := encode(Event{
		ID:          "ev1",
		Kind:        KindReturnConfirmation,
		StudentName: "Alice",
		Email:       "alice@college.edu",
		Late:        true,
		Books: []Book{{
			AccessionNumber: "ACC001",
			Title:           "SICP",
			Author:          "Abelson",
			DueDate:         time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC),
			ReturnedAt:      &returned,
		}},
	})
	require.NoError(t, err)
	require.NoError(t, d.handle(context.Background(), data))
	require.Len(t, box.sent, 1)
	require.Equal(t, "alice@college.edu", box.sent[0].To)
	require.Equal(t, "Book returned after due date", box.sent[0].Subject)
	require.Contains(t, box.sent[0].Body, "SICP by Abelson (ACC001), due 2024-05-11, returned 2024-05-12")

	require.Error(t, d.handle(context.Background(), []byte("{")))

	data, err = encode(Event{ID: "ev2", Kind: "unknown", Email: "x@college.edu"})
	require.NoError(t, err)
	require.Error(t, d.handle(context.Background(), data))
	require.Len(t, box.sent, 1)
}
