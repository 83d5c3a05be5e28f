package notify

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	cb "github.com/Astemirdum/college-library/pkg/circuit_breaker"
)

const (
	breakerWindow   = 10
	breakerCooldown = 30 * time.Second
	breakerRatio    = 0.5
	breakerRecovery = 2
)

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	breaker  cb.CircuitBreaker
	log      *zap.Logger
}

// NewKafkaPublisher sends events to topic keyed by student id. A circuit
// breaker stops hammering the brokers while they are down.
func NewKafkaPublisher(producer sarama.SyncProducer, topic string, log *zap.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		topic:    topic,
		breaker:  cb.New(breakerWindow, breakerCooldown, breakerRatio, breakerRecovery),
		log:      log.Named("publisher"),
	}
}

func (p *kafkaPublisher) Publish(_ context.Context, ev Event) error {
	data, err := encode(ev)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.StudentID),
		Value: sarama.ByteEncoder(data),
	}
	err = p.breaker.Call(func() error {
		_, _, err := p.producer.SendMessage(msg)
		return err
	})
	if err != nil {
		p.log.Warn("publish", zap.String("kind", string(ev.Kind)), zap.String("breaker", p.breaker.State().String()), zap.Error(err))
		return errors.Wrap(err, "send message")
	}
	return nil
}

type logPublisher struct {
	log *zap.Logger
}

// NewLogPublisher only logs events. It is used when no brokers are configured.
func NewLogPublisher(log *zap.Logger) Publisher {
	return &logPublisher{log: log.Named("publisher")}
}

func (p *logPublisher) Publish(_ context.Context, ev Event) error {
	p.log.Info("notification",
		zap.String("id", ev.ID),
		zap.String("kind", string(ev.Kind)),
		zap.String("student_id", ev.StudentID),
		zap.String("email", ev.Email),
		zap.Int("books", len(ev.Books)),
		zap.Bool("late", ev.Late),
	)
	return nil
}
