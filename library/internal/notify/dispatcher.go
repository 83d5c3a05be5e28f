package notify

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

// Dispatcher consumes notification events and mails them.
type Dispatcher struct {
	mailer Mailer
	log    *zap.Logger
	ready  chan bool
}

var _ sarama.ConsumerGroupHandler = (*Dispatcher)(nil)

func NewDispatcher(mailer Mailer, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailer: mailer,
		log:    log.Named("dispatcher"),
		ready:  make(chan bool),
	}
}

// Ready is closed once the first session is set up.
func (d *Dispatcher) Ready() <-chan bool {
	return d.ready
}

func (d *Dispatcher) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-d.ready:
	default:
		close(d.ready)
	}
	return nil
}

func (d *Dispatcher) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (d *Dispatcher) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				d.log.Warn("message channel was closed")
				return nil
			}
			if err := d.handle(session.Context(), message.Value); err != nil {
				d.log.Error("dispatch", zap.Int64("offset", message.Offset), zap.Error(err))
			}
			// undeliverable mail is not retried
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, data []byte) error {
	ev, err := decode(data)
	if err != nil {
		return err
	}
	msg, err := Compose(ev)
	if err != nil {
		return err
	}
	if msg.To == "" {
		d.log.Warn("event without recipient", zap.String("id", ev.ID), zap.String("student_id", ev.StudentID))
		return nil
	}
	d.log.Debug("dispatch", zap.String("id", ev.ID), zap.String("kind", string(ev.Kind)))
	return d.mailer.Send(ctx, msg)
}
