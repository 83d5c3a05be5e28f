package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type logMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) Mailer {
	return &logMailer{log: log.Named("mailer")}
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("mail", zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.String("body", msg.Body))
	return nil
}

// Compose turns an event into a plain-text message.
func Compose(ev Event) (Message, error) {
	var subject, intro string
	switch ev.Kind {
	case KindIssueConfirmation:
		subject = "Books issued"
		intro = "The following books have been issued to you:"
	case KindReturnConfirmation:
		subject = "Book returned"
		intro = "We have received the following book:"
		if ev.Late {
			subject = "Book returned after due date"
		}
	case KindDueReminder:
		subject = "Books due tomorrow"
		intro = "The following books are due tomorrow. Please return or renew them:"
	default:
		return Message{}, fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n%s\n", ev.StudentName, intro)
	for _, book := range ev.Books {
		fmt.Fprintf(&b, "- %s by %s (%s), due %s", book.Title, book.Author, book.AccessionNumber, book.DueDate.Format(time.DateOnly))
		if book.ReturnedAt != nil {
			fmt.Fprintf(&b, ", returned %s", book.ReturnedAt.Format(time.DateOnly))
		}
		b.WriteString("\n")
	}
	return Message{To: ev.Email, Subject: subject, Body: b.String()}, nil
}
