// Package notify delivers issue, return and due-date notifications. Events
// go out through a Publisher (Kafka or log), are picked up by the Dispatcher
// and handed to a Mailer. The Reminder job and its Scheduler produce the
// daily due-tomorrow events.
package notify

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
)

type Kind string

const (
	KindIssueConfirmation  Kind = "issue_confirmation"
	KindReturnConfirmation Kind = "return_confirmation"
	KindDueReminder        Kind = "due_reminder"
)

type Book struct {
	AccessionNumber string     `json:"accessionNumber"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	IssueDate       time.Time  `json:"issueDate,omitempty"`
	DueDate         time.Time  `json:"dueDate"`
	ReturnedAt      *time.Time `json:"returnedAt,omitempty"`
}

type Event struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	StudentID   string    `json:"studentId"`
	StudentName string    `json:"studentName"`
	Email       string    `json:"email"`
	Books       []Book    `json:"books"`
	Late        bool      `json:"late,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

func decode(data []byte) (Event, error) {
	var ev Event
	err := json.Unmarshal(data, &ev)
	return ev, err
}
