package model

import (
	"bytes"
	"strings"
	"time"

	"github.com/Astemirdum/college-library/library/internal/errs"
)

// Date is a calendar date. It accepts YYYY-MM-DD or RFC 3339 and keeps only
// the date part, as midnight UTC.
type Date struct {
	time.Time `json:",inline"`
}

func NewDate(y int, m time.Month, d int) Date {
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return Date{}, errs.ErrInvalidDateFormat
		}
	}
	y, m, d := t.Date()
	return NewDate(y, m, d), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type IssueRequest struct {
	StudentID string   `json:"studentId" validate:"required"`
	BookIDs   []string `json:"bookIds" validate:"required,min=1,dive,required"`
	IssueDate Date     `json:"issueDate"`
	DueDate   Date     `json:"dueDate"`
}

type IssuedBook struct {
	EntryID         string    `json:"issuedBookId"`
	AccessionNumber string    `json:"accessionNumber"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	IssueDate       time.Time `json:"issueDate"`
	DueDate         time.Time `json:"dueDate"`
}

type IssueResponse struct {
	Success        bool         `json:"success"`
	Message        string       `json:"message"`
	IssueID        string       `json:"issueId"`
	Issued         []IssuedBook `json:"issued"`
	SkippedBookIDs []string     `json:"skippedBookIds"`
}

type ReturnRequest struct {
	StudentID    string `json:"studentId" validate:"required"`
	IssueID      string `json:"issueId"`
	IssuedBookID string `json:"issuedBookId" validate:"required"`
}

type ReturnResponse struct {
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
	IssuedBookID    string    `json:"issuedBookId"`
	AccessionNumber string    `json:"accessionNumber"`
	ReturnedAt      time.Time `json:"returnedAt"`
	Late            bool      `json:"late"`
}

type BookRef struct {
	AccessionNumber string `json:"accessionNumber"`
	Title           string `json:"title"`
	Author          string `json:"author"`
}

func RefOf(b Book) BookRef {
	return BookRef{AccessionNumber: b.AccessionNumber, Title: b.Title, Author: b.Author}
}

type UnreturnedBook struct {
	BookRef      `json:",inline"`
	IssueID      string    `json:"issueId"`
	IssuedBookID string    `json:"issuedBookId"`
	IssueDate    time.Time `json:"issueDate"`
	DueDate      time.Time `json:"dueDate"`
}

type Transaction struct {
	Book         BookRef    `json:"book"`
	IssueID      string     `json:"issueId"`
	IssuedBookID string     `json:"issuedBookId"`
	IssueDate    time.Time  `json:"issueDate"`
	DueDate      time.Time  `json:"dueDate"`
	Returned     bool       `json:"returned"`
	ReturnedAt   *time.Time `json:"returnedAt"`
}

type History struct {
	Student      StudentSummary `json:"student"`
	Transactions []Transaction  `json:"transactions"`
	Message      string         `json:"message"`
}

// DueEntry is an open issuance due on a given day, joined with its student and book.
type DueEntry struct {
	Student      User      `json:"student"`
	Book         BookRef   `json:"book"`
	IssuedBookID string    `json:"issuedBookId"`
	DueDate      time.Time `json:"dueDate"`
}
