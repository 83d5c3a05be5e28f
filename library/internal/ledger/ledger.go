// Package ledger holds the per-student issuance ledger: an append-only
// sequence of issuance entries and a separate sequence of return records
// that reference entries by id.
//
// An entry is open while no return record references it. Openness is always
// computed from the return sequence and never stored on the entry.
package ledger

import (
	"time"

	"github.com/Astemirdum/college-library/library/internal/errs"
)

type Issuance struct {
	ID              string    `json:"id"`
	AccessionNumber string    `json:"accessionNumber"`
	IssueDate       time.Time `json:"issueDate"`
	DueDate         time.Time `json:"dueDate"`
}

type Return struct {
	IssuanceID      string    `json:"issuanceId"`
	AccessionNumber string    `json:"accessionNumber"`
	ReturnedAt      time.Time `json:"returnedAt"`
}

type Ledger struct {
	ID        string     `json:"id"`
	StudentID string     `json:"studentId"`
	Issuances []Issuance `json:"issuances"`
	Returns   []Return   `json:"returns"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// OpenIssuance is the availability index row for a copy that is currently out.
type OpenIssuance struct {
	AccessionNumber string    `json:"accessionNumber"`
	EntryID         string    `json:"entryId"`
	StudentID       string    `json:"studentId"`
	DueDate         time.Time `json:"dueDate"`
}

// Transaction is one issuance entry together with its return state.
type Transaction struct {
	Issuance
	Returned   bool       `json:"returned"`
	ReturnedAt *time.Time `json:"returnedAt"`
}

func New(id, studentID string, now time.Time) *Ledger {
	return &Ledger{
		ID:        id,
		StudentID: studentID,
		Issuances: []Issuance{},
		Returns:   []Return{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (l *Ledger) returned() map[string]time.Time {
	set := make(map[string]time.Time, len(l.Returns))
	for _, r := range l.Returns {
		set[r.IssuanceID] = r.ReturnedAt
	}
	return set
}

func (l *Ledger) Entry(id string) (Issuance, bool) {
	for _, e := range l.Issuances {
		if e.ID == id {
			return e, true
		}
	}
	return Issuance{}, false
}

func (l *Ledger) IsOpen(entryID string) bool {
	if _, ok := l.Entry(entryID); !ok {
		return false
	}
	_, done := l.returned()[entryID]
	return !done
}

// Open returns the entries without a return record, in insertion order.
func (l *Ledger) Open() []Issuance {
	done := l.returned()
	open := make([]Issuance, 0, len(l.Issuances))
	for _, e := range l.Issuances {
		if _, ok := done[e.ID]; !ok {
			open = append(open, e)
		}
	}
	return open
}

// OpenFor returns the open entry for the copy, if this ledger holds one.
func (l *Ledger) OpenFor(accessionNumber string) (Issuance, bool) {
	for _, e := range l.Open() {
		if e.AccessionNumber == accessionNumber {
			return e, true
		}
	}
	return Issuance{}, false
}

// Append records new issuances. Callers must have claimed every copy first.
func (l *Ledger) Append(now time.Time, entries ...Issuance) {
	l.Issuances = append(l.Issuances, entries...)
	l.UpdatedAt = now
}

// Return closes the entry. It fails when the entry is not part of this
// ledger or has already been returned.
func (l *Ledger) Return(entryID string, at time.Time) (Return, error) {
	entry, ok := l.Entry(entryID)
	if !ok {
		return Return{}, errs.ErrEntryNotFound
	}
	if _, done := l.returned()[entryID]; done {
		return Return{}, errs.ErrAlreadyReturned
	}
	r := Return{
		IssuanceID:      entry.ID,
		AccessionNumber: entry.AccessionNumber,
		ReturnedAt:      at,
	}
	l.Returns = append(l.Returns, r)
	l.UpdatedAt = at
	return r, nil
}

func (l *Ledger) History() []Transaction {
	done := l.returned()
	out := make([]Transaction, 0, len(l.Issuances))
	for _, e := range l.Issuances {
		tx := Transaction{Issuance: e}
		if at, ok := done[e.ID]; ok {
			at := at
			tx.Returned = true
			tx.ReturnedAt = &at
		}
		out = append(out, tx)
	}
	return out
}

// DueOn returns the open entries whose due date falls on day.
func (l *Ledger) DueOn(day time.Time) []Issuance {
	var due []Issuance
	for _, e := range l.Open() {
		if SameDay(e.DueDate, day) {
			due = append(due, e)
		}
	}
	return due
}

func (l *Ledger) Clone() *Ledger {
	c := *l
	c.Issuances = append([]Issuance(nil), l.Issuances...)
	c.Returns = append([]Return(nil), l.Returns...)
	return &c
}
