package service

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/ledger"
	"github.com/Astemirdum/college-library/library/internal/model"
)

// bookRefs loads the books behind accs. Copies missing from the catalog
// keep only their accession number.
func (s *Service) bookRefs(ctx context.Context, accs []string) (map[string]model.BookRef, error) {
	books, err := s.repo.GetBooks(ctx, uniqueTrimmed(accs))
	if err != nil {
		return nil, err
	}
	refs := make(map[string]model.BookRef, len(accs))
	for _, acc := range accs {
		refs[acc] = model.BookRef{AccessionNumber: acc}
	}
	for _, b := range books {
		refs[b.AccessionNumber] = model.RefOf(b)
	}
	return refs, nil
}

// ledgerOf returns the student's ledger, or nil when nothing was ever issued.
func (s *Service) ledgerOf(ctx context.Context, studentID string) (*ledger.Ledger, error) {
	l, err := s.repo.GetLedger(ctx, studentID)
	if errors.Is(err, errs.ErrLedgerNotFound) {
		return nil, nil
	}
	return l, err
}

func (s *Service) UnreturnedBooks(ctx context.Context, studentID string) ([]model.UnreturnedBook, error) {
	if _, err := s.getStudent(ctx, studentID); err != nil {
		return nil, err
	}
	l, err := s.ledgerOf(ctx, studentID)
	if err != nil {
		return nil, err
	}
	out := []model.UnreturnedBook{}
	if l == nil {
		return out, nil
	}

	open := l.Open()
	accs := make([]string, 0, len(open))
	for _, e := range open {
		accs = append(accs, e.AccessionNumber)
	}
	refs, err := s.bookRefs(ctx, accs)
	if err != nil {
		return nil, err
	}
	for _, e := range open {
		out = append(out, model.UnreturnedBook{
			BookRef:      refs[e.AccessionNumber],
			IssueID:      l.ID,
			IssuedBookID: e.ID,
			IssueDate:    e.IssueDate,
			DueDate:      e.DueDate,
		})
	}
	return out, nil
}

func (s *Service) History(ctx context.Context, studentID string) (model.History, error) {
	student, err := s.getStudent(ctx, studentID)
	if err != nil {
		return model.History{}, err
	}
	h := model.History{
		Student:      model.Summary(student),
		Transactions: []model.Transaction{},
	}
	l, err := s.ledgerOf(ctx, studentID)
	if err != nil {
		return model.History{}, err
	}
	if l == nil || len(l.Issuances) == 0 {
		h.Message = "no books issued yet"
		return h, nil
	}

	txs := l.History()
	accs := make([]string, 0, len(txs))
	for _, tx := range txs {
		accs = append(accs, tx.AccessionNumber)
	}
	refs, err := s.bookRefs(ctx, accs)
	if err != nil {
		return model.History{}, err
	}
	for _, tx := range txs {
		h.Transactions = append(h.Transactions, model.Transaction{
			Book:         refs[tx.AccessionNumber],
			IssueID:      l.ID,
			IssuedBookID: tx.ID,
			IssueDate:    tx.IssueDate,
			DueDate:      tx.DueDate,
			Returned:     tx.Returned,
			ReturnedAt:   tx.ReturnedAt,
		})
	}
	return h, nil
}

// IsBookAvailable reports whether no ledger holds an open issuance of the copy.
func (s *Service) IsBookAvailable(ctx context.Context, accessionNumber string) (bool, error) {
	_, held, err := s.repo.OpenIssuance(ctx, accessionNumber)
	if err != nil {
		return false, err
	}
	return !held, nil
}

func (s *Service) BookAvailability(ctx context.Context, accessionNumber string) (model.BookAvailability, error) {
	book, err := s.repo.GetBook(ctx, accessionNumber)
	if err != nil {
		return model.BookAvailability{}, err
	}
	o, held, err := s.repo.OpenIssuance(ctx, accessionNumber)
	if err != nil {
		return model.BookAvailability{}, err
	}
	av := model.BookAvailability{Book: book, Available: !held}
	if held {
		due := o.DueDate
		av.DueDate = &due
	}
	return av, nil
}

// DueTomorrow lists every open issuance due on the day after today in the
// service's zone, most recently active ledgers first.
func (s *Service) DueTomorrow(ctx context.Context) ([]model.DueEntry, error) {
	day := ledger.Tomorrow(s.clock.Now(), s.loc)
	ledgers, err := s.repo.LedgersDueOn(ctx, day)
	if err != nil {
		return nil, err
	}

	var (
		studentIDs []string
		accs       []string
	)
	for _, l := range ledgers {
		studentIDs = append(studentIDs, l.StudentID)
		for _, e := range l.DueOn(day) {
			accs = append(accs, e.AccessionNumber)
		}
	}
	users, err := s.repo.GetUsers(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	refs, err := s.bookRefs(ctx, accs)
	if err != nil {
		return nil, err
	}

	out := []model.DueEntry{}
	for _, l := range ledgers {
		student, ok := byID[l.StudentID]
		if !ok {
			student = model.User{ID: l.StudentID}
		}
		for _, e := range l.DueOn(day) {
			out = append(out, model.DueEntry{
				Student:      student,
				Book:         refs[e.AccessionNumber],
				IssuedBookID: e.ID,
				DueDate:      e.DueDate,
			})
		}
	}
	return out, nil
}
