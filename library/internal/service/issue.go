package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/ledger"
	"github.com/Astemirdum/college-library/library/internal/model"
	"github.com/Astemirdum/college-library/library/internal/notify"
)

func validateIssue(req model.IssueRequest) (model.IssueRequest, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.BookIDs = uniqueTrimmed(req.BookIDs)
	switch {
	case req.StudentID == "":
		return req, errs.Validation("studentId is required")
	case len(req.BookIDs) == 0:
		return req, errs.Validation("at least one book is required")
	case req.IssueDate.IsZero():
		return req, errs.Validation("issueDate is required")
	case req.DueDate.IsZero():
		return req, errs.Validation("dueDate is required")
	case !req.DueDate.After(req.IssueDate.Time):
		return req, errs.Validation("dueDate must be after issueDate")
	}
	return req, nil
}

// IssueBooks lends every available copy in the request to the student.
// Copies that are already out are skipped; if none is available nothing is
// written and ErrNothingEligible is returned.
func (s *Service) IssueBooks(ctx context.Context, req model.IssueRequest) (model.IssueResponse, error) {
	req, err := validateIssue(req)
	if err != nil {
		return model.IssueResponse{}, err
	}

	student, err := s.getStudent(ctx, req.StudentID)
	if err != nil {
		return model.IssueResponse{}, err
	}

	books, err := s.repo.GetBooks(ctx, req.BookIDs)
	if err != nil {
		return model.IssueResponse{}, err
	}
	byAcc := make(map[string]model.Book, len(books))
	for _, b := range books {
		byAcc[b.AccessionNumber] = b
	}
	var missing []string
	for _, id := range req.BookIDs {
		if _, ok := byAcc[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return model.IssueResponse{}, errors.Wrapf(errs.ErrBookNotFound, "unknown accession numbers: %s", strings.Join(missing, ", "))
	}

	now := s.clock.Now()
	entries := make([]ledger.Issuance, 0, len(req.BookIDs))
	for _, id := range req.BookIDs {
		entries = append(entries, ledger.Issuance{
			ID:              s.newID(),
			AccessionNumber: id,
			IssueDate:       ledger.Day(req.IssueDate.Time),
			DueDate:         ledger.Day(req.DueDate.Time),
		})
	}

	issued, skipped, err := s.repo.IssueBooks(ctx, student.ID, entries, now)
	if err != nil {
		return model.IssueResponse{}, err
	}
	if len(issued) == 0 {
		return model.IssueResponse{}, errors.Wrapf(errs.ErrNothingEligible, "already issued: %s", strings.Join(skipped, ", "))
	}
	sort.Strings(skipped)
	if skipped == nil {
		skipped = []string{}
	}

	l, err := s.repo.GetLedger(ctx, student.ID)
	if err != nil {
		return model.IssueResponse{}, err
	}

	resp := model.IssueResponse{
		Success:        true,
		IssueID:        l.ID,
		Issued:         make([]model.IssuedBook, 0, len(issued)),
		SkippedBookIDs: skipped,
	}
	ev := notify.Event{
		Kind:        notify.KindIssueConfirmation,
		StudentID:   student.ID,
		StudentName: student.Name,
		Email:       student.Email,
	}
	for _, e := range issued {
		b := byAcc[e.AccessionNumber]
		resp.Issued = append(resp.Issued, model.IssuedBook{
			EntryID:         e.ID,
			AccessionNumber: e.AccessionNumber,
			Title:           b.Title,
			Author:          b.Author,
			IssueDate:       e.IssueDate,
			DueDate:         e.DueDate,
		})
		ev.Books = append(ev.Books, notify.Book{
			AccessionNumber: e.AccessionNumber,
			Title:           b.Title,
			Author:          b.Author,
			IssueDate:       e.IssueDate,
			DueDate:         e.DueDate,
		})
	}
	resp.Message = fmt.Sprintf("%d book(s) issued", len(issued))
	if len(skipped) > 0 {
		resp.Message += fmt.Sprintf(", %d skipped as already issued", len(skipped))
	}

	s.log.Info("books issued",
		zap.String("student_id", student.ID),
		zap.Int("issued", len(issued)),
		zap.Strings("skipped", skipped))
	s.publish(ctx, ev)
	return resp, nil
}
