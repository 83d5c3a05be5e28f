package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/ledger"
	"github.com/Astemirdum/college-library/library/internal/model"
	"github.com/Astemirdum/college-library/library/internal/notify"
)

// ReturnBook closes one issuance. It is not idempotent: a second return of
// the same issuance fails with a conflict.
func (s *Service) ReturnBook(ctx context.Context, req model.ReturnRequest) (model.ReturnResponse, error) {
	req.StudentID = strings.TrimSpace(req.StudentID)
	req.IssuedBookID = strings.TrimSpace(req.IssuedBookID)
	req.IssueID = strings.TrimSpace(req.IssueID)
	if req.StudentID == "" {
		return model.ReturnResponse{}, errs.Validation("studentId is required")
	}
	if req.IssuedBookID == "" {
		return model.ReturnResponse{}, errs.Validation("issuedBookId is required")
	}

	if req.IssueID != "" {
		l, err := s.repo.GetLedger(ctx, req.StudentID)
		if err != nil {
			return model.ReturnResponse{}, err
		}
		if l.ID != req.IssueID {
			return model.ReturnResponse{}, errs.ErrLedgerNotFound
		}
	}

	now := s.clock.Now()
	ret, entry, err := s.repo.ReturnBook(ctx, req.StudentID, req.IssuedBookID, now)
	if err != nil {
		return model.ReturnResponse{}, err
	}
	late := ledger.Day(now.In(s.loc)).After(entry.DueDate)

	s.log.Info("book returned",
		zap.String("student_id", req.StudentID),
		zap.String("accession_number", ret.AccessionNumber),
		zap.Bool("late", late))
	s.notifyReturn(ctx, req.StudentID, entry, ret, late)

	return model.ReturnResponse{
		Success:         true,
		Message:         "book returned",
		IssuedBookID:    ret.IssuanceID,
		AccessionNumber: ret.AccessionNumber,
		ReturnedAt:      ret.ReturnedAt,
		Late:            late,
	}, nil
}

func (s *Service) notifyReturn(ctx context.Context, studentID string, entry ledger.Issuance, ret ledger.Return, late bool) {
	student, err := s.repo.GetUser(ctx, studentID)
	if err != nil {
		s.log.Error("return notification: load student", zap.String("student_id", studentID), zap.Error(err))
		return
	}
	book := notify.Book{
		AccessionNumber: ret.AccessionNumber,
		IssueDate:       entry.IssueDate,
		DueDate:         entry.DueDate,
		ReturnedAt:      &ret.ReturnedAt,
	}
	if b, err := s.repo.GetBook(ctx, ret.AccessionNumber); err == nil {
		book.Title, book.Author = b.Title, b.Author
	}
	s.publish(ctx, notify.Event{
		Kind:        notify.KindReturnConfirmation,
		StudentID:   student.ID,
		StudentName: student.Name,
		Email:       student.Email,
		Books:       []notify.Book{book},
		Late:        late,
	})
}
