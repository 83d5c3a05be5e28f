package service

import (
	"context"
	"strings"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/model"
)

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	acc := strings.TrimSpace(req.AccessionNumber)
	if acc == "" {
		return model.Book{}, errs.Validation("accessionNumber is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return model.Book{}, errs.Validation("title is required")
	}
	book := model.Book{
		AccessionNumber: acc,
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		Category:        strings.TrimSpace(req.Category),
		Publisher:       strings.TrimSpace(req.Publisher),
		Year:            req.Year,
		Pages:           req.Pages,
		Supplier:        strings.TrimSpace(req.Supplier),
		Price:           req.Price,
		CreatedAt:       s.clock.Now(),
	}
	if req.AddedBy != "" {
		addedBy := req.AddedBy
		book.AddedBy = &addedBy
	}
	return s.repo.CreateBook(ctx, book)
}

func (s *Service) UpdateBook(ctx context.Context, req model.UpdateBookRequest) (model.Book, error) {
	if strings.TrimSpace(req.Title) == "" {
		return model.Book{}, errs.Validation("title is required")
	}
	return s.repo.UpdateBook(ctx, model.Book{
		AccessionNumber: req.AccessionNumber,
		Title:           strings.TrimSpace(req.Title),
		Author:          strings.TrimSpace(req.Author),
		Category:        strings.TrimSpace(req.Category),
		Publisher:       strings.TrimSpace(req.Publisher),
		Year:            req.Year,
		Pages:           req.Pages,
		Supplier:        strings.TrimSpace(req.Supplier),
		Price:           req.Price,
	})
}

func (s *Service) GetBook(ctx context.Context, accessionNumber string) (model.Book, error) {
	return s.repo.GetBook(ctx, accessionNumber)
}

func (s *Service) ListBooks(ctx context.Context, search string, page, size int) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, strings.TrimSpace(search), page, size)
}
