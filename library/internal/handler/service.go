package handler

import (
	"context"

	"github.com/Astemirdum/college-library/library/internal/model"
	"github.com/Astemirdum/college-library/library/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	IssueBooks(ctx context.Context, req model.IssueRequest) (model.IssueResponse, error)
	ReturnBook(ctx context.Context, req model.ReturnRequest) (model.ReturnResponse, error)
	UnreturnedBooks(ctx context.Context, studentID string) ([]model.UnreturnedBook, error)
	History(ctx context.Context, studentID string) (model.History, error)
	BookAvailability(ctx context.Context, accessionNumber string) (model.BookAvailability, error)

	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, req model.UpdateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, accessionNumber string) (model.Book, error)
	ListBooks(ctx context.Context, search string, page, size int) (model.ListBooks, error)

	CreateStudent(ctx context.Context, req model.CreateStudentRequest) (model.User, error)
	CreateLibrarian(ctx context.Context, req model.CreateLibrarianRequest) (model.User, error)
	RegisterLibrarian(ctx context.Context, req model.CreateLibrarianRequest) (model.User, error)
	GetStudent(ctx context.Context, id string) (model.User, error)
	GetStudentByRoll(ctx context.Context, rollNumber string) (model.User, error)
	ListStudents(ctx context.Context, search string, page, size int) (model.ListStudents, error)
	UpdateStudent(ctx context.Context, req model.UpdateStudentRequest) (model.User, error)

	GetProfile(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (model.User, error)
	ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error
}

var _ LibraryService = (*service.Service)(nil)
