package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/handler"
	service_mocks "github.com/Astemirdum/college-library/library/internal/handler/mocks"
	"github.com/Astemirdum/college-library/library/internal/model"
	"github.com/Astemirdum/college-library/pkg/auth"
)

type identity struct {
	userID, role string
}

var (
	librarian = identity{userID: "lib-1", role: "librarian"}
	student   = identity{userID: "stu-1", role: "student"}
	anonymous = identity{}
)

type response struct {
	expectedCode int
	expectedBody string
}

func serve(t *testing.T, svc handler.LibraryService, method, target, body string, who identity) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.New(svc, zap.NewExample().Named("test"))
	e := h.NewRouter()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, http.NoBody)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if who.userID != "" {
		r.Header.Set(auth.XUserIDHeader, who.userID)
		r.Header.Set(auth.XUserRoleHeader, who.role)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func TestHandler_IssueBooks(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLibraryService)

	const validBody = `{"studentId":"stu-1","bookIds":["ACC001"],"issueDate":"2024-01-10","dueDate":"2024-01-24"}`
	issueDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC)
	wantReq := model.IssueRequest{
		StudentID: "stu-1",
		BookIDs:   []string{"ACC001"},
		IssueDate: model.NewDate(2024, time.January, 10),
		DueDate:   model.NewDate(2024, time.January, 24),
	}

	var tests = []struct {
		name         string
		body         string
		who          identity
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: validBody,
			who:  librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					IssueBooks(gomock.Any(), wantReq).
					Return(model.IssueResponse{
						Success: true,
						Message: "1 book(s) issued",
						IssueID: "l1",
						Issued: []model.IssuedBook{{
							EntryID:         "e1",
							AccessionNumber: "ACC001",
							Title:           "SICP",
							Author:          "Abelson",
							IssueDate:       issueDate,
							DueDate:         dueDate,
						}},
						SkippedBookIDs: []string{},
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"success":true,"message":"1 book(s) issued","issueId":"l1","issued":[{"issuedBookId":"e1","accessionNumber":"ACC001","title":"SICP","author":"Abelson","issueDate":"2024-01-10T00:00:00Z","dueDate":"2024-01-24T00:00:00Z"}],"skippedBookIds":[]}`,
			},
		},
		{
			name: "err. nothing eligible",
			body: validBody,
			who:  librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().IssueBooks(gomock.Any(), wantReq).Return(model.IssueResponse{}, errs.ErrNothingEligible)
			},
			response: response{
				expectedCode: http.StatusUnprocessableEntity,
				expectedBody: `{"message":"books are already issued or not eligible: unavailable"}`,
			},
		},
		{
			name: "err. student not found",
			body: validBody,
			who:  librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().IssueBooks(gomock.Any(), wantReq).Return(model.IssueResponse{}, errs.ErrStudentNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"student: not found"}`,
			},
		},
		{
			name: "err. service validation",
			body: `{"studentId":"stu-1","bookIds":["ACC001"],"issueDate":"2024-01-24","dueDate":"2024-01-10"}`,
			who:  librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().IssueBooks(gomock.Any(), gomock.Any()).Return(model.IssueResponse{}, errs.Validation("dueDate must be after issueDate"))
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"dueDate must be after issueDate: validation failed"}`,
			},
		},
		{
			name:         "err. bad date",
			body:         `{"studentId":"stu-1","bookIds":["ACC001"],"issueDate":"10/01/2024","dueDate":"2024-01-24"}`,
			who:          librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"date must be YYYY-MM-DD: validation failed"}`,
			},
		},
		{
			name:         "err. student role",
			body:         validBody,
			who:          student,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"access denied for role student"}`,
			},
		},
		{
			name:         "err. no identity",
			body:         validBody,
			who:          anonymous,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"caller identity is missing"}`,
			},
		},
		{
			name: "err. internal",
			body: validBody,
			who:  librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().IssueBooks(gomock.Any(), wantReq).Return(model.IssueResponse{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			tt.mockBehavior(svc)

			w := serve(t, svc, http.MethodPost, "/api/v1/issue", tt.body, tt.who)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_IssueBooksMissingBooks(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)

	w := serve(t, svc, http.MethodPost, "/api/v1/issue", `{"studentId":"stu-1","bookIds":[],"issueDate":"2024-01-10","dueDate":"2024-01-24"}`, librarian)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "BookIDs")
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLibraryService)
	const body = `{"studentId":"stu-1","issueId":"l1","issuedBookId":"e1"}`
	wantReq := model.ReturnRequest{StudentID: "stu-1", IssueID: "l1", IssuedBookID: "e1"}
	returnedAt := time.Date(2024, 1, 20, 15, 30, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ReturnBook(gomock.Any(), wantReq).Return(model.ReturnResponse{
					Success:         true,
					Message:         "book returned",
					IssuedBookID:    "e1",
					AccessionNumber: "ACC001",
					ReturnedAt:      returnedAt,
				}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"success":true,"message":"book returned","issuedBookId":"e1","accessionNumber":"ACC001","returnedAt":"2024-01-20T15:30:00Z","late":false}`,
			},
		},
		{
			name: "err. already returned",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ReturnBook(gomock.Any(), wantReq).Return(model.ReturnResponse{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"issuance already returned: conflict"}`,
			},
		},
		{
			name: "err. entry of another student",
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ReturnBook(gomock.Any(), wantReq).Return(model.ReturnResponse{}, errs.ErrEntryNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"issued book entry: not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			tt.mockBehavior(svc)

			w := serve(t, svc, http.MethodPost, "/api/v1/return", body, librarian)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_MyIssuedBooks(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)

	svc.EXPECT().UnreturnedBooks(gomock.Any(), student.userID).Return([]model.UnreturnedBook{}, nil)
	w := serve(t, svc, http.MethodGet, "/api/v1/me/issued-books", "", student)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `[]`, strings.Trim(w.Body.String(), "\n"))

	w = serve(t, svc, http.MethodGet, "/api/v1/me/issued-books", "", librarian)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_BookAvailability(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)
	due := time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC)
	created := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)

	svc.EXPECT().BookAvailability(gomock.Any(), "ACC001").Return(model.BookAvailability{
		Book:      model.Book{AccessionNumber: "ACC001", Title: "SICP", CreatedAt: created},
		Available: false,
		DueDate:   &due,
	}, nil)
	svc.EXPECT().BookAvailability(gomock.Any(), "ACC404").Return(model.BookAvailability{}, errs.ErrBookNotFound)

	w := serve(t, svc, http.MethodGet, "/api/v1/book-availability/ACC001", "", librarian)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"book":{"accessionNumber":"ACC001","title":"SICP","author":"","category":"","publisher":"","year":0,"pages":0,"supplier":"","price":0,"createdAt":"2023-06-01T00:00:00Z"},"available":false,"dueDate":"2024-01-24T00:00:00Z"}`,
		strings.Trim(w.Body.String(), "\n"))

	w = serve(t, svc, http.MethodGet, "/api/v1/book-availability/ACC404", "", librarian)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)

	svc.EXPECT().ListBooks(gomock.Any(), "go", 2, 5).Return(model.ListBooks{
		Paging: model.Paging{Page: 2, PageSize: 5, TotalElements: 6},
		Items:  []model.Book{},
	}, nil)

	w := serve(t, svc, http.MethodGet, "/api/v1/books?search=go&page=2&limit=5", "", student)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"page":2,"pageSize":5,"totalElements":6,"items":[]}`, strings.Trim(w.Body.String(), "\n"))

	w = serve(t, svc, http.MethodGet, "/api/v1/books?page=x", "", student)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, `{"message":"page is invalid"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_CreateBookSetsAddedBy(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)

	body := `{"accessionNumber":"ACC001","title":"SICP","author":"Abelson","category":"CS","publisher":"MIT","year":1985,"pages":657,"supplier":"Campus","price":1200}`
	svc.EXPECT().CreateBook(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req model.CreateBookRequest) (model.Book, error) {
			require.Equal(t, librarian.userID, req.AddedBy)
			return model.Book{}, errors.Wrap(errs.ErrDuplicate, "accession number ACC001")
		})

	w := serve(t, svc, http.MethodPost, "/api/v1/books", body, librarian)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_UpdateStudentRoleChange(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)

	svc.EXPECT().UpdateStudent(gomock.Any(), model.UpdateStudentRequest{
		ID: "stu-1", Name: "A", Phone: "1", Department: "CSE", Batch: "2022-26", Role: "librarian",
	}).Return(model.User{}, errs.ErrImmutableRole)

	w := serve(t, svc, http.MethodPut, "/api/v1/students/stu-1",
		`{"name":"A","phone":"1","department":"CSE","batch":"2022-26","role":"librarian"}`, librarian)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, `{"message":"role cannot be changed: validation failed"}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	w := serve(t, service_mocks.NewMockLibraryService(c), http.MethodGet, "/manage/health", "", anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}

func TestHandler_ListPagingDefaults(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)

	svc.EXPECT().ListBooks(gomock.Any(), "", model.DefaultPage, model.DefaultPageSize).Return(model.ListBooks{
		Paging: model.Paging{Page: 1, PageSize: 10, TotalElements: 0},
		Items:  []model.Book{},
	}, nil)
	svc.EXPECT().ListStudents(gomock.Any(), "", 3, model.DefaultPageSize).Return(model.ListStudents{
		Paging: model.Paging{Page: 3, PageSize: 10},
		Items:  []model.User{},
	}, nil)

	w := serve(t, svc, http.MethodGet, "/api/v1/books", "", student)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"page":1,"pageSize":10,"totalElements":0,"items":[]}`, strings.Trim(w.Body.String(), "\n"))

	w = serve(t, svc, http.MethodGet, "/api/v1/students?page=3", "", librarian)
	require.Equal(t, http.StatusOK, w.Code)

	for target, msg := range map[string]string{
		"/api/v1/books?page=0":   "page is invalid",
		"/api/v1/books?page=-2":  "page is invalid",
		"/api/v1/books?size=0":   "size is invalid",
		"/api/v1/books?limit=-5": "size is invalid",
	} {
		w = serve(t, svc, http.MethodGet, target, "", student)
		require.Equal(t, http.StatusBadRequest, w.Code, target)
		require.Equal(t, `{"message":"`+msg+`"}`, strings.Trim(w.Body.String(), "\n"), target)
	}
}

func TestHandler_StudentLedgerRoutes(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLibraryService)
	issueDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2024, 1, 24, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		target       string
		who          identity
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "unreturned ok",
			target: "/api/v1/unreturned-books/stu-1",
			who:    librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UnreturnedBooks(gomock.Any(), "stu-1").Return([]model.UnreturnedBook{{
					BookRef:      model.BookRef{AccessionNumber: "ACC002", Title: "TAOCP", Author: "Knuth"},
					IssueID:      "l1",
					IssuedBookID: "e2",
					IssueDate:    issueDate,
					DueDate:      dueDate,
				}}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"accessionNumber":"ACC002","title":"TAOCP","author":"Knuth","issueId":"l1","issuedBookId":"e2","issueDate":"2024-01-10T00:00:00Z","dueDate":"2024-01-24T00:00:00Z"}]`,
			},
		},
		{
			name:   "unreturned unknown student",
			target: "/api/v1/unreturned-books/stu-404",
			who:    librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UnreturnedBooks(gomock.Any(), "stu-404").Return(nil, errs.ErrStudentNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"student: not found"}`,
			},
		},
		{
			name:         "unreturned as student",
			target:       "/api/v1/unreturned-books/stu-1",
			who:          student,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"access denied for role student"}`,
			},
		},
		{
			name:   "history ok",
			target: "/api/v1/history/stu-1",
			who:    librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().History(gomock.Any(), "stu-1").Return(model.History{
					Student:      model.StudentSummary{ID: "stu-1", Name: "Asha", Email: "asha@college.edu", Department: "CSE"},
					Transactions: []model.Transaction{},
					Message:      "no books issued yet",
				}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"student":{"id":"stu-1","name":"Asha","email":"asha@college.edu","department":"CSE"},"transactions":[],"message":"no books issued yet"}`,
			},
		},
		{
			name:         "history as student",
			target:       "/api/v1/history/stu-1",
			who:          student,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"access denied for role student"}`,
			},
		},
		{
			name:         "history anonymous",
			target:       "/api/v1/history/stu-1",
			who:          anonymous,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"caller identity is missing"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			tt.mockBehavior(svc)

			w := serve(t, svc, http.MethodGet, tt.target, "", tt.who)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Profile(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	svc.EXPECT().GetProfile(gomock.Any(), librarian.userID).Return(model.User{
		ID: "lib-1", Name: "Lib", Email: "lib@college.edu", Phone: "1", PasswordHash: "hash",
		Role: model.RoleLibrarian, Department: "Library", CreatedAt: created, UpdatedAt: created,
	}, nil)
	w := serve(t, svc, http.MethodGet, "/api/v1/me/profile", "", librarian)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"id":"lib-1","name":"Lib","email":"lib@college.edu","phone":"1","role":"librarian","department":"Library","createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z"}`,
		strings.Trim(w.Body.String(), "\n"))

	svc.EXPECT().UpdateProfile(gomock.Any(), model.UpdateProfileRequest{ID: student.userID, Phone: "8888888888"}).
		Return(model.User{ID: "stu-1", Phone: "8888888888", Role: model.RoleStudent}, nil)
	w = serve(t, svc, http.MethodPut, "/api/v1/me/profile", `{"phone":"8888888888"}`, student)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"phone":"8888888888"`)

	w = serve(t, svc, http.MethodGet, "/api/v1/me/profile", "", anonymous)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_ChangePassword(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLibraryService)

	var tests = []struct {
		name         string
		body         string
		who          identity
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"currentPassword":"secret1","newPassword":"secret2"}`,
			who:  student,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ChangePassword(gomock.Any(), model.ChangePasswordRequest{
					ID: student.userID, CurrentPassword: "secret1", NewPassword: "secret2",
				}).Return(nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"password updated"}`,
			},
		},
		{
			name: "err. wrong current password",
			body: `{"currentPassword":"guess12","newPassword":"secret2"}`,
			who:  librarian,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ChangePassword(gomock.Any(), gomock.Any()).Return(errs.ErrWrongPassword)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"current password is incorrect: validation failed"}`,
			},
		},
		{
			name: "err. unchanged password",
			body: `{"currentPassword":"secret1","newPassword":"secret1"}`,
			who:  student,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ChangePassword(gomock.Any(), gomock.Any()).Return(errs.ErrSamePassword)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"new password must differ from the current one: validation failed"}`,
			},
		},
		{
			name:         "err. anonymous",
			body:         `{"currentPassword":"secret1","newPassword":"secret2"}`,
			who:          anonymous,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"caller identity is missing"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLibraryService(c)
			tt.mockBehavior(svc)

			w := serve(t, svc, http.MethodPost, "/api/v1/me/change-password", tt.body, tt.who)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ChangePasswordTooShort(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLibraryService(c)

	w := serve(t, svc, http.MethodPost, "/api/v1/me/change-password", `{"currentPassword":"secret1","newPassword":"abc"}`, student)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "NewPassword")
}
