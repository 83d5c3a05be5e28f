package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/college-library/library/internal/errs"
	"github.com/Astemirdum/college-library/library/internal/model"
	md "github.com/Astemirdum/college-library/pkg/middleware"
	"github.com/Astemirdum/college-library/pkg/validate"
	_ "github.com/Astemirdum/college-library/swagger"
)

type Handler struct {
	librarySvc LibraryService
	log        *zap.Logger
}

func New(librarySvc LibraryService, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.AuthContext,
	)

	var (
		librarian = md.RequireRole(string(model.RoleLibrarian))
		student   = md.RequireRole(string(model.RoleStudent))
		anyone    = md.RequireRole(string(model.RoleLibrarian), string(model.RoleStudent))
	)

	api.POST("/issue", h.IssueBooks, librarian)
	api.POST("/return", h.ReturnBook, librarian)
	api.GET("/unreturned-books/:studentId", h.UnreturnedBooks, librarian)
	api.GET("/history/:studentId", h.History, librarian)
	api.GET("/book-availability/:accessionNumber", h.BookAvailability, librarian)

	api.GET("/me/issued-books", h.MyIssuedBooks, student)
	api.GET("/me/history", h.MyHistory, student)
	api.GET("/me/profile", h.GetProfile, anyone)
	api.PUT("/me/profile", h.UpdateProfile, anyone)
	api.POST("/me/change-password", h.ChangePassword, anyone)

	api.POST("/books", h.CreateBook, librarian)
	api.GET("/books", h.ListBooks, anyone)
	api.GET("/books/:accessionNumber", h.GetBook, anyone)
	api.PUT("/books/:accessionNumber", h.UpdateBook, librarian)

	api.POST("/students", h.CreateStudent, librarian)
	api.GET("/students", h.ListStudents, librarian)
	api.GET("/students/by-roll/:rollNumber", h.GetStudentByRoll, librarian)
	api.GET("/students/:id", h.GetStudent, librarian)
	api.PUT("/students/:id", h.UpdateStudent, librarian)

	api.POST("/librarians", h.CreateLibrarian, librarian)
	api.POST("/librarians/register", h.RegisterLibrarian)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps service errors onto status codes by category.
func httpError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, errs.ErrUnavailable):
		code = http.StatusUnprocessableEntity
	}
	return echo.NewHTTPError(code, err.Error())
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if ie := he.Internal; ie != nil {
				return echo.NewHTTPError(http.StatusBadRequest, ie.Error())
			}
			return he
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// paging reads page and size (or limit), defaulting to the first page of ten.
func paging(c echo.Context) (page, size int, err error) {
	page, size = model.DefaultPage, model.DefaultPageSize
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page <= 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	sizeParam := c.QueryParam("size")
	if sizeParam == "" {
		sizeParam = c.QueryParam("limit")
	}
	if sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil || size <= 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	return page, size, nil
}
