package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/college-library/library/internal/model"
	"github.com/Astemirdum/college-library/pkg/auth"
)

func (h *Handler) CreateStudent(c echo.Context) error {
	var req model.CreateStudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	req.CreatedBy, _ = auth.UserID(ctx)
	user, err := h.librarySvc.CreateStudent(ctx, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) CreateLibrarian(c echo.Context) error {
	var req model.CreateLibrarianRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	req.CreatedBy, _ = auth.UserID(ctx)
	user, err := h.librarySvc.CreateLibrarian(ctx, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) RegisterLibrarian(c echo.Context) error {
	var req model.CreateLibrarianRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.librarySvc.RegisterLibrarian(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) GetStudent(c echo.Context) error {
	user, err := h.librarySvc.GetStudent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) GetStudentByRoll(c echo.Context) error {
	user, err := h.librarySvc.GetStudentByRoll(c.Request().Context(), c.Param("rollNumber"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ListStudents(c echo.Context) error {
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	students, err := h.librarySvc.ListStudents(c.Request().Context(), c.QueryParam("search"), page, size)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, students)
}

func (h *Handler) UpdateStudent(c echo.Context) error {
	var req model.UpdateStudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.ID = c.Param("id")
	user, err := h.librarySvc.UpdateStudent(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := auth.UserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	user, err := h.librarySvc.GetProfile(ctx, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	var req model.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	id, err := auth.UserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.ID = id
	user, err := h.librarySvc.UpdateProfile(ctx, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req model.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	id, err := auth.UserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.ID = id
	if err = h.librarySvc.ChangePassword(ctx, req); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated"})
}
