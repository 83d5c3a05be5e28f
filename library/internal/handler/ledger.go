package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/college-library/library/internal/model"
	"github.com/Astemirdum/college-library/pkg/auth"
)

func (h *Handler) IssueBooks(c echo.Context) error {
	var req model.IssueRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.librarySvc.IssueBooks(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	var req model.ReturnRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	resp, err := h.librarySvc.ReturnBook(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) UnreturnedBooks(c echo.Context) error {
	books, err := h.librarySvc.UnreturnedBooks(c.Request().Context(), c.Param("studentId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) History(c echo.Context) error {
	hist, err := h.librarySvc.History(c.Request().Context(), c.Param("studentId"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, hist)
}

func (h *Handler) BookAvailability(c echo.Context) error {
	av, err := h.librarySvc.BookAvailability(c.Request().Context(), c.Param("accessionNumber"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, av)
}

func (h *Handler) MyIssuedBooks(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.UserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	books, err := h.librarySvc.UnreturnedBooks(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) MyHistory(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.UserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	hist, err := h.librarySvc.History(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, hist)
}
