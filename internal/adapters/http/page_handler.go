package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// PageHandler handles page requests
type PageHandler struct {
	pageService ports.PageService
}

// NewPageHandler creates a new page handler
func NewPageHandler(pageService ports.PageService) *PageHandler {
	return &PageHandler{pageService: pageService}
}

func (h *PageHandler) CreatePage(c echo.Context) error {
	var req ports.CreatePageRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	page, err := h.pageService.CreatePage(c.Request().Context(), CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, page)
}

func (h *PageHandler) GetPage(c echo.Context) error {
	page, err := h.pageService.GetPage(c.Request().Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PageHandler) ListPages(c echo.Context) error {
	pages, err := h.pageService.ListPages(c.Request().Context(), CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pages)
}

// ListSharedPages returns pages other users shared with the caller
func (h *PageHandler) ListSharedPages(c echo.Context) error {
	pages, err := h.pageService.ListSharedPages(c.Request().Context(), CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pages)
}

func (h *PageHandler) UpdatePage(c echo.Context) error {
	var req ports.UpdatePageRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	page, err := h.pageService.UpdatePage(c.Request().Context(), CurrentUser(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PageHandler) SharePage(c echo.Context) error {
	var req ports.SharePageRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	page, err := h.pageService.SharePage(c.Request().Context(), CurrentUser(c), c.Param("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PageHandler) UnsharePage(c echo.Context) error {
	page, err := h.pageService.UnsharePage(c.Request().Context(), CurrentUser(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *PageHandler) DeletePage(c echo.Context) error {
	deleted, err := h.pageService.DeletePage(c.Request().Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Page not found")
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: true})
}
