package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectService ports.ProjectService
	logger         *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService ports.ProjectService, log *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         log,
	}
}

// CreateProject godoc
// @Summary Create a new project
// @Description Create a project, optionally with file references
// @Tags projects
// @Accept json
// @Produce json
// @Param request body ports.CreateProjectRequest true "Project data"
// @Success 201 {object} entities.Project
// @Failure 400 {object} ErrorResponse
// @Security CookieAuth
// @Router /projects [post]
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req ports.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// GetProject godoc
// @Summary Get project by ID
// @Tags projects
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} entities.Project
// @Failure 404 {object} ErrorResponse
// @Security CookieAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetProject(c echo.Context) error {
	project, err := h.projectService.GetProject(c.Request().Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// ListProjects godoc
// @Summary List the caller's projects
// @Tags projects
// @Produce json
// @Success 200 {array} entities.Project
// @Security CookieAuth
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.projectService.ListProjects(c.Request().Context(), CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// UpdateProject godoc
// @Summary Update project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body ports.UpdateProjectRequest true "Fields to change"
// @Success 200 {object} entities.Project
// @Failure 404 {object} ErrorResponse
// @Security CookieAuth
// @Router /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	var req ports.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	project, err := h.projectService.UpdateProject(c.Request().Context(), CurrentUser(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// AddFile attaches a file reference
func (h *ProjectHandler) AddFile(c echo.Context) error {
	var req ports.FileInput
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	project, err := h.projectService.AddFile(c.Request().Context(), CurrentUser(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// RemoveFile detaches a file reference
func (h *ProjectHandler) RemoveFile(c echo.Context) error {
	project, err := h.projectService.RemoveFile(c.Request().Context(), CurrentUser(c), c.Param("id"), c.Param("fileId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// DeleteProject godoc
// @Summary Delete project
// @Tags projects
// @Param id path string true "Project ID"
// @Success 200 {object} DeletedResponse
// @Failure 404 {object} ErrorResponse
// @Security CookieAuth
// @Router /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c echo.Context) error {
	deleted, err := h.projectService.DeleteProject(c.Request().Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: true})
}
