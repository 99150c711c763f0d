package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      log,
	}
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Security CookieAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// AllocateTask godoc
// @Summary Create a task for another user
// @Tags admin
// @Accept json
// @Produce json
// @Param request body ports.AllocateTaskRequest true "Task data and assignee"
// @Success 201 {object} entities.Task
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security CookieAuth
// @Router /admin/tasks [post]
func (h *TaskHandler) AllocateTask(c echo.Context) error {
	var req ports.AllocateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	task, err := h.taskService.AllocateTask(c.Request().Context(), CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// GetTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ErrorResponse
// @Security CookieAuth
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// ListTasks godoc
// @Summary List the caller's tasks, newest first
// @Tags tasks
// @Produce json
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param category query string false "Category filter"
// @Param important query bool false "Only important tasks"
// @Success 200 {array} entities.Task
// @Security CookieAuth
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	filter := ports.TaskFilter{
		Status:   entities.TaskStatus(c.QueryParam("status")),
		Priority: entities.Priority(c.QueryParam("priority")),
		Category: c.QueryParam("category"),
	}
	if raw := c.QueryParam("important"); raw != "" {
		important, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "important must be true or false")
		}
		filter.Important = &important
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), CurrentUser(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// UpdateTask applies a partial update
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), CurrentUser(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

type statusRequest struct {
	Status entities.TaskStatus `json:"status"`
}

type priorityRequest struct {
	Priority entities.Priority `json:"priority"`
}

// UpdateStatus moves a task to a new status
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	task, err := h.taskService.UpdateStatus(c.Request().Context(), CurrentUser(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// UpdatePriority changes a task's priority
func (h *TaskHandler) UpdatePriority(c echo.Context) error {
	var req priorityRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	task, err := h.taskService.UpdatePriority(c.Request().Context(), CurrentUser(c), c.Param("id"), req.Priority)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	deleted, err := h.taskService.DeleteTask(c.Request().Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Task not found")
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: true})
}

// Stats godoc
// @Summary Count the caller's tasks by status
// @Tags tasks
// @Produce json
// @Success 200 {object} entities.TaskStats
// @Security CookieAuth
// @Router /tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	stats, err := h.taskService.Stats(c.Request().Context(), CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// CategoryHandler handles category requests
type CategoryHandler struct {
	categoryService ports.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context(), CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req ports.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	var req ports.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return errBadRequest
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), CurrentUser(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	deleted, err := h.categoryService.DeleteCategory(c.Request().Context(), CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "Category not found")
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: true})
}
