package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// TaskService handles task-related operations
type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	logger *logger.Logger
	now    ports.Clock
}

// NewTaskService creates a new task service
func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, log *logger.Logger) *TaskService {
	if log == nil {
		log = logger.NewNop()
	}
	return &TaskService{
		tasks:  tasks,
		users:  users,
		logger: log.WithComponent("tasks"),
		now:    time.Now,
	}
}

func checkTaskEnums(status entities.TaskStatus, priority entities.Priority) error {
	if status != "" && !status.IsValid() {
		return &entities.ValidationError{Field: "status", Message: "must be one of pending, in_progress, in-progress, completed, cancelled"}
	}
	if priority != "" && !priority.IsValid() {
		return &entities.ValidationError{Field: "priority", Message: "must be one of low, medium, high, urgent"}
	}
	return nil
}

func newTask(req ports.CreateTaskRequest, owner string) *entities.Task {
	return &entities.Task{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		DueDate:       req.DueDate,
		Category:      req.Category,
		Tags:          req.Tags,
		IsImportant:   req.IsImportant,
		EstimatedTime: req.EstimatedTime,
		ActualTime:    req.ActualTime,
		User:          owner,
	}
}

// CreateTask creates a task owned by actor
func (s *TaskService) CreateTask(ctx context.Context, actor *entities.User, req ports.CreateTaskRequest) (*entities.Task, error) {
	if err := requirePermission(actor, entities.PermCanAdd); err != nil {
		return nil, err
	}
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	if err := checkTaskEnums(req.Status, req.Priority); err != nil {
		return nil, err
	}

	task, err := s.tasks.Add(ctx, newTask(req, actor.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("Task created successfully", "task_id", task.ID, "user_id", actor.ID)
	return task, nil
}

// AllocateTask creates a task owned by another user and marks it as assigned
// by an admin
func (s *TaskService) AllocateTask(ctx context.Context, actor *entities.User, req ports.AllocateTaskRequest) (*entities.Task, error) {
	if err := requirePermission(actor, entities.PermCanAssignTasks); err != nil {
		return nil, err
	}
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	if err := checkTaskEnums(req.Status, req.Priority); err != nil {
		return nil, err
	}

	assignee, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("assignee not found: %w", err)
	}

	task := newTask(req.CreateTaskRequest, assignee.ID)
	task.AssignedBy = entities.AssignedByAdmin
	task.AssignedToName = assignee.Name

	task, err = s.tasks.Add(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate task: %w", err)
	}

	s.logger.LogUserAction(actor.ID, "allocate_task", map[string]interface{}{
		"task_id":  task.ID,
		"assignee": assignee.ID,
	})
	return task, nil
}

// load fetches a task and checks that actor may use perm on it
func (s *TaskService) load(ctx context.Context, actor *entities.User, id string, perm entities.Permission) (*entities.Task, error) {
	if err := requirePermission(actor, perm); err != nil {
		return nil, err
	}
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, perm, task.User, permissions.ResourceTasks); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask retrieves a task by ID
func (s *TaskService) GetTask(ctx context.Context, actor *entities.User, id string) (*entities.Task, error) {
	return s.load(ctx, actor, id, entities.PermCanView)
}

// ListTasks returns actor's tasks newest first, narrowed by filter
func (s *TaskService) ListTasks(ctx context.Context, actor *entities.User, filter ports.TaskFilter) ([]*entities.Task, error) {
	if err := requirePermission(actor, entities.PermCanView); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.FindByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	out := make([]*entities.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.Category != "" && t.Category != filter.Category {
			continue
		}
		if filter.Important != nil && t.IsImportant != *filter.Important {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// UpdateTask applies the fields set in req
func (s *TaskService) UpdateTask(ctx context.Context, actor *entities.User, id string, req ports.UpdateTaskRequest) (*entities.Task, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	var status entities.TaskStatus
	var priority entities.Priority
	pick(&status, req.Status)
	pick(&priority, req.Priority)
	if err := checkTaskEnums(status, priority); err != nil {
		return nil, err
	}

	if _, err := s.load(ctx, actor, id, entities.PermCanEdit); err != nil {
		return nil, err
	}

	now := s.now()
	task, err := s.tasks.Update(ctx, id, func(t *entities.Task) error {
		pick(&t.Title, req.Title)
		pick(&t.Description, req.Description)
		pick(&t.Priority, req.Priority)
		pick(&t.Category, req.Category)
		pick(&t.IsImportant, req.IsImportant)
		pick(&t.EstimatedTime, req.EstimatedTime)
		pick(&t.ActualTime, req.ActualTime)
		if req.DueDate != nil {
			t.DueDate = req.DueDate
		} else if req.ClearDueDate {
			t.DueDate = nil
		}
		if req.Tags != nil {
			t.SetTags(req.Tags)
		}
		if req.Status != nil {
			t.ApplyStatus(*req.Status, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// UpdateStatus moves a task to status, stamping or clearing CompletedAt
func (s *TaskService) UpdateStatus(ctx context.Context, actor *entities.User, id string, status entities.TaskStatus) (*entities.Task, error) {
	return s.UpdateTask(ctx, actor, id, ports.UpdateTaskRequest{Status: &status})
}

// UpdatePriority changes only the priority
func (s *TaskService) UpdatePriority(ctx context.Context, actor *entities.User, id string, priority entities.Priority) (*entities.Task, error) {
	return s.UpdateTask(ctx, actor, id, ports.UpdateTaskRequest{Priority: &priority})
}

// DeleteTask removes a task. A task that is already gone reports false.
func (s *TaskService) DeleteTask(ctx context.Context, actor *entities.User, id string) (bool, error) {
	if _, err := s.load(ctx, actor, id, entities.PermCanDelete); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return deleted, nil
}

// Stats summarises actor's tasks
func (s *TaskService) Stats(ctx context.Context, actor *entities.User) (*entities.TaskStats, error) {
	if err := requirePermission(actor, entities.PermCanView); err != nil {
		return nil, err
	}
	stats, err := s.tasks.Stats(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute task stats: %w", err)
	}
	return stats, nil
}
