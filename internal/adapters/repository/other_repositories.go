package repository

import (
	"context"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// TaskRepository stores tasks and answers per-user statistics
type TaskRepository struct {
	collection[*entities.Task]
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(store *FallbackStore[*entities.Task], now ports.Clock) *TaskRepository {
	return &TaskRepository{collection[*entities.Task]{store: store, now: now}}
}

// Add fills defaults and inserts task. CompletedAt follows the initial status.
func (r *TaskRepository) Add(ctx context.Context, task *entities.Task) (*entities.Task, error) {
	task = task.Clone()
	if task.Status == "" {
		task.Status = entities.TaskStatusPending
	}
	if task.Priority == "" {
		task.Priority = entities.PriorityMedium
	}
	if task.AssignedBy == "" {
		task.AssignedBy = entities.AssignedBySelf
	}
	task.SetTags(task.Tags)
	task.CompletedAt = nil
	task.ApplyStatus(task.Status, r.now())

	return r.store.Insert(ctx, task)
}

// Stats counts the owner's tasks by status
func (r *TaskRepository) Stats(ctx context.Context, ownerID string) (*entities.TaskStats, error) {
	return Aggregate(ctx, r.store, CacheStats, ownerID, func(tasks []*entities.Task) *entities.TaskStats {
		return entities.ComputeTaskStats(tasks, r.now())
	})
}

// CategoryRepository stores task categories
type CategoryRepository struct {
	collection[*entities.Category]
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(store *FallbackStore[*entities.Category], now ports.Clock) *CategoryRepository {
	return &CategoryRepository{collection[*entities.Category]{store: store, now: now}}
}

// Add fills the default color and icon and inserts category
func (r *CategoryRepository) Add(ctx context.Context, category *entities.Category) (*entities.Category, error) {
	category = category.Clone()
	if category.Color == "" {
		category.Color = entities.DefaultCategoryColor
	}
	if category.Icon == "" {
		category.Icon = entities.DefaultCategoryIcon
	}
	return r.store.Insert(ctx, category)
}

// ProjectRepository stores projects and their file references
type ProjectRepository struct {
	collection[*entities.Project]
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(store *FallbackStore[*entities.Project], now ports.Clock) *ProjectRepository {
	return &ProjectRepository{collection[*entities.Project]{store: store, now: now}}
}

// Add fills defaults and inserts project
func (r *ProjectRepository) Add(ctx context.Context, project *entities.Project) (*entities.Project, error) {
	project = project.Clone()
	if project.Color == "" {
		project.Color = entities.DefaultProjectColor
	}
	if project.Icon == "" {
		project.Icon = entities.DefaultProjectIcon
	}
	if project.Status == "" {
		project.Status = entities.ProjectStatusActive
	}
	if project.Files == nil {
		project.Files = []entities.ProjectFile{}
	}
	return r.store.Insert(ctx, project)
}

// PageRepository stores pages
type PageRepository struct {
	collection[*entities.Page]
}

// NewPageRepository creates a new page repository
func NewPageRepository(store *FallbackStore[*entities.Page], now ports.Clock) *PageRepository {
	return &PageRepository{collection[*entities.Page]{store: store, now: now}}
}

// Add inserts page with empty box and share lists when none are given
func (r *PageRepository) Add(ctx context.Context, page *entities.Page) (*entities.Page, error) {
	page = page.Clone()
	if page.Boxes == nil {
		page.Boxes = []entities.Box{}
	}
	if page.SharedWith == nil {
		page.SharedWith = []string{}
	}
	return r.store.Insert(ctx, page)
}

// FindSharedWith returns pages other users have shared with userID
func (r *PageRepository) FindSharedWith(ctx context.Context, userID string) ([]*entities.Page, error) {
	pages, err := r.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	shared := make([]*entities.Page, 0)
	for _, p := range pages {
		if p.User != userID && p.IsSharedWith(userID) {
			shared = append(shared, p)
		}
	}
	return shared, nil
}
