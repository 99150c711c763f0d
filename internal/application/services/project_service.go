package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// ProjectService handles projects and their file references
type ProjectService struct {
	projects ports.ProjectRepository
	logger   *logger.Logger
	now      ports.Clock
}

// NewProjectService creates a new project service
func NewProjectService(projects ports.ProjectRepository, log *logger.Logger) *ProjectService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProjectService{
		projects: projects,
		logger:   log.WithComponent("projects"),
		now:      time.Now,
	}
}

func checkProjectStatus(status entities.ProjectStatus) error {
	if status != "" && !status.IsValid() {
		return &entities.ValidationError{Field: "status", Message: "must be one of active, completed, on-hold, cancelled"}
	}
	return nil
}

func (s *ProjectService) newFile(in ports.FileInput) entities.ProjectFile {
	return entities.ProjectFile{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Type:       in.Type,
		Size:       in.Size,
		URL:        in.URL,
		UploadedAt: s.now(),
	}
}

// CreateProject creates a project owned by actor
func (s *ProjectService) CreateProject(ctx context.Context, actor *entities.User, req ports.CreateProjectRequest) (*entities.Project, error) {
	if err := requirePermission(actor, entities.PermCanAdd); err != nil {
		return nil, err
	}
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	if err := checkProjectStatus(req.Status); err != nil {
		return nil, err
	}

	files := make([]entities.ProjectFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, s.newFile(f))
	}

	project, err := s.projects.Add(ctx, &entities.Project{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Status:      req.Status,
		Files:       files,
		User:        actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Infow("Project created successfully", "project_id", project.ID, "user_id", actor.ID)
	return project, nil
}

func (s *ProjectService) load(ctx context.Context, actor *entities.User, id string, perm entities.Permission) (*entities.Project, error) {
	if err := requirePermission(actor, perm); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, perm, project.User, permissions.ResourceProjects); err != nil {
		return nil, err
	}
	return project, nil
}

// GetProject retrieves a project by ID
func (s *ProjectService) GetProject(ctx context.Context, actor *entities.User, id string) (*entities.Project, error) {
	return s.load(ctx, actor, id, entities.PermCanView)
}

// ListProjects returns actor's projects newest first
func (s *ProjectService) ListProjects(ctx context.Context, actor *entities.User) ([]*entities.Project, error) {
	if err := requirePermission(actor, entities.PermCanView); err != nil {
		return nil, err
	}
	projects, err := s.projects.FindByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject applies the fields set in req
func (s *ProjectService) UpdateProject(ctx context.Context, actor *entities.User, id string, req ports.UpdateProjectRequest) (*entities.Project, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := checkProjectStatus(*req.Status); err != nil {
			return nil, err
		}
	}
	if _, err := s.load(ctx, actor, id, entities.PermCanEdit); err != nil {
		return nil, err
	}

	project, err := s.projects.Update(ctx, id, func(p *entities.Project) error {
		pick(&p.Name, req.Name)
		pick(&p.Description, req.Description)
		pick(&p.Color, req.Color)
		pick(&p.Icon, req.Icon)
		pick(&p.Status, req.Status)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// AddFile attaches a file reference to a project
func (s *ProjectService) AddFile(ctx context.Context, actor *entities.User, id string, file ports.FileInput) (*entities.Project, error) {
	if err := entities.Validate(file); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, actor, id, entities.PermCanEdit); err != nil {
		return nil, err
	}

	entry := s.newFile(file)
	project, err := s.projects.Update(ctx, id, func(p *entities.Project) error {
		p.Files = append(p.Files, entry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add file: %w", err)
	}
	return project, nil
}

// RemoveFile detaches a file reference. An unknown file id is ErrNotFound.
func (s *ProjectService) RemoveFile(ctx context.Context, actor *entities.User, id, fileID string) (*entities.Project, error) {
	current, err := s.load(ctx, actor, id, entities.PermCanEdit)
	if err != nil {
		return nil, err
	}
	if !current.HasFile(fileID) {
		return nil, entities.ErrNotFound
	}

	project, err := s.projects.Update(ctx, id, func(p *entities.Project) error {
		if !p.RemoveFile(fileID) {
			return entities.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove file: %w", err)
	}
	return project, nil
}

// DeleteProject removes a project
func (s *ProjectService) DeleteProject(ctx context.Context, actor *entities.User, id string) (bool, error) {
	if _, err := s.load(ctx, actor, id, entities.PermCanDelete); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.projects.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete project: %w", err)
	}
	return deleted, nil
}
