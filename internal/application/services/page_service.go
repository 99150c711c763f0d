package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/permissions"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/infrastructure/logger"
	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/ports"
)

// PageService handles pages. Users a page is shared with may read it but
// not change it.
type PageService struct {
	pages  ports.PageRepository
	users  ports.UserRepository
	logger *logger.Logger
}

// NewPageService creates a new page service
func NewPageService(pages ports.PageRepository, users ports.UserRepository, log *logger.Logger) *PageService {
	if log == nil {
		log = logger.NewNop()
	}
	return &PageService{
		pages:  pages,
		users:  users,
		logger: log.WithComponent("pages"),
	}
}

func newBoxes(in []ports.BoxInput) []entities.Box {
	boxes := make([]entities.Box, 0, len(in))
	for _, b := range in {
		boxes = append(boxes, entities.Box{
			ID:      uuid.New().String(),
			Type:    b.Type,
			Content: b.Content,
			File:    b.File,
		})
	}
	return boxes
}

func validateBoxes(in []ports.BoxInput) error {
	for _, b := range in {
		if err := entities.Validate(b); err != nil {
			return err
		}
		switch b.Type {
		case entities.BoxTypeText, entities.BoxTypeImage, entities.BoxTypeDocument:
		default:
			return &entities.ValidationError{Field: "type", Message: "must be one of text, image, document"}
		}
	}
	return nil
}

// CreatePage creates a page owned by actor
func (s *PageService) CreatePage(ctx context.Context, actor *entities.User, req ports.CreatePageRequest) (*entities.Page, error) {
	if err := requirePermission(actor, entities.PermCanAdd); err != nil {
		return nil, err
	}
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	if err := validateBoxes(req.Boxes); err != nil {
		return nil, err
	}

	page, err := s.pages.Add(ctx, &entities.Page{
		Name:  req.Name,
		Boxes: newBoxes(req.Boxes),
		User:  actor.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	s.logger.Infow("Page created successfully", "page_id", page.ID, "user_id", actor.ID)
	return page, nil
}

func (s *PageService) load(ctx context.Context, actor *entities.User, id string, perm entities.Permission) (*entities.Page, error) {
	if err := requirePermission(actor, perm); err != nil {
		return nil, err
	}
	page, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, perm, page.User, permissions.ResourcePages); err != nil {
		return nil, err
	}
	return page, nil
}

// GetPage returns a page actor owns, manages or has been shared
func (s *PageService) GetPage(ctx context.Context, actor *entities.User, id string) (*entities.Page, error) {
	if err := requirePermission(actor, entities.PermCanView); err != nil {
		return nil, err
	}
	page, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.IsSharedWith(actor.ID) {
		return page, nil
	}
	if err := authorize(actor, entities.PermCanView, page.User, permissions.ResourcePages); err != nil {
		return nil, err
	}
	return page, nil
}

// ListPages returns actor's own pages newest first
func (s *PageService) ListPages(ctx context.Context, actor *entities.User) ([]*entities.Page, error) {
	if err := requirePermission(actor, entities.PermCanView); err != nil {
		return nil, err
	}
	pages, err := s.pages.FindByOwner(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	return pages, nil
}

// ListSharedPages returns pages other users shared with actor
func (s *PageService) ListSharedPages(ctx context.Context, actor *entities.User) ([]*entities.Page, error) {
	if err := requirePermission(actor, entities.PermCanView); err != nil {
		return nil, err
	}
	pages, err := s.pages.FindSharedWith(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared pages: %w", err)
	}
	return pages, nil
}

// UpdatePage renames a page or replaces its boxes
func (s *PageService) UpdatePage(ctx context.Context, actor *entities.User, id string, req ports.UpdatePageRequest) (*entities.Page, error) {
	if err := entities.Validate(req); err != nil {
		return nil, err
	}
	if req.Boxes != nil {
		if err := validateBoxes(*req.Boxes); err != nil {
			return nil, err
		}
	}
	if _, err := s.load(ctx, actor, id, entities.PermCanEdit); err != nil {
		return nil, err
	}

	page, err := s.pages.Update(ctx, id, func(p *entities.Page) error {
		pick(&p.Name, req.Name)
		if req.Boxes != nil {
			p.Boxes = newBoxes(*req.Boxes)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	return page, nil
}

// SharePage grants userID read access. Sharing twice is a no-op.
func (s *PageService) SharePage(ctx context.Context, actor *entities.User, id, userID string) (*entities.Page, error) {
	if err := entities.Validate(ports.SharePageRequest{UserID: userID}); err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, actor, id, entities.PermCanEdit); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("share target: %w", err)
	}

	page, err := s.pages.Update(ctx, id, func(p *entities.Page) error {
		p.Share(userID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to share page: %w", err)
	}

	s.logger.LogUserAction(actor.ID, "share_page", map[string]interface{}{"page_id": id, "shared_with": userID})
	return page, nil
}

// UnsharePage revokes userID's read access
func (s *PageService) UnsharePage(ctx context.Context, actor *entities.User, id, userID string) (*entities.Page, error) {
	if _, err := s.load(ctx, actor, id, entities.PermCanEdit); err != nil {
		return nil, err
	}

	page, err := s.pages.Update(ctx, id, func(p *entities.Page) error {
		p.Unshare(userID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unshare page: %w", err)
	}
	return page, nil
}

// DeletePage removes a page
func (s *PageService) DeletePage(ctx context.Context, actor *entities.User, id string) (bool, error) {
	if _, err := s.load(ctx, actor, id, entities.PermCanDelete); err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.pages.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete page: %w", err)
	}
	return deleted, nil
}
