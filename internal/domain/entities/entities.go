package entities

import (
	"errors"
	"strings"
	"time"
)

// Common errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUnknownPermission  = errors.New("unknown permission")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation failed")
)

// Collection names shared by every store backend
const (
	CollectionUsers      = "users"
	CollectionTasks      = "tasks"
	CollectionCategories = "categories"
	CollectionProjects   = "projects"
	CollectionPages      = "pages"
)

// Enums and types
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleEditor    Role = "editor"
	RoleViewer    Role = "viewer"
)

type TaskStatus string

const (
	TaskStatusPending        TaskStatus = "pending"
	TaskStatusInProgress     TaskStatus = "in_progress"
	TaskStatusInProgressDash TaskStatus = "in-progress"
	TaskStatusCompleted      TaskStatus = "completed"
	TaskStatusCancelled      TaskStatus = "cancelled"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on-hold"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

type BoxType string

const (
	BoxTypeText     BoxType = "text"
	BoxTypeImage    BoxType = "image"
	BoxTypeDocument BoxType = "document"
)

// Assignment origins recorded on Task.AssignedBy
const (
	AssignedBySelf  = "self"
	AssignedByAdmin = "admin"
)

// Defaults applied when a record omits them
const (
	DefaultCategoryColor = "#3B82F6"
	DefaultCategoryIcon  = "folder"
	DefaultProjectColor  = "#6366F1"
	DefaultProjectIcon   = "briefcase"
)

// User represents an account. Password holds the bcrypt hash and is never
// rendered to JSON.
type User struct {
	ID          string      `json:"_id" bson:"_id"`
	Name        string      `json:"name" bson:"name" validate:"required,max=100"`
	Email       string      `json:"email" bson:"email" validate:"required,email"`
	Password    string      `json:"-" bson:"password" validate:"required"`
	Role        Role        `json:"role" bson:"role" validate:"required,oneof=user admin moderator editor viewer"`
	Permissions Permissions `json:"permissions" bson:"permissions"`
	Avatar      string      `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio         string      `json:"bio,omitempty" bson:"bio,omitempty" validate:"max=500"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Task represents a to-do item owned by a single user
type Task struct {
	ID             string     `json:"_id" bson:"_id"`
	Title          string     `json:"title" bson:"title" validate:"required,max=200"`
	Description    string     `json:"description,omitempty" bson:"description,omitempty" validate:"max=1000"`
	Status         TaskStatus `json:"status" bson:"status" validate:"required,oneof=pending in_progress in-progress completed cancelled"`
	Priority       Priority   `json:"priority" bson:"priority" validate:"required,oneof=low medium high urgent"`
	DueDate        *time.Time `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	Category       string     `json:"category,omitempty" bson:"category,omitempty"`
	User           string     `json:"user" bson:"user" validate:"required"`
	AssignedBy     string     `json:"assignedBy" bson:"assignedBy"`
	AssignedToName string     `json:"assignedToName,omitempty" bson:"assignedToName,omitempty"`
	Tags           []string   `json:"tags" bson:"tags"`
	IsImportant    bool       `json:"isImportant" bson:"isImportant"`
	EstimatedTime  int        `json:"estimatedTime" bson:"estimatedTime" validate:"min=0"`
	ActualTime     int        `json:"actualTime" bson:"actualTime" validate:"min=0"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// Category groups tasks for a user. Deleting one leaves referencing tasks alone.
type Category struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name" validate:"required,max=30"`
	Color     string    `json:"color" bson:"color" validate:"omitempty,hexcolor"`
	Icon      string    `json:"icon" bson:"icon"`
	User      string    `json:"user" bson:"user" validate:"required"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProjectFile is an attachment stored by reference
type ProjectFile struct {
	ID         string    `json:"_id" bson:"_id"`
	Name       string    `json:"name" bson:"name" validate:"required"`
	Type       string    `json:"type" bson:"type"`
	Size       int64     `json:"size" bson:"size" validate:"min=0"`
	URL        string    `json:"url" bson:"url" validate:"required"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// Project represents a named body of work with attachments
type Project struct {
	ID          string        `json:"_id" bson:"_id"`
	Name        string        `json:"name" bson:"name" validate:"required,max=100"`
	Description string        `json:"description,omitempty" bson:"description,omitempty" validate:"max=1000"`
	Color       string        `json:"color" bson:"color" validate:"omitempty,hexcolor"`
	Icon        string        `json:"icon" bson:"icon"`
	Status      ProjectStatus `json:"status" bson:"status" validate:"required,oneof=active completed on-hold cancelled"`
	Files       []ProjectFile `json:"files" bson:"files" validate:"dive"`
	User        string        `json:"user" bson:"user" validate:"required"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// PageFile describes the file behind an image or document box
type PageFile struct {
	Name string `json:"name" bson:"name"`
	Type string `json:"type" bson:"type"`
	Size int64  `json:"size" bson:"size"`
	URL  string `json:"url" bson:"url"`
}

// Box is one block of a page layout
type Box struct {
	ID      string    `json:"_id" bson:"_id"`
	Type    BoxType   `json:"type" bson:"type" validate:"required,oneof=text image document"`
	Content string    `json:"content,omitempty" bson:"content,omitempty"`
	File    *PageFile `json:"file,omitempty" bson:"file,omitempty"`
}

// Page is an ordered list of boxes that can be shared with other users
type Page struct {
	ID         string    `json:"_id" bson:"_id"`
	Name       string    `json:"name" bson:"name" validate:"required,max=100"`
	Boxes      []Box     `json:"boxes" bson:"boxes" validate:"dive"`
	SharedWith []string  `json:"sharedWith" bson:"sharedWith"`
	User       string    `json:"user" bson:"user" validate:"required"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsKnown reports whether the role belongs to the fixed enum
func (r Role) IsKnown() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusInProgressDash, TaskStatusCompleted, TaskStatusCancelled:
		return true
	default:
		return false
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusCancelled:
		return true
	default:
		return false
	}
}

// CheckRequired is the minimal check applied to users when no remote schema
// is available: every identity field present and a known role.
func (u *User) CheckRequired() error {
	if u.Name == "" || u.Email == "" || u.Password == "" || u.Role == "" {
		return &ValidationError{Message: "name, email, password and role are required"}
	}
	if !u.Role.IsKnown() {
		return &ValidationError{Field: "role", Message: "role must be one of user, admin, moderator, editor, viewer"}
	}
	return nil
}

// ApplyStatus sets the status and keeps CompletedAt in step with it.
// CompletedAt is stamped on the first transition to completed and cleared on
// any transition away from it.
func (t *Task) ApplyStatus(status TaskStatus, now time.Time) {
	t.Status = status
	if status == TaskStatusCompleted {
		if t.CompletedAt == nil {
			ts := now
			t.CompletedAt = &ts
		}
		return
	}
	t.CompletedAt = nil
}

// IsOverdue reports whether the task has a due date before now and is not completed
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != TaskStatusCompleted
}

// IsInProgress accepts both spellings used by clients
func (t *Task) IsInProgress() bool {
	return t.Status == TaskStatusInProgress || t.Status == TaskStatusInProgressDash
}

// SetTags stores tags as a set, keeping first-seen order
func (t *Task) SetTags(tags []string) {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	t.Tags = out
}

// TaskStats summarises a user's tasks
type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Cancelled  int `json:"cancelled"`
	Overdue    int `json:"overdue"`
}

// ComputeTaskStats counts tasks by status. Overdue is independent of the
// status buckets.
func ComputeTaskStats(tasks []*Task, now time.Time) *TaskStats {
	stats := &TaskStats{Total: len(tasks)}
	for _, t := range tasks {
		switch {
		case t.Status == TaskStatusCompleted:
			stats.Completed++
		case t.Status == TaskStatusPending:
			stats.Pending++
		case t.IsInProgress():
			stats.InProgress++
		case t.Status == TaskStatusCancelled:
			stats.Cancelled++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
	}
	return stats
}

// HasFile reports whether the project has an attachment with the given id
func (p *Project) HasFile(fileID string) bool {
	for _, f := range p.Files {
		if f.ID == fileID {
			return true
		}
	}
	return false
}

// RemoveFile drops an attachment by id and reports whether it was present
func (p *Project) RemoveFile(fileID string) bool {
	for i, f := range p.Files {
		if f.ID == fileID {
			p.Files = append(p.Files[:i], p.Files[i+1:]...)
			return true
		}
	}
	return false
}

// IsSharedWith reports whether userID appears in SharedWith
func (p *Page) IsSharedWith(userID string) bool {
	for _, id := range p.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// Share adds userID to SharedWith once
func (p *Page) Share(userID string) {
	if userID == p.User || p.IsSharedWith(userID) {
		return
	}
	p.SharedWith = append(p.SharedWith, userID)
}

// Unshare removes userID from SharedWith and reports whether it was present
func (p *Page) Unshare(userID string) bool {
	for i, id := range p.SharedWith {
		if id == userID {
			p.SharedWith = append(p.SharedWith[:i], p.SharedWith[i+1:]...)
			return true
		}
	}
	return false
}
