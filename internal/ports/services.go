package ports

import (
	"context"
	"net/http"
	"time"

	"github.com/SmriteePoudel/ProductivityApp-sub000/internal/domain/entities"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GenerateToken(user *entities.User) (string, error)
	VerifyToken(token string) *Claims
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) bool
	SessionCookie(token string) *http.Cookie
	ClearSessionCookie() *http.Cookie
}

// UserService interface for user management operations
type UserService interface {
	CreateUser(ctx context.Context, actor *entities.User, req CreateUserRequest) (*entities.User, error)
	GetUser(ctx context.Context, id string) (*entities.User, error)
	ListUsers(ctx context.Context) ([]*entities.User, error)
	UpdateUser(ctx context.Context, actor *entities.User, id string, req UpdateUserRequest) (*entities.User, error)
	UpdateProfile(ctx context.Context, actor *entities.User, req UpdateProfileRequest) (*entities.User, error)
	ResetPassword(ctx context.Context, actor *entities.User, id, password string) error
	DeleteUser(ctx context.Context, actor *entities.User, id string) (bool, error)
	Seed(ctx context.Context, seeds []SeedUser) (*SeedReport, error)
}

// TaskService interface for task operations
type TaskService interface {
	CreateTask(ctx context.Context, actor *entities.User, req CreateTaskRequest) (*entities.Task, error)
	AllocateTask(ctx context.Context, actor *entities.User, req AllocateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, actor *entities.User, id string) (*entities.Task, error)
	ListTasks(ctx context.Context, actor *entities.User, filter TaskFilter) ([]*entities.Task, error)
	UpdateTask(ctx context.Context, actor *entities.User, id string, req UpdateTaskRequest) (*entities.Task, error)
	UpdateStatus(ctx context.Context, actor *entities.User, id string, status entities.TaskStatus) (*entities.Task, error)
	UpdatePriority(ctx context.Context, actor *entities.User, id string, priority entities.Priority) (*entities.Task, error)
	DeleteTask(ctx context.Context, actor *entities.User, id string) (bool, error)
	Stats(ctx context.Context, actor *entities.User) (*entities.TaskStats, error)
}

// CategoryService interface for category operations
type CategoryService interface {
	CreateCategory(ctx context.Context, actor *entities.User, req CreateCategoryRequest) (*entities.Category, error)
	ListCategories(ctx context.Context, actor *entities.User) ([]*entities.Category, error)
	UpdateCategory(ctx context.Context, actor *entities.User, id string, req UpdateCategoryRequest) (*entities.Category, error)
	DeleteCategory(ctx context.Context, actor *entities.User, id string) (bool, error)
}

// ProjectService interface for project operations
type ProjectService interface {
	CreateProject(ctx context.Context, actor *entities.User, req CreateProjectRequest) (*entities.Project, error)
	GetProject(ctx context.Context, actor *entities.User, id string) (*entities.Project, error)
	ListProjects(ctx context.Context, actor *entities.User) ([]*entities.Project, error)
	UpdateProject(ctx context.Context, actor *entities.User, id string, req UpdateProjectRequest) (*entities.Project, error)
	AddFile(ctx context.Context, actor *entities.User, id string, file FileInput) (*entities.Project, error)
	RemoveFile(ctx context.Context, actor *entities.User, id, fileID string) (*entities.Project, error)
	DeleteProject(ctx context.Context, actor *entities.User, id string) (bool, error)
}

// PageService interface for page operations
type PageService interface {
	CreatePage(ctx context.Context, actor *entities.User, req CreatePageRequest) (*entities.Page, error)
	GetPage(ctx context.Context, actor *entities.User, id string) (*entities.Page, error)
	ListPages(ctx context.Context, actor *entities.User) ([]*entities.Page, error)
	ListSharedPages(ctx context.Context, actor *entities.User) ([]*entities.Page, error)
	UpdatePage(ctx context.Context, actor *entities.User, id string, req UpdatePageRequest) (*entities.Page, error)
	SharePage(ctx context.Context, actor *entities.User, id, userID string) (*entities.Page, error)
	UnsharePage(ctx context.Context, actor *entities.User, id, userID string) (*entities.Page, error)
	DeletePage(ctx context.Context, actor *entities.User, id string) (bool, error)
}

// Auth related types
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string         `json:"token"`
	User  *entities.User `json:"user"`
}

// Claims carried by a session token
type Claims struct {
	UserID string        `json:"userId"`
	Email  string        `json:"email"`
	Role   entities.Role `json:"role"`
	Name   string        `json:"name"`
}

// User related types
type CreateUserRequest struct {
	Name        string                       `json:"name" validate:"required,max=100"`
	Email       string                       `json:"email" validate:"required,email"`
	Password    string                       `json:"password" validate:"required,min=6"`
	Role        entities.Role                `json:"role" validate:"required"`
	Permissions entities.PermissionOverrides `json:"permissions"`
	Avatar      string                       `json:"avatar"`
	Bio         string                       `json:"bio" validate:"max=500"`
}

type UpdateUserRequest struct {
	Name        *string                      `json:"name" validate:"omitempty,max=100"`
	Email       *string                      `json:"email" validate:"omitempty,email"`
	Role        *entities.Role               `json:"role"`
	Permissions entities.PermissionOverrides `json:"permissions"`
	Avatar      *string                      `json:"avatar"`
	Bio         *string                      `json:"bio" validate:"omitempty,max=500"`
}

type UpdateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,max=100"`
	Avatar          *string `json:"avatar"`
	Bio             *string `json:"bio" validate:"omitempty,max=500"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     *string `json:"newPassword" validate:"omitempty,min=6"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// SeedUser is one entry of a seed file
type SeedUser struct {
	Name        string                       `json:"name" yaml:"name"`
	Email       string                       `json:"email" yaml:"email"`
	Password    string                       `json:"password" yaml:"password"`
	Role        entities.Role                `json:"role" yaml:"role"`
	Permissions entities.PermissionOverrides `json:"permissions" yaml:"permissions"`
}

// SeedReport lists what a seeding run did
type SeedReport struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// Task related types
type CreateTaskRequest struct {
	Title         string              `json:"title" validate:"required,max=200"`
	Description   string              `json:"description" validate:"max=1000"`
	Status        entities.TaskStatus `json:"status"`
	Priority      entities.Priority   `json:"priority"`
	DueDate       *time.Time          `json:"dueDate"`
	Category      string              `json:"category"`
	Tags          []string            `json:"tags"`
	IsImportant   bool                `json:"isImportant"`
	EstimatedTime int                 `json:"estimatedTime" validate:"min=0"`
	ActualTime    int                 `json:"actualTime" validate:"min=0"`
}

// AllocateTaskRequest creates a task on behalf of another user
type AllocateTaskRequest struct {
	CreateTaskRequest
	UserID string `json:"userId" validate:"required"`
}

type UpdateTaskRequest struct {
	Title         *string              `json:"title" validate:"omitempty,max=200"`
	Description   *string              `json:"description" validate:"omitempty,max=1000"`
	Status        *entities.TaskStatus `json:"status"`
	Priority      *entities.Priority   `json:"priority"`
	DueDate       *time.Time           `json:"dueDate"`
	ClearDueDate  bool                 `json:"clearDueDate"`
	Category      *string              `json:"category"`
	Tags          []string             `json:"tags"`
	IsImportant   *bool                `json:"isImportant"`
	EstimatedTime *int                 `json:"estimatedTime" validate:"omitempty,min=0"`
	ActualTime    *int                 `json:"actualTime" validate:"omitempty,min=0"`
}

type TaskFilter struct {
	Status    entities.TaskStatus
	Priority  entities.Priority
	Category  string
	Important *bool
}

// Category related types
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,max=30"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=30"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
	Icon  *string `json:"icon"`
}

// Project related types
type FileInput struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
	Size int64  `json:"size" validate:"min=0"`
	URL  string `json:"url" validate:"required"`
}

type CreateProjectRequest struct {
	Name        string                 `json:"name" validate:"required,max=100"`
	Description string                 `json:"description" validate:"max=1000"`
	Color       string                 `json:"color" validate:"omitempty,hexcolor"`
	Icon        string                 `json:"icon"`
	Status      entities.ProjectStatus `json:"status"`
	Files       []FileInput            `json:"files" validate:"dive"`
}

type UpdateProjectRequest struct {
	Name        *string                 `json:"name" validate:"omitempty,max=100"`
	Description *string                 `json:"description" validate:"omitempty,max=1000"`
	Color       *string                 `json:"color" validate:"omitempty,hexcolor"`
	Icon        *string                 `json:"icon"`
	Status      *entities.ProjectStatus `json:"status"`
}

// Page related types
type BoxInput struct {
	Type    entities.BoxType   `json:"type" validate:"required"`
	Content string             `json:"content"`
	File    *entities.PageFile `json:"file"`
}

type CreatePageRequest struct {
	Name  string     `json:"name" validate:"required,max=100"`
	Boxes []BoxInput `json:"boxes" validate:"dive"`
}

type UpdatePageRequest struct {
	Name  *string     `json:"name" validate:"omitempty,max=100"`
	Boxes *[]BoxInput `json:"boxes"`
}

type SharePageRequest struct {
	UserID string `json:"userId" validate:"required"`
}
