package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// TaskOrder selects the sort applied by TaskRepository.Find.
type TaskOrder int

const (
	// OrderByID sorts ascending by primary key.
	OrderByID TaskOrder = iota
	// OrderByUpdatedDesc sorts most recently updated first.
	OrderByUpdatedDesc
	// OrderByCompletedAsc sorts by completion time, oldest first.
	OrderByCompletedAsc
)

// TaskFilter holds filtering options for reading tasks. Zero values mean
// "no constraint".
type TaskFilter struct {
	Statuses         []models.TaskStatus
	ExcludeStatuses  []models.TaskStatus
	ProjectIDs       []uint64
	HasProject       bool
	HasCompletedDate bool
	HasHours         bool
	CreatedFrom      *time.Time
	UpdatedFrom      *time.Time
	CompletedFrom    *time.Time
	CompletedTo      *time.Time
	DueBefore        *time.Time
	OrderBy          TaskOrder
	Limit            int
}

// ProjectFilter holds filtering options for reading projects.
type ProjectFilter struct {
	IDs           []uint64
	Statuses      []models.ProjectStatus
	CompletedFrom *time.Time
	CompletedTo   *time.Time
	// OrderByDueDate sorts by due date ascending, undated projects last.
	OrderByDueDate bool
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task. The analytics API is read-mostly and never
	// inserts; Create and FindByID remain part of the store surface for
	// seeding and for reading back rows after a bulk operation.
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// Find returns every task matching the filter
	Find(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Count counts tasks matching the filter
	Count(ctx context.Context, filter TaskFilter) (int64, error)

	// UpdateStatus sets the status of all given tasks in one statement and
	// keeps completed_date consistent with the new status
	UpdateStatus(ctx context.Context, ids []uint64, status models.TaskStatus, now time.Time) (int64, error)

	// UpdateFields sets the same column values on all given tasks in one statement
	UpdateFields(ctx context.Context, ids []uint64, fields map[string]any) (int64, error)

	// DeleteMany soft deletes all given tasks in one statement
	DeleteMany(ctx context.Context, ids []uint64) (int64, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project. Like TaskRepository.Create it is used to
	// seed the store, not by the HTTP handlers.
	Create(ctx context.Context, project *models.Project) error

	// Find returns every project matching the filter
	Find(ctx context.Context, filter ProjectFilter) ([]models.Project, error)

	// Count counts projects matching the filter
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
}
