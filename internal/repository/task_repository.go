package repository

import (
	"context"
	"maps"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/task-analytics-api/internal/database"
	"github.com/yukikurage/task-analytics-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Find returns every task matching the filter
func (r *GormTaskRepository) Find(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := r.filtered(ctx, filter)

	switch filter.OrderBy {
	case OrderByUpdatedDesc:
		query = query.Order("tasks.updated_at DESC").Order("tasks.id DESC")
	case OrderByCompletedAsc:
		query = query.Order("tasks.completed_date ASC").Order("tasks.id ASC")
	default:
		query = query.Order("tasks.id ASC")
	}

	var tasks []models.Task
	if err := query.Scopes(database.Limit(filter.Limit)).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count counts tasks matching the filter
func (r *GormTaskRepository) Count(ctx context.Context, filter TaskFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

// UpdateStatus sets the status of all given tasks in one statement
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, ids []uint64, status models.TaskStatus, now time.Time) (int64, error) {
	fields := map[string]any{"status": status}
	if status == models.TaskStatusCompleted {
		fields["completed_date"] = gorm.Expr("COALESCE(completed_date, ?)", now)
	} else {
		fields["completed_date"] = nil
	}
	return r.UpdateFields(ctx, ids, fields)
}

// UpdateFields sets the same column values on all given tasks in one
// statement. The statement runs in its own transaction so it either applies
// to every matching row or to none.
func (r *GormTaskRepository) UpdateFields(ctx context.Context, ids []uint64, fields map[string]any) (int64, error) {
	values := maps.Clone(fields)
	if _, ok := values["updated_at"]; !ok {
		// Hooks are skipped below, so gorm will not stamp updated_at itself.
		values["updated_at"] = r.db.NowFunc()
	}

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Session(&gorm.Session{SkipHooks: true}).
			Model(&models.Task{}).
			Where("id IN ?", ids).
			Updates(values)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// DeleteMany soft deletes all given tasks in one statement
func (r *GormTaskRepository) DeleteMany(ctx context.Context, ids []uint64) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id IN ?", ids).Delete(&models.Task{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (r *GormTaskRepository) filtered(ctx context.Context, filter TaskFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Task{})

	if len(filter.Statuses) > 0 {
		query = query.Where("tasks.status IN ?", filter.Statuses)
	}
	if len(filter.ExcludeStatuses) > 0 {
		query = query.Where("tasks.status NOT IN ?", filter.ExcludeStatuses)
	}
	if len(filter.ProjectIDs) > 0 {
		query = query.Where("tasks.project_id IN ?", filter.ProjectIDs)
	}
	if filter.HasProject {
		query = query.Where("tasks.project_id IS NOT NULL")
	}
	if filter.HasCompletedDate {
		query = query.Where("tasks.completed_date IS NOT NULL")
	}
	if filter.HasHours {
		query = query.Where("tasks.estimated_hours IS NOT NULL AND tasks.actual_hours IS NOT NULL")
	}
	if filter.CreatedFrom != nil {
		query = query.Where("tasks.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.UpdatedFrom != nil {
		query = query.Where("tasks.updated_at >= ?", *filter.UpdatedFrom)
	}
	if filter.DueBefore != nil {
		query = query.Where("tasks.due_date < ?", *filter.DueBefore)
	}

	return query.Scopes(database.Between("tasks.completed_date", filter.CompletedFrom, filter.CompletedTo))
}
