package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/task-analytics-api/internal/database"
	"github.com/yukikurage/task-analytics-api/internal/models"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Find returns every project matching the filter
func (r *GormProjectRepository) Find(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	query := r.filtered(ctx, filter)
	if filter.OrderByDueDate {
		query = query.Scopes(database.NullsLast("projects.due_date", "projects.id ASC"))
	} else {
		query = query.Order("projects.id ASC")
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Count counts projects matching the filter
func (r *GormProjectRepository) Count(ctx context.Context, filter ProjectFilter) (int64, error) {
	var count int64
	err := r.filtered(ctx, filter).Count(&count).Error
	return count, err
}

func (r *GormProjectRepository) filtered(ctx context.Context, filter ProjectFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Project{})

	if len(filter.IDs) > 0 {
		query = query.Where("projects.id IN ?", filter.IDs)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("projects.status IN ?", filter.Statuses)
	}

	return query.Scopes(database.Between("projects.completed_date", filter.CompletedFrom, filter.CompletedTo))
}
