package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// Migrate creates or updates the task and project tables and their
// analytics indexes.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")
	if err := db.AutoMigrate(&models.Project{}, &models.Task{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db, log); err != nil {
		return err
	}
	log.Info().Msg("database migrations completed")
	return nil
}

// AddIndexes adds the indexes the dashboard and report queries filter and
// sort on. Existing indexes are skipped.
func AddIndexes(db *gorm.DB, log zerolog.Logger) error {
	indexes := []struct {
		model   any
		table   string
		name    string
		columns string
	}{
		// Task indexes for filtering and sorting
		{&models.Task{}, "tasks", "idx_tasks_status", "status"},
		{&models.Task{}, "tasks", "idx_tasks_priority_status", "priority, status"},
		{&models.Task{}, "tasks", "idx_tasks_project_id", "project_id"},
		{&models.Task{}, "tasks", "idx_tasks_due_date", "due_date"},
		{&models.Task{}, "tasks", "idx_tasks_completed_date", "completed_date"},
		{&models.Task{}, "tasks", "idx_tasks_created_at", "created_at"},
		{&models.Task{}, "tasks", "idx_tasks_updated_at", "updated_at"},

		// Project indexes
		{&models.Project{}, "projects", "idx_projects_status", "status"},
		{&models.Project{}, "projects", "idx_projects_due_date", "due_date"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			log.Debug().Str("index", idx.name).Msg("index already exists, skipping")
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info().Str("index", idx.name).Str("table", idx.table).Str("columns", idx.columns).Msg("created index")
	}

	return nil
}
