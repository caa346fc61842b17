package services

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
)

var errConnectionLost = errors.New("connection lost")

// serviceSuite wires the services to repositories over in-memory SQLite.
type serviceSuite struct {
	suite.Suite
	db       *gorm.DB
	tasks    repository.TaskRepository
	projects repository.ProjectRepository
	ctx      context.Context
	now      time.Time
}

func (s *serviceSuite) SetupTest() {
	var err error

	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	s.Require().NoError(err)

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(s.db.AutoMigrate(&models.Project{}, &models.Task{}))

	s.tasks = repository.NewTaskRepository(s.db)
	s.projects = repository.NewProjectRepository(s.db)
	s.ctx = context.Background()
	s.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func (s *serviceSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

func (s *serviceSuite) clock() time.Time { return s.now }

func (s *serviceSuite) createTask(task models.Task) *models.Task {
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = s.now.AddDate(0, 0, -5)
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = s.now.AddDate(0, 0, -1)
	}
	s.Require().NoError(s.tasks.Create(s.ctx, &task))
	return &task
}

func (s *serviceSuite) createProject(project models.Project) *models.Project {
	if project.Status == "" {
		project.Status = models.ProjectStatusPlanning
	}
	s.Require().NoError(s.projects.Create(s.ctx, &project))
	return &project
}

func ptr[T any](v T) *T { return &v }

// failingTasks fails the reads selected by fail and delegates the rest.
type failingTasks struct {
	repository.TaskRepository
	fail func(repository.TaskFilter) bool
}

func (f failingTasks) Find(ctx context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	if f.fail(filter) {
		return nil, errConnectionLost
	}
	return f.TaskRepository.Find(ctx, filter)
}

func (f failingTasks) Count(ctx context.Context, filter repository.TaskFilter) (int64, error) {
	if f.fail(filter) {
		return 0, errConnectionLost
	}
	return f.TaskRepository.Count(ctx, filter)
}

// brokenProjects fails every call.
type brokenProjects struct {
	repository.ProjectRepository
}

func (brokenProjects) Find(context.Context, repository.ProjectFilter) ([]models.Project, error) {
	return nil, errConnectionLost
}

func (brokenProjects) Count(context.Context, repository.ProjectFilter) (int64, error) {
	return 0, errConnectionLost
}
