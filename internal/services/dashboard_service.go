package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yukikurage/task-analytics-api/internal/analytics"
	"github.com/yukikurage/task-analytics-api/internal/constants"
	"github.com/yukikurage/task-analytics-api/internal/metrics"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
)

// Dashboard section names, used in warnings, logs and metric labels.
const (
	SectionOverview      = "overview"
	SectionStatusRollups = "status-rollups"
	SectionProductivity  = "productivity"
	SectionCrossTab      = "priority-breakdown"
	SectionOverdue       = "overdue"
	SectionProgress      = "project-progress"
	SectionActivity      = "recent-activity"
)

// Overview holds the headline counts of the dashboard.
type Overview struct {
	TotalTasks     int64
	CompletedTasks int64
	OverdueTasks   int64
	TotalProjects  int64
	ActiveProjects int64
}

// Warning reports a dashboard section that could not be computed.
type Warning struct {
	Calculator string
	Message    string
}

// Dashboard is the composite analytics payload for one lookback window.
type Dashboard struct {
	StartDate         time.Time
	EndDate           time.Time
	Days              int
	Overview          Overview
	TaskStatus        []analytics.StatusBucket
	TaskPriority      []analytics.PriorityBucket
	ProjectStatus     []analytics.ProjectStatusBucket
	Productivity      []analytics.DailyProductivity
	PriorityBreakdown []analytics.PriorityBreakdown
	Overdue           []analytics.OverdueBucket
	ProjectProgress   []analytics.ProgressSummary
	RecentActivity    []analytics.ActivityEntry
	Insights          analytics.PerformanceInsights
	Warnings          []Warning
}

// DashboardService assembles the dashboard by running its sections
// concurrently against the store.
type DashboardService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	metrics     *metrics.Metrics
	timeout     time.Duration
	now         func() time.Time
}

// DashboardOption customises a DashboardService.
type DashboardOption func(*DashboardService)

// WithDashboardTimeout bounds the whole dashboard computation.
func WithDashboardTimeout(timeout time.Duration) DashboardOption {
	return func(s *DashboardService) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithDashboardMetrics sets the collectors the service reports to.
func WithDashboardMetrics(m *metrics.Metrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = m }
}

// WithDashboardClock overrides the clock, for tests.
func WithDashboardClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		timeout:     constants.DefaultDashboardTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateLookbackDays checks a caller-supplied window length.
func ValidateLookbackDays(days int) error {
	if days < constants.MinLookbackDays || days > constants.MaxLookbackDays {
		return invalidInput("days must be between %d and %d", constants.MinLookbackDays, constants.MaxLookbackDays)
	}
	return nil
}

type section struct {
	name string
	run  func(ctx context.Context) error
}

// GetDashboard computes every dashboard section for the last days days.
// A section that fails is left empty and reported in Warnings; the call
// fails only when the context ends or every section fails.
func (s *DashboardService) GetDashboard(ctx context.Context, days int) (*Dashboard, error) {
	if err := ValidateLookbackDays(days); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := zerolog.Ctx(ctx)
	started := time.Now()

	// One clock read for every section.
	now := s.now().UTC()
	since := now.AddDate(0, 0, -days)

	d := &Dashboard{
		StartDate:         since,
		EndDate:           now,
		Days:              days,
		TaskStatus:        []analytics.StatusBucket{},
		TaskPriority:      []analytics.PriorityBucket{},
		ProjectStatus:     []analytics.ProjectStatusBucket{},
		Productivity:      []analytics.DailyProductivity{},
		PriorityBreakdown: []analytics.PriorityBreakdown{},
		Overdue:           []analytics.OverdueBucket{},
		ProjectProgress:   []analytics.ProgressSummary{},
		RecentActivity:    []analytics.ActivityEntry{},
		Warnings:          []Warning{},
	}

	sections := []section{
		{SectionOverview, func(ctx context.Context) error {
			overview, err := s.overview(ctx, now)
			if err != nil {
				return err
			}
			d.Overview = overview
			return nil
		}},
		{SectionStatusRollups, func(ctx context.Context) error {
			tasks, err := s.taskRepo.Find(ctx, repository.TaskFilter{})
			if err != nil {
				return storeError("load tasks", err)
			}
			projects, err := s.projectRepo.Find(ctx, repository.ProjectFilter{})
			if err != nil {
				return storeError("load projects", err)
			}
			d.TaskStatus = analytics.TaskStatusRollup(tasks)
			d.TaskPriority = analytics.TaskPriorityRollup(tasks)
			d.ProjectStatus = analytics.ProjectStatusRollup(projects)
			return nil
		}},
		{SectionProductivity, func(ctx context.Context) error {
			tasks, err := s.taskRepo.Find(ctx, repository.TaskFilter{CreatedFrom: &since, HasCompletedDate: true})
			if err != nil {
				return storeError("load completed tasks", err)
			}
			d.Productivity = analytics.ProductivitySeries(tasks, since)
			return nil
		}},
		{SectionCrossTab, func(ctx context.Context) error {
			tasks, err := s.taskRepo.Find(ctx, repository.TaskFilter{})
			if err != nil {
				return storeError("load tasks", err)
			}
			d.PriorityBreakdown = analytics.PriorityStatusCrossTab(tasks)
			return nil
		}},
		{SectionOverdue, func(ctx context.Context) error {
			tasks, err := s.taskRepo.Find(ctx, repository.TaskFilter{DueBefore: &now, ExcludeStatuses: closedStatuses})
			if err != nil {
				return storeError("load overdue tasks", err)
			}
			d.Overdue = analytics.OverdueAnalysis(tasks, now)
			return nil
		}},
		{SectionProgress, func(ctx context.Context) error {
			projects, err := s.projectRepo.Find(ctx, repository.ProjectFilter{OrderByDueDate: true})
			if err != nil {
				return storeError("load projects", err)
			}
			tasks, err := s.taskRepo.Find(ctx, repository.TaskFilter{HasProject: true})
			if err != nil {
				return storeError("load project tasks", err)
			}
			d.ProjectProgress = analytics.ProjectProgress(projects, tasks)
			return nil
		}},
		{SectionActivity, func(ctx context.Context) error {
			tasks, err := s.taskRepo.Find(ctx, repository.TaskFilter{
				UpdatedFrom: &since,
				OrderBy:     repository.OrderByUpdatedDesc,
				Limit:       constants.ActivityFeedLimit,
			})
			if err != nil {
				return storeError("load recent tasks", err)
			}
			projects, err := s.referencedProjects(ctx, tasks)
			if err != nil {
				return err
			}
			d.RecentActivity = analytics.RecentActivity(tasks, projects, since, constants.ActivityFeedLimit)
			return nil
		}},
	}

	failures := s.runSections(ctx, sections)

	if err := ctx.Err(); err != nil {
		log.Warn().Err(err).Int("days", days).Msg("dashboard computation abandoned")
		return nil, err
	}

	if len(failures) == len(sections) {
		return nil, failures[0].err
	}
	for _, f := range failures {
		d.Warnings = append(d.Warnings, Warning{Calculator: f.name, Message: f.err.Error()})
	}

	d.Insights = analytics.SynthesizeInsights(d.TaskStatus, d.Productivity)

	log.Debug().
		Int("days", days).
		Int("warnings", len(d.Warnings)).
		Dur("duration", time.Since(started)).
		Msg("dashboard assembled")

	return d, nil
}

var closedStatuses = []models.TaskStatus{models.TaskStatusCompleted, models.TaskStatusCancelled}

type sectionFailure struct {
	name string
	err  error
}

// runSections runs every section concurrently and collects failures in
// section order. Sections write disjoint fields of the dashboard.
func (s *DashboardService) runSections(ctx context.Context, sections []section) []sectionFailure {
	log := zerolog.Ctx(ctx)
	errs := make([]error, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, sec := range sections {
		g.Go(func() error {
			started := time.Now()
			err := sec.run(gctx)
			s.metrics.ObserveCalculator(sec.name, err != nil, time.Since(started))
			errs[i] = err
			// A failed section must not cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	failures := make([]sectionFailure, 0)
	for i, err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			s.metrics.IncCalculatorFailure(sections[i].name)
			log.Warn().Err(err).Str("calculator", sections[i].name).Msg("dashboard section failed")
		}
		failures = append(failures, sectionFailure{name: sections[i].name, err: err})
	}
	return failures
}

func (s *DashboardService) overview(ctx context.Context, now time.Time) (Overview, error) {
	var o Overview
	var err error

	if o.TotalTasks, err = s.taskRepo.Count(ctx, repository.TaskFilter{}); err != nil {
		return o, storeError("count tasks", err)
	}
	if o.CompletedTasks, err = s.taskRepo.Count(ctx, repository.TaskFilter{
		Statuses: []models.TaskStatus{models.TaskStatusCompleted},
	}); err != nil {
		return o, storeError("count completed tasks", err)
	}
	if o.OverdueTasks, err = s.taskRepo.Count(ctx, repository.TaskFilter{
		DueBefore:       &now,
		ExcludeStatuses: closedStatuses,
	}); err != nil {
		return o, storeError("count overdue tasks", err)
	}
	if o.TotalProjects, err = s.projectRepo.Count(ctx, repository.ProjectFilter{}); err != nil {
		return o, storeError("count projects", err)
	}
	if o.ActiveProjects, err = s.projectRepo.Count(ctx, repository.ProjectFilter{
		Statuses: []models.ProjectStatus{models.ProjectStatusInProgress},
	}); err != nil {
		return o, storeError("count active projects", err)
	}
	return o, nil
}

// referencedProjects loads the projects the given tasks point at.
func (s *DashboardService) referencedProjects(ctx context.Context, tasks []models.Task) ([]models.Project, error) {
	ids := make([]uint64, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID != nil {
			ids = append(ids, *t.ProjectID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	projects, err := s.projectRepo.Find(ctx, repository.ProjectFilter{IDs: uniqueUint64(ids)})
	if err != nil {
		return nil, storeError("load activity projects", err)
	}
	return projects, nil
}
