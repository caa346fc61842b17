package dto

import (
	"time"

	"github.com/yukikurage/task-analytics-api/internal/analytics"
	"github.com/yukikurage/task-analytics-api/internal/services"
)

// OverviewDTO represents the headline counts of the dashboard
type OverviewDTO struct {
	TotalTasks     int64 `json:"totalTasks"`
	CompletedTasks int64 `json:"completedTasks"`
	OverdueTasks   int64 `json:"overdueTasks"`
	TotalProjects  int64 `json:"totalProjects"`
	ActiveProjects int64 `json:"activeProjects"`
}

// TimeRangeDTO is the effective lookback window of a dashboard
type TimeRangeDTO struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Days      int       `json:"days"`
}

// WarningDTO names a dashboard section that could not be computed
type WarningDTO struct {
	Calculator string `json:"calculator"`
	Message    string `json:"message"`
}

// DashboardDTO represents the dashboard in API responses
type DashboardDTO struct {
	Overview          OverviewDTO                     `json:"overview"`
	TasksByStatus     []analytics.StatusBucket        `json:"tasksByStatus"`
	TasksByPriority   []analytics.PriorityBucket      `json:"tasksByPriority"`
	ProjectsByStatus  []analytics.ProjectStatusBucket `json:"projectsByStatus"`
	Productivity      []analytics.DailyProductivity   `json:"productivity"`
	PriorityBreakdown []analytics.PriorityBreakdown   `json:"priorityBreakdown"`
	OverdueTasks      []analytics.OverdueBucket       `json:"overdueTasks"`
	ProjectProgress   []analytics.ProgressSummary     `json:"projectProgress"`
	RecentActivity    []analytics.ActivityEntry       `json:"recentActivity"`
	Insights          analytics.PerformanceInsights   `json:"insights"`
	TimeRange         TimeRangeDTO                    `json:"timeRange"`
	Warnings          []WarningDTO                    `json:"warnings"`
}

// ToDashboardDTO converts a computed dashboard to DashboardDTO
func ToDashboardDTO(d *services.Dashboard) DashboardDTO {
	warnings := make([]WarningDTO, len(d.Warnings))
	for i, w := range d.Warnings {
		warnings[i] = WarningDTO{Calculator: w.Calculator, Message: w.Message}
	}

	return DashboardDTO{
		Overview: OverviewDTO{
			TotalTasks:     d.Overview.TotalTasks,
			CompletedTasks: d.Overview.CompletedTasks,
			OverdueTasks:   d.Overview.OverdueTasks,
			TotalProjects:  d.Overview.TotalProjects,
			ActiveProjects: d.Overview.ActiveProjects,
		},
		TasksByStatus:     d.TaskStatus,
		TasksByPriority:   d.TaskPriority,
		ProjectsByStatus:  d.ProjectStatus,
		Productivity:      d.Productivity,
		PriorityBreakdown: d.PriorityBreakdown,
		OverdueTasks:      d.Overdue,
		ProjectProgress:   d.ProjectProgress,
		RecentActivity:    d.RecentActivity,
		Insights:          d.Insights,
		TimeRange: TimeRangeDTO{
			StartDate: d.StartDate,
			EndDate:   d.EndDate,
			Days:      d.Days,
		},
		Warnings: warnings,
	}
}
