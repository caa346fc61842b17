package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// ProgressSummary is the completion rollup of one project.
type ProgressSummary struct {
	ProjectID          uint64               `json:"projectId"`
	Name               string               `json:"name"`
	Status             models.ProjectStatus `json:"status"`
	DueDate            *time.Time           `json:"dueDate"`
	TotalTasks         int                  `json:"totalTasks"`
	CompletedTasks     int                  `json:"completedTasks"`
	ProgressPercentage float64              `json:"progressPercentage"`
}

// ProjectProgress outer-joins projects with the tasks referencing them.
// Projects without tasks report zero progress. Results are ordered by due
// date, undated projects last.
func ProjectProgress(projects []models.Project, tasks []models.Task) []ProgressSummary {
	linked := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID != nil {
			linked = append(linked, t)
		}
	}

	byProject := make(map[uint64]Bucket[uint64])
	for _, b := range GroupBy(linked,
		func(t models.Task) uint64 { return *t.ProjectID },
		Sum("completed", isCompleted),
	) {
		byProject[b.Key] = b
	}

	result := make([]ProgressSummary, 0, len(projects))
	for _, p := range projects {
		summary := ProgressSummary{
			ProjectID: p.ID,
			Name:      p.Name,
			Status:    p.Status,
			DueDate:   p.DueDate,
		}
		if b, ok := byProject[p.ID]; ok {
			summary.TotalTasks = b.Count
			summary.CompletedTasks = int(b.Value("completed"))
		}
		summary.ProgressPercentage = Percentage(float64(summary.CompletedTasks), float64(summary.TotalTasks))
		result = append(result, summary)
	}

	slices.SortStableFunc(result, func(a, b ProgressSummary) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return cmp.Compare(a.ProjectID, b.ProjectID)
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
		if c := a.DueDate.Compare(*b.DueDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ProjectID, b.ProjectID)
	})
	return result
}
