package analytics

import (
	"cmp"
	"slices"
	"time"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// ActivityEntry is one row of the recent activity feed.
type ActivityEntry struct {
	TaskID      uint64            `json:"taskId"`
	Title       string            `json:"title"`
	Status      models.TaskStatus `json:"status"`
	Priority    models.Priority   `json:"priority"`
	UpdatedAt   time.Time         `json:"updatedAt"`
	ProjectName string            `json:"projectName"`
}

// RecentActivity returns up to limit tasks updated at or after since, most
// recent first, with the name of the referenced project. Missing or
// dangling project references yield an empty name.
func RecentActivity(tasks []models.Task, projects []models.Project, since time.Time, limit int) []ActivityEntry {
	names := make(map[uint64]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}

	recent := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.UpdatedAt.Before(since) {
			recent = append(recent, t)
		}
	}
	slices.SortFunc(recent, func(a, b models.Task) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}

	feed := make([]ActivityEntry, 0, len(recent))
	for _, t := range recent {
		entry := ActivityEntry{
			TaskID:    t.ID,
			Title:     t.Title,
			Status:    t.Status,
			Priority:  t.Priority,
			UpdatedAt: t.UpdatedAt,
		}
		if t.ProjectID != nil {
			entry.ProjectName = names[*t.ProjectID]
		}
		feed = append(feed, entry)
	}
	return feed
}
