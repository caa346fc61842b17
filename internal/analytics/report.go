package analytics

import (
	"bytes"
	"cmp"
	"encoding/json"
	"slices"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

// Cell is one key/value pair of a report record.
type Cell struct {
	Key   string
	Value any
}

// Record is one report row. Cells keep their insertion order, which is the
// column order of the rendered report.
type Record []Cell

// Keys returns the column names in order.
func (r Record) Keys() []string {
	keys := make([]string, len(r))
	for i, c := range r {
		keys[i] = c.Key
	}
	return keys
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, c := range r {
		if c.Key == key {
			return c.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(c.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type isoWeek struct {
	year int
	week int
}

// ProductivityReport groups completed tasks by the ISO week of their
// completion date, oldest week first.
func ProductivityReport(tasks []models.Task) []Record {
	completed := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.CompletedDate != nil {
			completed = append(completed, t)
		}
	}

	buckets := GroupBy(completed,
		func(t models.Task) isoWeek {
			year, week := t.CompletedDate.UTC().ISOWeek()
			return isoWeek{year: year, week: week}
		},
		Sum("totalHours", actualHours),
	)
	slices.SortFunc(buckets, func(a, b Bucket[isoWeek]) int {
		if c := cmp.Compare(a.Key.year, b.Key.year); c != 0 {
			return c
		}
		return cmp.Compare(a.Key.week, b.Key.week)
	})

	records := make([]Record, 0, len(buckets))
	for _, b := range buckets {
		total := b.Value("totalHours")
		records = append(records, Record{
			{Key: "week", Value: b.Key.week},
			{Key: "year", Value: b.Key.year},
			{Key: "tasksCompleted", Value: b.Count},
			{Key: "totalHours", Value: round(total, 2)},
			{Key: "avgHoursPerTask", Value: round(safeDivide(total, float64(b.Count)), 2)},
		})
	}
	return records
}

// ProjectPerformanceReport joins every project with its tasks. The
// onTimeCompletion column is null unless the project has both a completion
// date and a due date.
func ProjectPerformanceReport(projects []models.Project, tasks []models.Task) []Record {
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
		Sum("estimated", estimatedHours),
		Sum("actual", actualHours),
	) {
		byProject[b.Key] = b
	}

	sorted := slices.Clone(projects)
	slices.SortFunc(sorted, func(a, b models.Project) int { return cmp.Compare(a.ID, b.ID) })

	records := make([]Record, 0, len(sorted))
	for _, p := range sorted {
		b := byProject[p.ID]

		var onTime any
		if p.CompletedDate != nil && p.DueDate != nil {
			onTime = !p.CompletedDate.After(*p.DueDate)
		}

		records = append(records, Record{
			{Key: "projectId", Value: p.ID},
			{Key: "name", Value: p.Name},
			{Key: "status", Value: string(p.Status)},
			{Key: "totalTasks", Value: b.Count},
			{Key: "completedTasks", Value: int(b.Value("completed"))},
			{Key: "estimatedHours", Value: round(b.Value("estimated"), 2)},
			{Key: "actualHours", Value: round(b.Value("actual"), 2)},
			{Key: "onTimeCompletion", Value: onTime},
		})
	}
	return records
}

// TimeTrackingReport lists estimate variance per task. Tasks missing either
// figure, or estimated at zero hours, are left out.
func TimeTrackingReport(tasks []models.Task) []Record {
	tracked := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.EstimatedHours != nil && t.ActualHours != nil && *t.EstimatedHours != 0 {
			tracked = append(tracked, t)
		}
	}
	slices.SortFunc(tracked, func(a, b models.Task) int { return cmp.Compare(a.ID, b.ID) })

	records := make([]Record, 0, len(tracked))
	for _, t := range tracked {
		estimated, actual := *t.EstimatedHours, *t.ActualHours
		variance := actual - estimated
		records = append(records, Record{
			{Key: "taskId", Value: t.ID},
			{Key: "title", Value: t.Title},
			{Key: "status", Value: string(t.Status)},
			{Key: "estimatedHours", Value: estimated},
			{Key: "actualHours", Value: actual},
			{Key: "variance", Value: round(variance, 2)},
			{Key: "variancePercent", Value: round(variance/estimated*100, 2)},
		})
	}
	return records
}
