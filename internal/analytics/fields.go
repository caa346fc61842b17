package analytics

import (
	"slices"
	"time"

	"github.com/yukikurage/task-analytics-api/internal/constants"
	"github.com/yukikurage/task-analytics-api/internal/models"
)

func estimatedHours(t models.Task) (float64, bool) {
	if t.EstimatedHours == nil {
		return 0, false
	}
	return *t.EstimatedHours, true
}

func actualHours(t models.Task) (float64, bool) {
	if t.ActualHours == nil {
		return 0, false
	}
	return *t.ActualHours, true
}

func hasTrackedHours(t models.Task) bool {
	return t.EstimatedHours != nil && t.ActualHours != nil
}

// hoursVariance is positive when a task overran its estimate.
func hoursVariance(t models.Task) (float64, bool) {
	if !hasTrackedHours(t) {
		return 0, false
	}
	return *t.ActualHours - *t.EstimatedHours, true
}

func isCompleted(t models.Task) (float64, bool) {
	if t.Status == models.TaskStatusCompleted {
		return 1, true
	}
	return 0, true
}

func dayKey(t time.Time) string {
	return t.UTC().Format(constants.DayLayout)
}

// rank orders known enum values by their declared position and unknown
// values after them.
func rank[E ~string](order []E, value E) int {
	if i := slices.Index(order, value); i >= 0 {
		return i
	}
	return len(order)
}

func compareEnum[E ~string](order []E, a, b E) int {
	ra, rb := rank(order, a), rank(order, b)
	if ra != rb {
		return ra - rb
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
