package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

func TestRecord_MarshalJSONKeepsOrder(t *testing.T) {
	record := Record{{Key: "zeta", Value: 1}, {Key: "alpha", Value: "a"}, {Key: "mid", Value: nil}}

	data, err := json.Marshal(record)

	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"a","mid":null}`, string(data))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, record.Keys())
}

func TestProductivityReport(t *testing.T) {
	mon := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)        // 2024-W01
	nextWeek := mon.AddDate(0, 0, 7)                           // 2024-W02
	lastYear := time.Date(2023, 12, 31, 10, 0, 0, 0, time.UTC) // 2023-W52

	a := task(1, models.TaskStatusCompleted, models.PriorityLow)
	a.CompletedDate, a.ActualHours = &mon, ptr(2.0)
	b := task(2, models.TaskStatusCompleted, models.PriorityLow)
	b.CompletedDate, b.ActualHours = ptr(mon.Add(time.Hour)), ptr(3.0)
	c := task(3, models.TaskStatusCompleted, models.PriorityLow)
	c.CompletedDate = &nextWeek
	d := task(4, models.TaskStatusCompleted, models.PriorityLow)
	d.CompletedDate, d.ActualHours = &lastYear, ptr(1.0)

	records := ProductivityReport([]models.Task{c, a, d, b})

	require.Len(t, records, 3)
	assert.Equal(t, Record{
		{Key: "week", Value: 52}, {Key: "year", Value: 2023}, {Key: "tasksCompleted", Value: 1},
		{Key: "totalHours", Value: 1.0}, {Key: "avgHoursPerTask", Value: 1.0},
	}, records[0])
	assert.Equal(t, Record{
		{Key: "week", Value: 1}, {Key: "year", Value: 2024}, {Key: "tasksCompleted", Value: 2},
		{Key: "totalHours", Value: 5.0}, {Key: "avgHoursPerTask", Value: 2.5},
	}, records[1])
	week, _ := records[2].Get("week")
	assert.Equal(t, 2, week)
}

func TestProjectPerformanceReport(t *testing.T) {
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	projects := []models.Project{
		{ID: 2, Name: "Late", Status: models.ProjectStatusCompleted, DueDate: &due, CompletedDate: ptr(due.AddDate(0, 0, 1))},
		{ID: 1, Name: "Open", Status: models.ProjectStatusInProgress, DueDate: &due},
		{ID: 3, Name: "Empty", Status: models.ProjectStatusCompleted, DueDate: &due, CompletedDate: &due},
	}
	t1 := task(1, models.TaskStatusCompleted, models.PriorityLow)
	t1.ProjectID, t1.EstimatedHours, t1.ActualHours = ptr(uint64(2)), ptr(3.0), ptr(4.0)
	t2 := task(2, models.TaskStatusTodo, models.PriorityLow)
	t2.ProjectID, t2.EstimatedHours = ptr(uint64(2)), ptr(2.0)

	records := ProjectPerformanceReport(projects, []models.Task{t1, t2})

	require.Len(t, records, 3)

	open := records[0]
	onTime, ok := open.Get("onTimeCompletion")
	assert.True(t, ok)
	assert.Nil(t, onTime, "undetermined punctuality stays null")

	late := records[1]
	assert.Equal(t, Record{
		{Key: "projectId", Value: uint64(2)},
		{Key: "name", Value: "Late"},
		{Key: "status", Value: "completed"},
		{Key: "totalTasks", Value: 2},
		{Key: "completedTasks", Value: 1},
		{Key: "estimatedHours", Value: 5.0},
		{Key: "actualHours", Value: 4.0},
		{Key: "onTimeCompletion", Value: false},
	}, late)

	empty := records[2]
	total, _ := empty.Get("totalTasks")
	assert.Equal(t, 0, total)
	onTime, _ = empty.Get("onTimeCompletion")
	assert.Equal(t, true, onTime)
}

func TestTimeTrackingReport_ExcludesZeroEstimates(t *testing.T) {
	zero := task(1, models.TaskStatusCompleted, models.PriorityLow)
	zero.EstimatedHours, zero.ActualHours = ptr(0.0), ptr(5.0)
	missing := task(2, models.TaskStatusCompleted, models.PriorityLow)
	missing.EstimatedHours = ptr(3.0)
	over := task(3, models.TaskStatusCompleted, models.PriorityLow)
	over.Title = "Over"
	over.EstimatedHours, over.ActualHours = ptr(4.0), ptr(5.0)

	records := TimeTrackingReport([]models.Task{over, missing, zero})

	require.Len(t, records, 1)
	assert.Equal(t, Record{
		{Key: "taskId", Value: uint64(3)},
		{Key: "title", Value: "Over"},
		{Key: "status", Value: "completed"},
		{Key: "estimatedHours", Value: 4.0},
		{Key: "actualHours", Value: 5.0},
		{Key: "variance", Value: 1.0},
		{Key: "variancePercent", Value: 25.0},
	}, records[0])
}

func TestRenderCSV(t *testing.T) {
	records := []Record{
		{{Key: "id", Value: uint64(1)}, {Key: "name", Value: `Say "hi"`}, {Key: "ok", Value: true}, {Key: "hours", Value: 2.5}},
		{{Key: "id", Value: uint64(2)}, {Key: "name", Value: "a,b"}, {Key: "ok", Value: nil}, {Key: "hours", Value: 0.0}},
	}

	out := RenderCSV(records)

	assert.Equal(t, "id,name,ok,hours\n"+
		`1,"Say ""hi""",true,2.5`+"\n"+
		`2,"a,b",,0`+"\n", string(out))
}

func TestRenderCSV_Empty(t *testing.T) {
	assert.Empty(t, RenderCSV(nil))
}
