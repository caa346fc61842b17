package database

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-analytics-api/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Task{}))
	return db
}

func TestNullsLast_TiebreakFollowsNullOrdering(t *testing.T) {
	db := openTestDB(t)

	var projects []models.Project
	stmt := db.Session(&gorm.Session{DryRun: true}).
		Scopes(NullsLast("projects.due_date", "projects.id ASC")).
		Find(&projects).Statement
	sql := stmt.SQL.String()

	nullsAt := strings.Index(sql, "CASE WHEN projects.due_date IS NULL")
	idAt := strings.Index(sql, "projects.id ASC")
	require.GreaterOrEqual(t, nullsAt, 0, sql)
	require.GreaterOrEqual(t, idAt, 0, sql)
	assert.Less(t, nullsAt, idAt, sql)
}

func TestNullsLast_OrdersRows(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)
	later := now.AddDate(0, 1, 0)
	sooner := now.AddDate(0, 0, 7)

	for _, p := range []models.Project{
		{Name: "undated", Status: models.ProjectStatusPlanning},
		{Name: "later", Status: models.ProjectStatusPlanning, DueDate: &later},
		{Name: "sooner", Status: models.ProjectStatusPlanning, DueDate: &sooner},
		{Name: "also undated", Status: models.ProjectStatusPlanning},
	} {
		require.NoError(t, db.Create(&p).Error)
	}

	var projects []models.Project
	require.NoError(t, db.Scopes(NullsLast("projects.due_date", "projects.id ASC")).Find(&projects).Error)

	names := make([]string, len(projects))
	for i, p := range projects {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"sooner", "later", "undated", "also undated"}, names)
}
