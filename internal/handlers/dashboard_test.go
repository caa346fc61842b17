package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
	"github.com/yukikurage/task-analytics-api/internal/services"
)

// DashboardHandlerTestSuite defines the test suite for DashboardHandler
type DashboardHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *DashboardHandler
	router  *gin.Engine
}

// SetupTest runs before each test
func (suite *DashboardHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(suite.db.AutoMigrate(&models.Project{}, &models.Task{}))

	taskRepo := repository.NewTaskRepository(suite.db)
	projectRepo := repository.NewProjectRepository(suite.db)
	suite.handler = NewDashboardHandler(
		services.NewDashboardService(taskRepo, projectRepo),
		services.NewReportService(taskRepo, projectRepo, nil),
		services.NewBulkService(taskRepo, nil),
	)

	gin.SetMode(gin.TestMode)

	suite.router = gin.New()
	suite.router.GET("/api/dashboard", suite.handler.GetDashboard)
	suite.router.GET("/api/dashboard/reports/:type", suite.handler.GetReport)
	suite.router.POST("/api/dashboard/bulk-update", suite.handler.BulkUpdate)
}

// TearDownTest runs after each test
func (suite *DashboardHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *DashboardHandlerTestSuite) createTask(task models.Task) *models.Task {
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	suite.Require().NoError(suite.db.Create(&task).Error)
	return &task
}

func (suite *DashboardHandlerTestSuite) do(method, url string, body any) (*httptest.ResponseRecorder, map[string]any) {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func (suite *DashboardHandlerTestSuite) TestGetDashboard_Success() {
	suite.createTask(models.Task{Title: "A"})
	suite.createTask(models.Task{Title: "B", Status: models.TaskStatusCompleted})
	suite.createTask(models.Task{Title: "C", Status: models.TaskStatusCompleted})

	w, body := suite.do(http.MethodGet, "/api/dashboard?days=7", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(true, body["success"])

	data := body["data"].(map[string]any)
	insights := data["insights"].(map[string]any)
	suite.Equal(66.7, insights["completionRate"])

	timeRange := data["timeRange"].(map[string]any)
	suite.Equal(float64(7), timeRange["days"])

	overview := data["overview"].(map[string]any)
	suite.Equal(float64(3), overview["totalTasks"])
	suite.Len(data["recentActivity"], 3)
	suite.Empty(data["warnings"])
}

func (suite *DashboardHandlerTestSuite) TestGetDashboard_InvalidDays() {
	for _, days := range []string{"0", "400", "ten"} {
		w, body := suite.do(http.MethodGet, "/api/dashboard?days="+days, nil)

		suite.Equal(http.StatusBadRequest, w.Code, days)
		suite.Equal(false, body["success"])
		suite.Equal("INVALID_INPUT", body["error"])
	}
}

func (suite *DashboardHandlerTestSuite) TestGetReport_UnknownType() {
	w, body := suite.do(http.MethodGet, "/api/dashboard/reports/burndown", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
	details := body["details"].(map[string]any)
	suite.Equal([]any{"productivity", "project-performance", "time-tracking"}, details["validValues"])
}

func (suite *DashboardHandlerTestSuite) TestGetReport_BadDate() {
	w, _ := suite.do(http.MethodGet, "/api/dashboard/reports/productivity?startDate=yesterday", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *DashboardHandlerTestSuite) TestGetReport_JSON() {
	suite.createTask(models.Task{Title: "Tracked", EstimatedHours: ptr(2.0), ActualHours: ptr(1.0)})

	w, body := suite.do(http.MethodGet, "/api/dashboard/reports/time-tracking", nil)

	suite.Equal(http.StatusOK, w.Code)
	records := body["data"].([]any)
	suite.Require().Len(records, 1)
	record := records[0].(map[string]any)
	suite.Equal(-50.0, record["variancePercent"])

	meta := body["meta"].(map[string]any)
	suite.Equal("time-tracking", meta["type"])
	suite.Equal(float64(1), meta["recordCount"])
}

func (suite *DashboardHandlerTestSuite) TestGetReport_CSV() {
	suite.createTask(models.Task{Title: "Tracked", EstimatedHours: ptr(4.0), ActualHours: ptr(5.0)})

	w, _ := suite.do(http.MethodGet, "/api/dashboard/reports/time-tracking?format=csv", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(`attachment; filename="time-tracking-report.csv"`, w.Header().Get("Content-Disposition"))
	suite.Contains(w.Header().Get("Content-Type"), "text/csv")
	suite.True(bytes.HasPrefix(w.Body.Bytes(), []byte("taskId,title,status,estimatedHours,actualHours,variance,variancePercent\n")))
	suite.Contains(w.Body.String(), `"Tracked","todo",4,5,1,25`)
}

func (suite *DashboardHandlerTestSuite) TestGetReport_EmptyCSV() {
	w, _ := suite.do(http.MethodGet, "/api/dashboard/reports/productivity?format=csv", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Empty(w.Body.String())
}

func (suite *DashboardHandlerTestSuite) TestBulkUpdate_Success() {
	a := suite.createTask(models.Task{Title: "A"})
	c := suite.createTask(models.Task{Title: "C"})

	w, body := suite.do(http.MethodPost, "/api/dashboard/bulk-update", map[string]any{
		"taskIds":   []uint64{a.ID, c.ID + 50, c.ID},
		"operation": "update-status",
		"updates":   map[string]any{"status": "completed"},
	})

	suite.Equal(http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	suite.Equal("update-status", data["operation"])
	suite.Equal(float64(2), data["affectedCount"])
	suite.Len(data["taskIds"], 3)
}

func (suite *DashboardHandlerTestSuite) TestBulkUpdate_InvalidInput() {
	tests := []struct {
		name string
		body any
	}{
		{"empty ids", map[string]any{"taskIds": []uint64{}, "operation": "delete"}},
		{"unknown operation", map[string]any{"taskIds": []uint64{1}, "operation": "archive"}},
		{"missing payload", map[string]any{"taskIds": []uint64{1}, "operation": "update-priority"}},
		{"malformed", "not an object"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w, body := suite.do(http.MethodPost, "/api/dashboard/bulk-update", tt.body)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal(false, body["success"])
		})
	}
}

func (suite *DashboardHandlerTestSuite) TestStoreFailureIsInternalError() {
	suite.Require().NoError(suite.db.Migrator().DropTable(&models.Task{}))

	w, body := suite.do(http.MethodGet, "/api/dashboard/reports/time-tracking", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Equal("INTERNAL_ERROR", body["error"])
	suite.Contains(body["message"], "tasks")
}

func ptr[T any](v T) *T { return &v }

func TestDashboardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardHandlerTestSuite))
}

func TestRespondServiceError_Cancelled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondServiceError(c, &services.StoreError{Op: "load tasks", Err: context.Canceled})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRespondServiceError_StoreFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"deadline exceeded", &services.StoreError{Op: "load tasks", Err: context.DeadlineExceeded}, http.StatusServiceUnavailable},
		{"driver failure", &services.StoreError{Op: "load tasks", Err: errors.New("connection refused")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(c, tc.err)

			assert.Equal(t, tc.want, w.Code)
		})
	}
}
