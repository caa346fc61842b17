package utils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queryContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestGetLookbackDays(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{"", 30, false},
		{"days=7", 7, false},
		{"days=365", 365, false},
		{"days=0", 0, true},
		{"days=366", 0, true},
		{"days=abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			days, err := GetLookbackDays(queryContext(tt.query))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, days)
		})
	}
}

func TestParseDateParam(t *testing.T) {
	start, err := ParseDateParam(queryContext("startDate=2024-03-01"), "startDate", false)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *start)

	end, err := ParseDateParam(queryContext("endDate=2024-03-01"), "endDate", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 23, 59, 59, 999999999, time.UTC), *end)

	exact, err := ParseDateParam(queryContext("endDate=2024-03-01T10:00:00%2B02:00"), "endDate", true)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), *exact)

	missing, err := ParseDateParam(queryContext(""), "startDate", false)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = ParseDateParam(queryContext("startDate=yesterday"), "startDate", false)
	assert.Error(t, err)
}
