package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/task-analytics-api/internal/constants"
)

// GetLookbackDays reads the days query parameter. A missing value yields
// the default window; anything that is not an integer within bounds is an
// error.
func GetLookbackDays(c *gin.Context) (int, error) {
	raw, ok := c.GetQuery("days")
	if !ok || raw == "" {
		return constants.DefaultLookbackDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("days must be an integer, got %q", raw)
	}
	if days < constants.MinLookbackDays || days > constants.MaxLookbackDays {
		return 0, fmt.Errorf("days must be between %d and %d", constants.MinLookbackDays, constants.MaxLookbackDays)
	}
	return days, nil
}

// ParseDateParam reads an optional RFC3339 or YYYY-MM-DD query parameter.
// With endOfDay set, a date-only value covers the whole day.
func ParseDateParam(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.Parse(constants.DayLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be RFC3339 or YYYY-MM-DD, got %q", name, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
