package constants

import "time"

// Lookback windows
const (
	DefaultLookbackDays = 30
	MinLookbackDays     = 1
	MaxLookbackDays     = 365
)

// Dashboard limits
const (
	ActivityFeedLimit       = 20
	DefaultDashboardTimeout = 15 * time.Second
)

// Report types
const (
	ReportProductivity       = "productivity"
	ReportProjectPerformance = "project-performance"
	ReportTimeTracking       = "time-tracking"
)

// ReportTypes lists the report types accepted by the report endpoint.
var ReportTypes = []string{ReportProductivity, ReportProjectPerformance, ReportTimeTracking}

// Report formats
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ReportFormats lists the accepted output formats.
var ReportFormats = []string{FormatJSON, FormatCSV}

// Bulk operations
const (
	BulkUpdateStatus   = "update-status"
	BulkUpdatePriority = "update-priority"
	BulkAssignProject  = "assign-project"
	BulkDelete         = "delete"
)

// BulkOperations lists the operations accepted by the bulk-update endpoint.
var BulkOperations = []string{BulkUpdateStatus, BulkUpdatePriority, BulkAssignProject, BulkDelete}

// Date layouts
const (
	DayLayout = "2006-01-02"
)

// Context keys
const (
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)
