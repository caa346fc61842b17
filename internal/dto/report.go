package dto

import (
	"time"

	"github.com/yukikurage/task-analytics-api/internal/services"
)

// ReportMetaDTO describes a generated report
type ReportMetaDTO struct {
	Type        string     `json:"type"`
	Format      string     `json:"format"`
	RecordCount int        `json:"recordCount"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

// ToReportMetaDTO converts a generated report to ReportMetaDTO
func ToReportMetaDTO(r *services.Report) ReportMetaDTO {
	return ReportMetaDTO{
		Type:        r.Type,
		Format:      r.Format,
		RecordCount: len(r.Records),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}
