package dto

import (
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/services"
)

// BulkUpdatesDTO carries the payload of a bulk operation. Only the field
// matching the operation is read.
type BulkUpdatesDTO struct {
	Status   *models.TaskStatus `json:"status"`
	Priority *models.Priority   `json:"priority"`
	Project  *uint64            `json:"project"`
}

// BulkUpdateRequest represents the bulk-update request body
type BulkUpdateRequest struct {
	TaskIDs   []uint64       `json:"taskIds"`
	Operation string         `json:"operation"`
	Updates   BulkUpdatesDTO `json:"updates"`
}

// ToInput converts the request to service input
func (r BulkUpdateRequest) ToInput() services.BulkUpdateInput {
	return services.BulkUpdateInput{
		TaskIDs:   r.TaskIDs,
		Operation: r.Operation,
		Status:    r.Updates.Status,
		Priority:  r.Updates.Priority,
		ProjectID: r.Updates.Project,
	}
}

// BulkUpdateResponseDTO represents the result of a bulk operation
type BulkUpdateResponseDTO struct {
	Operation     string   `json:"operation"`
	AffectedCount int64    `json:"affectedCount"`
	TaskIDs       []uint64 `json:"taskIds"`
}

// ToBulkUpdateResponseDTO converts a bulk result to BulkUpdateResponseDTO
func ToBulkUpdateResponseDTO(r *services.BulkResult) BulkUpdateResponseDTO {
	return BulkUpdateResponseDTO{
		Operation:     r.Operation,
		AffectedCount: r.AffectedCount,
		TaskIDs:       r.TaskIDs,
	}
}
