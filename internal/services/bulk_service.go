package services

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/yukikurage/task-analytics-api/internal/constants"
	"github.com/yukikurage/task-analytics-api/internal/metrics"
	"github.com/yukikurage/task-analytics-api/internal/models"
	"github.com/yukikurage/task-analytics-api/internal/repository"
)

// BulkUpdateInput names the tasks to change and the single change to apply.
// Exactly the payload field matching Operation is required.
type BulkUpdateInput struct {
	TaskIDs   []uint64
	Operation string
	Status    *models.TaskStatus
	Priority  *models.Priority
	ProjectID *uint64
}

// BulkResult reports what a bulk operation changed. AffectedCount may be
// lower than len(TaskIDs) when some ids do not exist.
type BulkResult struct {
	Operation     string
	AffectedCount int64
	TaskIDs       []uint64
}

// BulkService applies one mutation to many tasks in a single store call
type BulkService struct {
	taskRepo repository.TaskRepository
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewBulkService creates a new BulkService
func NewBulkService(taskRepo repository.TaskRepository, m *metrics.Metrics) *BulkService {
	return &BulkService{
		taskRepo: taskRepo,
		metrics:  m,
		now:      time.Now,
	}
}

// Apply validates input and runs exactly one batch statement.
func (s *BulkService) Apply(ctx context.Context, input BulkUpdateInput) (*BulkResult, error) {
	if len(input.TaskIDs) == 0 {
		return nil, ErrEmptyTaskIDs
	}
	if !slices.Contains(constants.BulkOperations, input.Operation) {
		return nil, invalidChoice("operation", input.Operation, constants.BulkOperations)
	}

	ids := uniqueUint64(input.TaskIDs)

	var affected int64
	var err error

	switch input.Operation {
	case constants.BulkUpdateStatus:
		if input.Status == nil {
			return nil, invalidInput("updates.status is required for %s", input.Operation)
		}
		if !input.Status.Valid() {
			return nil, invalidChoice("status", *input.Status, models.TaskStatuses)
		}
		affected, err = s.taskRepo.UpdateStatus(ctx, ids, *input.Status, s.now().UTC())

	case constants.BulkUpdatePriority:
		if input.Priority == nil {
			return nil, invalidInput("updates.priority is required for %s", input.Operation)
		}
		if !input.Priority.Valid() {
			return nil, invalidChoice("priority", *input.Priority, models.Priorities)
		}
		affected, err = s.taskRepo.UpdateFields(ctx, ids, map[string]any{"priority": *input.Priority})

	case constants.BulkAssignProject:
		if input.ProjectID == nil {
			return nil, invalidInput("updates.project is required for %s", input.Operation)
		}
		if *input.ProjectID == 0 {
			return nil, invalidInput("updates.project must be a positive project id")
		}
		affected, err = s.taskRepo.UpdateFields(ctx, ids, map[string]any{"project_id": *input.ProjectID})

	case constants.BulkDelete:
		affected, err = s.taskRepo.DeleteMany(ctx, ids)
	}

	if err != nil {
		return nil, storeError(input.Operation+" tasks", err)
	}

	s.metrics.AddBulkAffected(input.Operation, affected)
	zerolog.Ctx(ctx).Info().
		Str("operation", input.Operation).
		Int("requested", len(ids)).
		Int64("affected", affected).
		Msg("bulk mutation applied")

	return &BulkResult{
		Operation:     input.Operation,
		AffectedCount: affected,
		TaskIDs:       ids,
	}, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
