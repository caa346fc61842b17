package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists task statuses in workflow order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusReview,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists priorities from lowest to highest.
var Priorities = []Priority{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	for _, priority := range Priorities {
		if p == priority {
			return true
		}
	}
	return false
}

// TaskNote is a timestamped free-text note attached to a task.
type TaskNote struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	Title          string         `gorm:"type:varchar(255);not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Status         TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority       Priority       `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	ProjectID      *uint64        `json:"projectId"`
	Assignee       *string        `gorm:"type:varchar(255)" json:"assignee"`
	DueDate        *time.Time     `json:"dueDate"`
	CompletedDate  *time.Time     `json:"completedDate"`
	EstimatedHours *float64       `json:"estimatedHours"`
	ActualHours    *float64       `json:"actualHours"`
	Tags           []string       `gorm:"serializer:json" json:"tags"`
	Notes          []TaskNote     `gorm:"serializer:json" json:"notes"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// BeforeSave keeps CompletedDate in step with Status: it is stamped when a
// task becomes completed and cleared for every other status.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Status == TaskStatusCompleted {
		if t.CompletedDate == nil {
			now := tx.NowFunc()
			t.CompletedDate = &now
		}
		return nil
	}
	t.CompletedDate = nil
	return nil
}
