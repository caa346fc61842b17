package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
)

// ProjectStatuses lists project statuses in lifecycle order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusPlanning,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
	ProjectStatusCancelled,
}

type Project struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	Description   string         `gorm:"type:text" json:"description"`
	Status        ProjectStatus  `gorm:"type:varchar(20);not null;default:'planning'" json:"status"`
	Priority      Priority       `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	StartDate     *time.Time     `json:"startDate"`
	DueDate       *time.Time     `json:"dueDate"`
	CompletedDate *time.Time     `json:"completedDate"`
	Tags          []string       `gorm:"serializer:json" json:"tags"`
	Color         string         `gorm:"type:varchar(20);default:'#3B82F6'" json:"color"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
