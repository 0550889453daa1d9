package model

import (
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "InProgress"
	StatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether s is one of the three known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `gorm:"not null" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssigneeID  uint       `gorm:"not null;index" json:"-"`
	Assignee    User       `gorm:"foreignKey:AssigneeID" json:"assignee"`
	CreatedByID uint       `gorm:"not null" json:"-"`
	CreatedBy   User       `gorm:"foreignKey:CreatedByID" json:"createdBy"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskSummary is the per-employee aggregate returned by /v1/tasks/summary.
type TaskSummary struct {
	EmployeeID     uint   `json:"employeeId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	TotalTasks     int    `json:"totalTasks"`
	CompletedTasks int    `json:"completedTasks"`
}
