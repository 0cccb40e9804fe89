package usecase

import (
	famdomain "famtask-backend/internal/family/domain"
	"famtask-backend/internal/task/domain"
)

// RecurrenceRequest carries a weekday-set / N-weekly schedule
type RecurrenceRequest struct {
	SelectedWeekdays []int  `json:"selected_weekdays"`
	WeekFrequency    int    `json:"week_frequency"`
	StartDate        string `json:"start_date"` // RFC3339
}

// LocationRequest carries the anchor position captured by the device
type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	DueDate     string             `json:"due_date"` // RFC3339, required unless recurring
	AssignedTo  string             `json:"assigned_to"`
	Recurrence  *RecurrenceRequest `json:"recurrence"`
	Location    *LocationRequest   `json:"location"`
}

// UpdateTaskRequest carries partial edits; nil fields are untouched
type UpdateTaskRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	DueDate     *string            `json:"due_date"`
	AssignedTo  *string            `json:"assigned_to"`
	Recurrence  *RecurrenceRequest `json:"recurrence"`
	Location    *LocationRequest   `json:"location"`
}

// TaskUsecase defines task operations; the caller's member record
// drives role-based authorization
type TaskUsecase interface {
	CreateTask(member *famdomain.Member, req CreateTaskRequest) (*domain.Task, error)
	GetTaskByID(member *famdomain.Member, taskID string) (*domain.Task, error)
	GetFamilyTasks(member *famdomain.Member, status *string, limit, offset int) ([]*domain.Task, int64, error)
	UpdateTask(member *famdomain.Member, taskID string, updates UpdateTaskRequest) (*domain.Task, error)
	DeleteTask(member *famdomain.Member, taskID string) error

	// CompleteTask marks the task done and fans out completion
	// notifications; the transition is one-way
	CompleteTask(member *famdomain.Member, taskID string) (*domain.Task, error)

	// SnoozeTask bumps the snooze counter and re-books the due
	// notification after the configured snooze interval
	SnoozeTask(member *famdomain.Member, taskID string) (*domain.Task, error)
}
