package repository

import (
	"famtask-backend/internal/task/domain"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *domain.Task) error

	// FindByID finds a task by its ID
	FindByID(id string) (*domain.Task, error)

	// FindByFamilyID finds all tasks for a family with optional filters
	FindByFamilyID(familyID string, status *domain.TaskStatus, limit, offset int) ([]*domain.Task, int64, error)

	// FindPendingRecurring finds pending recurring tasks across all families
	FindPendingRecurring() ([]*domain.Task, error)

	// Update updates an existing task
	Update(task *domain.Task) error

	// Delete deletes a task by ID
	Delete(id string) error

	// IncrementGeneration bumps the task's scheduling generation and
	// returns the new value
	IncrementGeneration(id string) (int64, error)

	// RecordSnooze bumps the snooze counter and stamps the snooze time
	RecordSnooze(id string) error
}
