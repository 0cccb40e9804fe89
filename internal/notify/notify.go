// Package notify implements the scheduled-notification service: a
// store of pending deliveries plus a dispatch loop that pushes due
// rows to the recipient's devices over FCM.
package notify

import (
	"context"
	"time"
)

// Category classifies a notification for role-based filtering
type Category string

const (
	CategoryDue        Category = "due"
	CategoryCompletion Category = "completion"
	CategoryMovement   Category = "movement_alert"
)

// Payload is the data carried by one scheduled notification. It is
// embedded in the push message and echoed back by the device in
// delivery receipts.
type Payload struct {
	TaskID      string   `json:"task_id"`
	Category    Category `json:"category"`
	RecipientID string   `json:"recipient_id"`
	CompletedBy string   `json:"completed_by,omitempty"`
	Generation  int64    `json:"generation,omitempty"`
	Recurring   bool     `json:"recurring,omitempty"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
}

// Scheduled is one pending delivery as seen through the service API
type Scheduled struct {
	Handle  string    `json:"handle"`
	FireAt  time.Time `json:"fire_at"`
	Payload Payload   `json:"payload"`
}

// Service is the notification-service contract consumed by the
// reminder engine. Cancel is idempotent: cancelling an unknown or
// already-fired handle is not an error.
type Service interface {
	ScheduleAt(ctx context.Context, fireAt time.Time, payload Payload) (string, error)
	Cancel(ctx context.Context, handle string) error
	ListByTask(ctx context.Context, taskID string) ([]Scheduled, error)
	ListScheduled(ctx context.Context) ([]Scheduled, error)
}
