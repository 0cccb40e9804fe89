package domain

import "time"

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// RecurrenceConfig defines a weekday-set / N-weekly repeating schedule.
// SelectedWeekdays must be non-empty and WeekFrequency in [1,52]; both
// are validated at create/edit time.
type RecurrenceConfig struct {
	SelectedWeekdays []time.Weekday `json:"selected_weekdays"`
	WeekFrequency    int            `json:"week_frequency"`
	StartDate        time.Time      `json:"start_date"`
	LastGeneratedAt  time.Time      `json:"last_generated_at"`
}

// Location is a captured device position used as the movement anchor
type Location struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CapturedAt time.Time `json:"captured_at"`
}

// Task represents one unit of household work
type Task struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	FamilyID    string     `json:"family_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	DueDate     time.Time  `json:"due_date"`
	IsRecurring bool       `json:"is_recurring" gorm:"default:false"`
	Recurrence  *RecurrenceConfig `json:"recurrence,omitempty" gorm:"serializer:json"`
	Status      TaskStatus `json:"status" gorm:"default:pending"`
	AssignedTo  string     `json:"assigned_to" gorm:"index;not null"`
	CreatedBy   string     `json:"created_by" gorm:"not null"`

	// Snooze bookkeeping
	SnoozeCount   int        `json:"snooze_count" gorm:"default:0"`
	LastSnoozedAt *time.Time `json:"last_snoozed_at,omitempty"`

	// Movement detection anchor, set when location capture is enabled
	ReminderLocation *Location `json:"reminder_location,omitempty" gorm:"serializer:json"`

	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`

	// Bumped on every reschedule so in-flight notification rows for an
	// older schedule can be detected as stale at dispatch time
	SchedulingGeneration int64 `json:"-" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCompleted reports whether the task reached its terminal state
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}
