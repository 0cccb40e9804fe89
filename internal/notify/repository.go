package notify

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduledNotification is the persisted form of one pending delivery
type ScheduledNotification struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	TaskID    string    `json:"task_id" gorm:"index;not null"`
	Category  string    `json:"category" gorm:"not null"`
	FireAt    time.Time `json:"fire_at" gorm:"index;not null"`
	Payload   string    `json:"payload" gorm:"not null"` // JSON-encoded Payload
	Sent      bool      `json:"sent" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository defines data access for scheduled notifications
type Repository interface {
	Create(n *ScheduledNotification) error
	Delete(id string) error
	FindDue(now time.Time) ([]*ScheduledNotification, error)
	FindPendingByTask(taskID string) ([]*ScheduledNotification, error)
	FindPending() ([]*ScheduledNotification, error)
	MarkSent(id string) error
}

// gormRepository implements Repository using GORM
type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new GORM-based Repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(n *ScheduledNotification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	return r.db.Create(n).Error
}

func (r *gormRepository) Delete(id string) error {
	return r.db.Delete(&ScheduledNotification{}, "id = ?", id).Error
}

func (r *gormRepository) FindDue(now time.Time) ([]*ScheduledNotification, error) {
	var rows []*ScheduledNotification
	err := r.db.Where("fire_at <= ? AND sent = ?", now, false).Find(&rows).Error
	return rows, err
}

func (r *gormRepository) FindPendingByTask(taskID string) ([]*ScheduledNotification, error) {
	var rows []*ScheduledNotification
	err := r.db.Where("task_id = ? AND sent = ?", taskID, false).Find(&rows).Error
	return rows, err
}

func (r *gormRepository) FindPending() ([]*ScheduledNotification, error) {
	var rows []*ScheduledNotification
	err := r.db.Where("sent = ?", false).Find(&rows).Error
	return rows, err
}

func (r *gormRepository) MarkSent(id string) error {
	return r.db.Model(&ScheduledNotification{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"sent":       true,
			"updated_at": time.Now(),
		}).Error
}

// decodePayload restores the Payload embedded in a stored row
func decodePayload(row *ScheduledNotification) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
		return Payload{}, errors.New("malformed notification payload")
	}
	return payload, nil
}
