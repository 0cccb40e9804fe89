package repository

import (
	"errors"
	"time"

	"famtask-backend/internal/task/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormTaskRepository implements TaskRepository using GORM
type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM-based TaskRepository
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()
	return r.db.Create(task).Error
}

func (r *gormTaskRepository) FindByID(id string) (*domain.Task, error) {
	var task domain.Task
	err := r.db.Where("id = ?", id).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *gormTaskRepository) FindByFamilyID(familyID string, status *domain.TaskStatus, limit, offset int) ([]*domain.Task, int64, error) {
	var tasks []*domain.Task
	var total int64

	query := r.db.Model(&domain.Task{}).Where("family_id = ?", familyID)

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("due_date ASC, created_at DESC").
		Limit(limit).Offset(offset).Find(&tasks).Error

	return tasks, total, err
}

func (r *gormTaskRepository) FindPendingRecurring() ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := r.db.Where("is_recurring = ? AND status = ?", true, domain.TaskStatusPending).Find(&tasks).Error
	return tasks, err
}

func (r *gormTaskRepository) Update(task *domain.Task) error {
	task.UpdatedAt = time.Now()
	return r.db.Save(task).Error
}

func (r *gormTaskRepository) Delete(id string) error {
	return r.db.Delete(&domain.Task{}, "id = ?", id).Error
}

func (r *gormTaskRepository) IncrementGeneration(id string) (int64, error) {
	var generation int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Task{}).Where("id = ?", id).
			UpdateColumn("scheduling_generation", gorm.Expr("scheduling_generation + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		var task domain.Task
		if err := tx.Select("scheduling_generation").Where("id = ?", id).First(&task).Error; err != nil {
			return err
		}
		generation = task.SchedulingGeneration
		return nil
	})
	return generation, err
}

func (r *gormTaskRepository) RecordSnooze(id string) error {
	now := time.Now()
	return r.db.Model(&domain.Task{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"snooze_count":    gorm.Expr("snooze_count + 1"),
			"last_snoozed_at": now,
			"updated_at":      now,
		}).Error
}
