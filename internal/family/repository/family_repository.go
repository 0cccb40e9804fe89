package repository

import (
	"errors"
	"time"

	famdomain "famtask-backend/internal/family/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FamilyRepository defines the interface for family data access
type FamilyRepository interface {
	Create(family *famdomain.Family) error
	FindByID(id string) (*famdomain.Family, error)
	FindByInviteCode(code string) (*famdomain.Family, error)
}

// familyRepository implements FamilyRepository using GORM
type familyRepository struct {
	db *gorm.DB
}

// NewFamilyRepository creates a new instance of familyRepository
func NewFamilyRepository(db *gorm.DB) FamilyRepository {
	return &familyRepository{db: db}
}

func (r *familyRepository) Create(family *famdomain.Family) error {
	if family.ID == "" {
		family.ID = uuid.New().String()
	}
	family.CreatedAt = time.Now()
	family.UpdatedAt = time.Now()
	return r.db.Create(family).Error
}

func (r *familyRepository) FindByID(id string) (*famdomain.Family, error) {
	var family famdomain.Family
	err := r.db.Where("id = ?", id).First(&family).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &family, nil
}

func (r *familyRepository) FindByInviteCode(code string) (*famdomain.Family, error) {
	var family famdomain.Family
	err := r.db.Where("invite_code = ?", code).First(&family).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &family, nil
}
