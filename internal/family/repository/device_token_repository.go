package repository

import (
	"time"

	famdomain "famtask-backend/internal/family/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenRepository defines the interface for FCM device token operations
type DeviceTokenRepository interface {
	SaveToken(memberID, token, deviceInfo string) error
	GetTokensByMemberID(memberID string) ([]famdomain.DeviceToken, error)
	DeleteToken(token string) error
	DeleteTokensByMemberID(memberID string) error
}

// deviceTokenRepository implements DeviceTokenRepository using GORM
type deviceTokenRepository struct {
	db *gorm.DB
}

// NewDeviceTokenRepository creates a new instance of deviceTokenRepository
func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

// SaveToken saves or updates a device token for a member (atomic upsert)
func (r *deviceTokenRepository) SaveToken(memberID, token, deviceInfo string) error {
	deviceToken := &famdomain.DeviceToken{
		ID:         uuid.New().String(),
		MemberID:   memberID,
		Token:      token,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	// Atomic upsert: INSERT ... ON CONFLICT (token) DO UPDATE
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"member_id", "device_info", "updated_at"}),
	}).Create(deviceToken).Error
}

func (r *deviceTokenRepository) GetTokensByMemberID(memberID string) ([]famdomain.DeviceToken, error) {
	var tokens []famdomain.DeviceToken
	err := r.db.Where("member_id = ?", memberID).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *deviceTokenRepository) DeleteToken(token string) error {
	return r.db.Delete(&famdomain.DeviceToken{}, "token = ?", token).Error
}

func (r *deviceTokenRepository) DeleteTokensByMemberID(memberID string) error {
	return r.db.Delete(&famdomain.DeviceToken{}, "member_id = ?", memberID).Error
}
