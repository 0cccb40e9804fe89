package domain

import "time"

// DeviceToken represents a Firebase Cloud Messaging device token for push notifications
type DeviceToken struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	MemberID   string    `json:"member_id" gorm:"index;not null"`
	Token      string    `json:"-" gorm:"uniqueIndex;not null"` // Don't expose token in JSON
	DeviceInfo string    `json:"device_info"`                   // Device/OS metadata
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
