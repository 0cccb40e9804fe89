package domain

import "time"

// Role represents a member's position in the family
type Role string

const (
	RoleGuardian Role = "guardian"
	RoleMinor    Role = "minor"
)

// Member represents one person in a family
type Member struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	FamilyID  string    `json:"family_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-"` // Never return password hash in JSON
	Role      Role      `json:"role" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsGuardian reports whether the member holds the oversight role
func (m *Member) IsGuardian() bool {
	return m.Role == RoleGuardian
}
