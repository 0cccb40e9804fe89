package usecase

import (
	famdomain "famtask-backend/internal/family/domain"
	famdto "famtask-backend/internal/family/dto"
)

// FamilyUsecase defines household membership and auth operations
type FamilyUsecase interface {
	// Register creates a new family and its first guardian member
	Register(req *famdto.RegisterRequest) (*famdto.TokenResponse, error)

	// Join adds a member to an existing family via invite code
	Join(req *famdto.JoinRequest) (*famdto.TokenResponse, error)

	// Login authenticates a member by email/password
	Login(req *famdto.LoginRequest) (*famdto.TokenResponse, error)

	// ValidateToken parses an access token and returns the member it identifies
	ValidateToken(token string) (*famdomain.Member, error)

	// ListMembers returns all members of a family
	ListMembers(familyID string) ([]*famdomain.Member, error)

	// GetFamily returns the family record
	GetFamily(familyID string) (*famdomain.Family, error)

	// RegisterDeviceToken stores an FCM token for the member's device
	RegisterDeviceToken(memberID, token, deviceInfo string) error

	// UnregisterDeviceToken removes a stored FCM token
	UnregisterDeviceToken(token string) error
}
