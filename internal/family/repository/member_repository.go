package repository

import (
	"errors"
	"time"

	famdomain "famtask-backend/internal/family/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MemberRepository defines the interface for member data access
type MemberRepository interface {
	Create(member *famdomain.Member) error
	FindByID(id string) (*famdomain.Member, error)
	FindByEmail(email string) (*famdomain.Member, error)
	FindByFamilyID(familyID string) ([]*famdomain.Member, error)
	FindGuardiansByFamilyID(familyID string) ([]*famdomain.Member, error)
	Update(member *famdomain.Member) error
	Delete(id string) error
}

// memberRepository implements MemberRepository using GORM
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new instance of memberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(member *famdomain.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	member.CreatedAt = time.Now()
	member.UpdatedAt = time.Now()
	return r.db.Create(member).Error
}

func (r *memberRepository) FindByID(id string) (*famdomain.Member, error) {
	var member famdomain.Member
	err := r.db.Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByEmail(email string) (*famdomain.Member, error) {
	var member famdomain.Member
	err := r.db.Where("email = ?", email).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByFamilyID(familyID string) ([]*famdomain.Member, error) {
	var members []*famdomain.Member
	err := r.db.Where("family_id = ?", familyID).Order("created_at ASC").Find(&members).Error
	return members, err
}

func (r *memberRepository) FindGuardiansByFamilyID(familyID string) ([]*famdomain.Member, error) {
	var members []*famdomain.Member
	err := r.db.Where("family_id = ? AND role = ?", familyID, famdomain.RoleGuardian).Find(&members).Error
	return members, err
}

func (r *memberRepository) Update(member *famdomain.Member) error {
	member.UpdatedAt = time.Now()
	return r.db.Save(member).Error
}

func (r *memberRepository) Delete(id string) error {
	return r.db.Delete(&famdomain.Member{}, "id = ?", id).Error
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password against a bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
