package usecase

import (
	"errors"
	"strings"
	"time"

	famdomain "famtask-backend/internal/family/domain"
	famdto "famtask-backend/internal/family/dto"
	"famtask-backend/internal/family/repository"
	"famtask-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// familyUsecase implements FamilyUsecase
type familyUsecase struct {
	familyRepo repository.FamilyRepository
	memberRepo repository.MemberRepository
	tokenRepo  repository.DeviceTokenRepository
	config     *config.Config
}

// NewFamilyUsecase creates a new instance of familyUsecase
func NewFamilyUsecase(familyRepo repository.FamilyRepository, memberRepo repository.MemberRepository, tokenRepo repository.DeviceTokenRepository, cfg *config.Config) FamilyUsecase {
	return &familyUsecase{
		familyRepo: familyRepo,
		memberRepo: memberRepo,
		tokenRepo:  tokenRepo,
		config:     cfg,
	}
}

func (u *familyUsecase) Register(req *famdto.RegisterRequest) (*famdto.TokenResponse, error) {
	existing, err := u.memberRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	family := &famdomain.Family{
		Name:       req.FamilyName,
		InviteCode: newInviteCode(),
	}
	if err := u.familyRepo.Create(family); err != nil {
		return nil, err
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	// The founding member is always a guardian
	member := &famdomain.Member{
		FamilyID: family.ID,
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     famdomain.RoleGuardian,
	}
	if err := u.memberRepo.Create(member); err != nil {
		return nil, err
	}

	return u.generateToken(member)
}

func (u *familyUsecase) Join(req *famdto.JoinRequest) (*famdto.TokenResponse, error) {
	family, err := u.familyRepo.FindByInviteCode(req.InviteCode)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, errors.New("invalid invite code")
	}

	existing, err := u.memberRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	role := famdomain.Role(req.Role)
	if role != famdomain.RoleGuardian && role != famdomain.RoleMinor {
		return nil, errors.New("invalid role")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	member := &famdomain.Member{
		FamilyID: family.ID,
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     role,
	}
	if err := u.memberRepo.Create(member); err != nil {
		return nil, err
	}

	return u.generateToken(member)
}

func (u *familyUsecase) Login(req *famdto.LoginRequest) (*famdto.TokenResponse, error) {
	member, err := u.memberRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, errors.New("invalid email or password")
	}

	if !repository.CheckPasswordHash(req.Password, member.Password) {
		return nil, errors.New("invalid email or password")
	}

	return u.generateToken(member)
}

func (u *familyUsecase) ValidateToken(tokenString string) (*famdomain.Member, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	memberID, _ := claims["sub"].(string)
	if memberID == "" {
		return nil, errors.New("invalid token claims")
	}

	member, err := u.memberRepo.FindByID(memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, errors.New("member not found")
	}
	return member, nil
}

func (u *familyUsecase) ListMembers(familyID string) ([]*famdomain.Member, error) {
	return u.memberRepo.FindByFamilyID(familyID)
}

func (u *familyUsecase) GetFamily(familyID string) (*famdomain.Family, error) {
	family, err := u.familyRepo.FindByID(familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, errors.New("family not found")
	}
	return family, nil
}

func (u *familyUsecase) RegisterDeviceToken(memberID, token, deviceInfo string) error {
	return u.tokenRepo.SaveToken(memberID, token, deviceInfo)
}

func (u *familyUsecase) UnregisterDeviceToken(token string) error {
	return u.tokenRepo.DeleteToken(token)
}

func (u *familyUsecase) generateToken(member *famdomain.Member) (*famdto.TokenResponse, error) {
	expiresAt := time.Now().Add(u.config.JWTAccessExpiry)
	claims := jwt.MapClaims{
		"sub":    member.ID,
		"family": member.FamilyID,
		"role":   string(member.Role),
		"exp":    expiresAt.Unix(),
		"iat":    time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &famdto.TokenResponse{
		AccessToken: signed,
		ExpiresIn:   int64(u.config.JWTAccessExpiry.Seconds()),
		Member:      member,
	}, nil
}

// newInviteCode builds a short shareable family code
func newInviteCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return raw[:8]
}
