package delivery

import (
	"net/http"

	famdto "famtask-backend/internal/family/dto"
	"famtask-backend/internal/family/usecase"

	"github.com/gin-gonic/gin"
)

// FamilyHandler handles family and auth HTTP requests
type FamilyHandler struct {
	familyUsecase usecase.FamilyUsecase
}

// NewFamilyHandler creates a new FamilyHandler
func NewFamilyHandler(familyUsecase usecase.FamilyUsecase) *FamilyHandler {
	return &FamilyHandler{familyUsecase: familyUsecase}
}

// Register creates a family plus its first guardian
// POST /api/auth/register
func (h *FamilyHandler) Register(c *gin.Context) {
	var req famdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.familyUsecase.Register(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Join adds a member to an existing family via invite code
// POST /api/auth/join
func (h *FamilyHandler) Join(c *gin.Context) {
	var req famdto.JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.familyUsecase.Join(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates a member
// POST /api/auth/login
func (h *FamilyHandler) Login(c *gin.Context) {
	var req famdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.familyUsecase.Login(&req)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated member
// GET /api/auth/me
func (h *FamilyHandler) Me(c *gin.Context) {
	member := MemberFromContext(c)
	if member == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, member)
}

// GetFamily returns the caller's family including the invite code
// GET /api/family
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	familyID := c.GetString("familyID")

	family, err := h.familyUsecase.GetFamily(familyID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, family)
}

// ListMembers returns all members of the caller's family
// GET /api/family/members
func (h *FamilyHandler) ListMembers(c *gin.Context) {
	familyID := c.GetString("familyID")

	members, err := h.familyUsecase.ListMembers(familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

type registerTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

// RegisterDeviceToken stores an FCM device token for push delivery
// POST /api/fcm/register
func (h *FamilyHandler) RegisterDeviceToken(c *gin.Context) {
	memberID := c.GetString("memberID")

	var req registerTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.familyUsecase.RegisterDeviceToken(memberID, req.Token, req.DeviceInfo); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "registered"})
}

// UnregisterDeviceToken removes an FCM device token
// DELETE /api/fcm/:token
func (h *FamilyHandler) UnregisterDeviceToken(c *gin.Context) {
	token := c.Param("token")

	if err := h.familyUsecase.UnregisterDeviceToken(token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unregistered"})
}
