package delivery

import (
	"net/http"
	"strings"

	famdomain "famtask-backend/internal/family/domain"
	"famtask-backend/internal/family/usecase"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(familyUsecase usecase.FamilyUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		member, err := familyUsecase.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("member", member)
		c.Set("memberID", member.ID)
		c.Set("familyID", member.FamilyID)
		c.Next()
	}
}

// MemberFromContext returns the authenticated member set by AuthMiddleware
func MemberFromContext(c *gin.Context) *famdomain.Member {
	value, exists := c.Get("member")
	if !exists {
		return nil
	}
	member, _ := value.(*famdomain.Member)
	return member
}
