package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-hq/inkwell/internal/apperrors"
	"github.com/inkwell-hq/inkwell/internal/models"
	"github.com/inkwell-hq/inkwell/internal/repository"
	"github.com/inkwell-hq/inkwell/internal/utils"
)

const userKey = "currentUser"

// Auth validates the bearer token and resolves the referenced user from
// the store; a token whose user no longer exists is rejected. The
// resolved user is attached to the request context for handlers.
func Auth(jwtSecret string, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Fail(c, apperrors.Unauthorized("authorization header required"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.Fail(c, apperrors.Unauthorized("invalid authorization format, use: Bearer <token>"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			utils.Fail(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil || user == nil {
			utils.Fail(c, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.Fail(c, apperrors.Unauthorized("unauthorized"))
			c.Abort()
			return
		}
		if user.Role != models.RoleAdmin {
			utils.Fail(c, apperrors.ErrAdminRequired)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireActive rejects deactivated accounts. Must run after Auth.
func RequireActive() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.Fail(c, apperrors.Unauthorized("unauthorized"))
			c.Abort()
			return
		}
		if !user.IsActive {
			utils.Fail(c, apperrors.ErrAccountInactive)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user resolved by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, exists := c.Get(userKey)
	if !exists {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
