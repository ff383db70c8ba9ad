package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cafehub/internal/auth"
	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
	"cafehub/internal/utils"
)

const (
	ContextUserKey   = "current_user"
	ContextClaimsKey = "token_claims"
)

// RequireAuth validates the bearer token and loads the account into the
// request context. Deactivated accounts are rejected even with a live token.
func RequireAuth(issuer *auth.TokenIssuer, store storage.Store, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "missing bearer token"))
			c.Abort()
			return
		}

		claims, err := issuer.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.LogSecurity("AUTH_FAILED", fmt.Sprintf("Invalid token from %s: %v", c.ClientIP(), err))
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "invalid or expired token"))
			c.Abort()
			return
		}

		user, err := store.GetUser(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authentication required", "account no longer exists"))
			c.Abort()
			return
		}
		if !user.IsActive {
			log.LogSecurity("AUTH_INACTIVE", fmt.Sprintf("Deactivated account %s presented a valid token", user.ID))
			c.JSON(http.StatusForbidden, utils.ErrorResponse("Account deactivated", ""))
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}

// RequireRole gates a route group to the listed roles. Superadmin always
// passes.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Authentication required", ""))
			c.Abort()
			return
		}
		if user.Role == models.RoleSuperAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, utils.ErrorResponse("Insufficient permissions", ""))
		c.Abort()
	}
}

// CurrentUser returns the authenticated account, or nil outside RequireAuth.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
