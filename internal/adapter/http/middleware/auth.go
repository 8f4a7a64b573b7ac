package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"eventsapp/internal/adapter/http/helper"
	"eventsapp/internal/core/apperror"
	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/port"
	"eventsapp/pkg/auth"
)

const currentUserKey = "currentUser"

// Protect authenticates the request: bearer header or jwt cookie, signature
// and expiry check, then a fresh lookup of the identity. Tokens issued before
// the user's last password change are rejected.
func Protect(tokens *auth.TokenManager, users port.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)

		if token == "" {
			helper.AbortWithError(c, apperror.Unauthorized("You are not logged in!"))
			return
		}

		claims, err := tokens.VerifyToken(token)

		if err != nil {
			helper.AbortWithError(c, apperror.Unauthorized("Invalid token. Please log in again"))
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)

		if err != nil {
			helper.AbortWithError(c, apperror.Unauthorized("The user belonging to this token does not exist"))
			return
		}

		if user.ChangedPasswordAfter(claims.IssuedAt) {
			helper.AbortWithError(c, apperror.Unauthorized("User recently changed password! Please log in again"))
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RestrictTo gates a route by role. Applied after Protect.
func RestrictTo(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)

		for _, role := range roles {
			if string(user.Role) == role {
				c.Next()
				return
			}
		}

		helper.AbortWithError(c, apperror.Forbidden("You do not have permission to perform this action"))
	}
}

func CurrentUser(c *gin.Context) domain.User {
	if value, ok := c.Get(currentUserKey); ok {
		if user, ok := value.(domain.User); ok {
			return user
		}
	}

	return domain.User{}
}

func extractToken(c *gin.Context) string {
	bearer := c.GetHeader("Authorization")

	if strings.HasPrefix(bearer, "Bearer ") {
		return bearer[len("Bearer "):]
	}

	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie
	}

	return ""
}
