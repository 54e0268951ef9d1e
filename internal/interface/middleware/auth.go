package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"digicommerce/internal/domain/repository"
	"digicommerce/pkg/helpers"
	"digicommerce/pkg/response"
)

// Gin context keys set by Authenticate.
const (
	CtxUserIDKey   = "userID"
	CtxUserEmail   = "userEmail"
	CtxUserRole    = "userRole"
	CtxUserKey     = "user"
	CtxClaimsKey   = "claims"
	bearerPrefix   = "Bearer "
	authHeaderName = "Authorization"
)

// Authenticate validates the Bearer token and loads the current user.
// A missing token is 401; a token that fails verification, or one whose
// subject no longer exists, is 403.
func Authenticate(repo repository.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderName)
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "authorization token required")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			response.Abort(c, http.StatusForbidden, "invalid authorization header format")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			response.Abort(c, http.StatusForbidden, "invalid authorization header format")
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			response.Abort(c, http.StatusForbidden, "invalid or expired token")
			return
		}

		user, err := repo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.Abort(c, http.StatusForbidden, "account no longer exists")
				return
			}
			response.Abort(c, http.StatusInternalServerError, "failed to load account")
			return
		}

		c.Set(CtxUserIDKey, user.ID)
		c.Set(CtxUserEmail, user.Email)
		c.Set(CtxUserRole, user.Role)
		c.Set(CtxUserKey, user)
		c.Set(CtxClaimsKey, claims)
		c.Next()
	}
}

// RequireRole allows the request through only when the authenticated
// user's role is one of the given roles. Must run after Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		role := c.GetString(CtxUserRole)
		if _, ok := allowed[role]; !ok {
			response.Abort(c, http.StatusForbidden, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// RequireVerified blocks users who have not confirmed their email.
// Must run after Authenticate.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		u := CurrentUser(c)
		if u == nil {
			response.Abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !u.IsVerified {
			response.Abort(c, http.StatusForbidden, "email verification required")
			return
		}
		c.Next()
	}
}
