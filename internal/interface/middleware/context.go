package middleware

import (
	"github.com/gin-gonic/gin"

	"digicommerce/internal/domain/entity"
	"digicommerce/pkg/helpers"
)

// CurrentUser returns the user loaded by Authenticate, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}

// CurrentClaims returns the token claims set by Authenticate, or nil.
func CurrentClaims(c *gin.Context) *helpers.Claims {
	v, ok := c.Get(CtxClaimsKey)
	if !ok {
		return nil
	}
	cl, _ := v.(*helpers.Claims)
	return cl
}
