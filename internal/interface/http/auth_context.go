package http

import (
	"github.com/gin-gonic/gin"

	"github.com/cropwise/fieldadvisor/internal/domain/auth"
)

const authClaimsKey = "auth_claims"

func setClaims(c *gin.Context, claims auth.Claims) {
	c.Set(authClaimsKey, claims)
}

func getClaims(c *gin.Context) (auth.Claims, bool) {
	value, ok := c.Get(authClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := value.(auth.Claims)
	return claims, ok
}

// currentPrincipal expands the token's role snapshot into a capability set.
func currentPrincipal(c *gin.Context) (auth.Principal, bool) {
	claims, ok := getClaims(c)
	if !ok {
		return auth.Principal{}, false
	}
	return auth.NewPrincipal(claims.UserID, claims.Roles), true
}
