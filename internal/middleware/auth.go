package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/etuition/etuition-server/internal/auth"
)

const identityKey = "identity"

// RequireAuth gates an operation behind a verified bearer token. The
// guard only answers "is this caller authenticated"; resource-level
// ownership is each operation's own check.
func RequireAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := verifyHeader(c, tokens)
		if !ok {
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth binds an identity when a valid token is presented and
// continues unauthenticated otherwise. Used only where anonymous
// callers get a reduced (public-projection) view.
func OptionalAuth(tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		parts := strings.Split(header, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.Next()
			return
		}
		if identity, err := tokens.Verify(parts[1]); err == nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

func verifyHeader(c *gin.Context, tokens *auth.TokenService) (auth.Identity, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access: No token provided"})
		return auth.Identity{}, false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access: Malformed authorization header"})
		return auth.Identity{}, false
	}
	identity, err := tokens.Verify(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access: Invalid token"})
		return auth.Identity{}, false
	}
	return identity, true
}

// CurrentIdentity returns the identity bound by RequireAuth or
// OptionalAuth.
func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
