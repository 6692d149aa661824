package middleware

import (
	"net/http"
	"strings"

	"github.com/ayusuf9/trivia-africa/internal/services"

	"github.com/gin-gonic/gin"
)

const IdentityKey = "player"

// PlayerAuth verifies the caller's identity token and stores the
// decoded identity in the request context. Browsers cannot set headers
// on a WebSocket upgrade, so a `token` query parameter is accepted as
// a fallback.
func PlayerAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			raw = c.Query("token")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		identity, err := authService.ValidateToken(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// Identity returns the verified player identity stored by PlayerAuth.
func Identity(c *gin.Context) *services.PlayerIdentity {
	if v, ok := c.Get(IdentityKey); ok {
		if identity, ok := v.(*services.PlayerIdentity); ok {
			return identity
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
