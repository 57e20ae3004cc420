package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"blogme/identity"
)

// Auth resolves the acting user from a Bearer token and attaches it to
// the request context. It never rejects: an absent or invalid token
// simply leaves the request anonymous, because viewing content must
// work logged out. Operations that need an identity fail inside the
// engagement layer instead.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			header = "Bearer " + c.Query("token")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			if user, err := identity.ParseToken(secret, parts[1]); err == nil {
				c.Request = c.Request.WithContext(identity.WithUser(c.Request.Context(), user))
			}
		}
		c.Next()
	}
}
