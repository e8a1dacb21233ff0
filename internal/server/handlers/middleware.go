package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/loftkeeper/internal/service/auth"
)

// TokenParser validates access tokens.
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// RequireAuth rejects requests without a valid access token. The token is
// read from the cookie first, then from an "Authorization: Bearer" header.
func RequireAuth(tokens TokenParser, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if v, err := c.Cookie(cookieName); err == nil {
			token = v
		}
		if token == "" {
			if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
				token = strings.TrimSpace(h[7:])
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "authentication required"})
			return
		}

		claims, err := tokens.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "invalid or expired token"})
			return
		}
		c.Set(UserIDKey, claims.Subject)
		c.Next()
	}
}
