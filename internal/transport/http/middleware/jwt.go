package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"researchhub/internal/app"
	"researchhub/internal/pkg/jwtutil"
	"researchhub/internal/transport/http/response"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
)

// AuthJWT verifies the bearer token and resolves its subject back to a user
// row. A token whose subject no longer exists is rejected the same way a bad
// token is.
func AuthJWT(secret string, authService *app.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, 401, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, 401, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		claims, err := jwtutil.ParseToken(secret, token)
		if err != nil {
			response.Error(c, 401, response.CodeUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		user, err := authService.GetUserByUsername(claims.Username)
		if err != nil {
			response.Error(c, 500, response.CodeInternalServer, "resolve token subject failed")
			c.Abort()
			return
		}
		if user == nil {
			response.Error(c, 401, response.CodeUnauthorized, "user not found")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUsernameKey, user.Username)
		c.Next()
	}
}
