package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/cube4/pkg/auth"
	"github.com/rs/zerolog/log"
)

const HarnessKey = "harness"

// AuthMiddleware requires a valid harness bearer token and stores the
// harness name on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		claims, err := auth.ValidateHarnessToken(secret, token)
		if err != nil {
			log.Debug().Str("component", "auth").Err(err).Msg("rejected harness token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(HarnessKey, claims.Harness)
		c.Next()
	}
}
