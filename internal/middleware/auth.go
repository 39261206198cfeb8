package middleware

import (
	"net/http"
	"strings"

	"github.com/derintolu/frs-partner-network/internal/pkg"
	"github.com/derintolu/frs-partner-network/internal/repository/redis"
	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

// AuthMiddleware validates the bearer token against the redis session store
// and injects the actor's user id. Company-level role checks happen in the
// services, not here.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			c.Abort()
			return
		}

		tokenStr := parts[1]
		userRep := &redis.UserRepository{}

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			c.Abort()
			return
		}

		originToken, err := userRep.GetUserToken(claims.UserID)
		if err != nil || originToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "session expired or logged in elsewhere"})
			c.Abort()
			return
		}

		if err := userRep.ExtendUserToken(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
