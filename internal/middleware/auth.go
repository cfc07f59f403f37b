package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rendyzzx/jawa/internal/models"
)

// RequireAuth rejects requests without a valid session before any
// business logic runs. The check rides on InjectUser, so a session whose
// user disappeared is already treated as anonymous here.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireRole admits only sessions whose role is in the given set. A
// missing session yields 401; a valid session with the wrong role yields
// 403, so clients can tell "please log in" from "you lack permission".
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.Next()
	}
}
