package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbrandt/werkstatt-api/services"
)

// Header names the upstream gateway uses to pass the acting user along
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
	HeaderUserRole = "X-User-Role"
)

// ExtractActor reads the acting user from the request headers into the Gin
// context. A missing role defaults to client.
func ExtractActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader(HeaderUserRole)
		if role == "" {
			role = services.RoleClient
		}
		c.Set("actor", services.Actor{
			ID:   c.GetHeader(HeaderUserID),
			Name: c.GetHeader(HeaderUserName),
			Role: role,
		})
		c.Next()
	}
}

// GetActor extracts the acting user from the Gin context
func GetActor(c *gin.Context) (services.Actor, error) {
	value, exists := c.Get("actor")
	if !exists {
		return services.Actor{}, &ActorError{Code: "MISSING_ACTOR", Message: "Actor not found in context"}
	}

	actor, ok := value.(services.Actor)
	if !ok {
		return services.Actor{}, &ActorError{Code: "INVALID_ACTOR", Message: "Actor is not in the expected format"}
	}

	return actor, nil
}

// RequireRole aborts the request unless the acting user has one of the
// given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := GetActor(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_ACTOR",
					"message": "Could not determine the acting user",
				},
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_ROLE",
				"message": "Insufficient permissions to access this resource",
			},
		})
		c.Abort()
	}
}

// ActorError represents a problem resolving the acting user
type ActorError struct {
	Code    string
	Message string
}

func (e *ActorError) Error() string {
	return e.Message
}
