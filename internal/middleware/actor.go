package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/fintera-ledger/internal/services"
)

// UserIDHeader names the caller for audit purposes. It is not authenticated.
const UserIDHeader = "X-User-ID"

const userIDKey = "userID"

// Actor reads the caller identity from X-User-ID. Missing or malformed values
// leave the request anonymous.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader(UserIDHeader); raw != "" {
			if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
				c.Set(userIDKey, uint(v))
			}
		}
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0
	}
	return userID.(uint)
}

// ActorFrom builds the audit actor for the current request
func ActorFrom(c *gin.Context) services.Actor {
	return services.Actor{
		UserID:    GetUserID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: GetRequestID(c),
	}
}
