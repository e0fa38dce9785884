package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stwalsh4118/landbook/internal/auth"
)

// OwnerIDKey is the context key for the authenticated owner.
const OwnerIDKey = "owner_id"

// Auth rejects requests without a valid bearer token and stores the token's
// owner in the context. The 401 body mirrors the errors package envelope.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			unauthorized(c, "Missing or malformed Authorization header")
			return
		}

		ownerID, err := auth.ValidateToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Warn("Rejected bearer token", map[string]interface{}{"reason": err.Error()})
			}
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(OwnerIDKey, ownerID)
		if log := GetLogger(c); log != nil {
			c.Set(LoggerKey, log.WithOwner(ownerID.String()))
		}

		c.Next()
	}
}

// GetOwnerID returns the authenticated owner. ok is false outside Auth.
func GetOwnerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(OwnerIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func unauthorized(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="landbook"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
