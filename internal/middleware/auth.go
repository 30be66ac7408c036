package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crickpro/pkg/matchresponse"
	"github.com/DhavalSuthar-24/crickpro/pkg/token"
)

const (
	AuthUserIDKey = "auth_user_id"
	// AccessTokenQuery carries the token for clients that cannot set headers,
	// such as browser WebSockets.
	AccessTokenQuery = "access_token"
)

// AuthMiddleware validates the access token and checks the user still exists.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c)
		if err != nil {
			matchresponse.ErrorResponse(c, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := token.ValidateJWT(raw, jwtSecret)
		if err != nil {
			matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token: "+err.Error())
			return
		}

		var count int64
		if err := db.WithContext(c.Request.Context()).Table("users").
			Where("id = ? AND deleted_at IS NULL", claims.UserID).
			Count(&count).Error; err != nil || count == 0 {
			matchresponse.ErrorResponse(c, http.StatusUnauthorized, "User not found or inactive")
			return
		}

		c.Set(AuthUserIDKey, claims.UserID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := c.Query(AccessTokenQuery); q != "" {
			return q, nil
		}
		return "", errors.New("Authorization header is required")
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("Invalid Authorization header format. Expected: Bearer <token>")
	}
	return parts[1], nil
}

// GetUserIDFromContext extracts the user ID from the context
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := c.Get(AuthUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}

	uid, ok := userID.(uint)
	if !ok {
		return 0, fmt.Errorf("user ID has unexpected type: %T", userID)
	}

	return uid, nil
}
