package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/crickpro/internal/middleware"
	"github.com/DhavalSuthar-24/crickpro/pkg/matchresponse"
)

const UserRolesKey = "user_roles"

// RoleLookup returns the role names held by a user.
type RoleLookup interface {
	GetUserRoles(userID uint) ([]string, error)
}

// RoleMiddleware lets the request through when the authenticated user holds
// any of requiredRoles. It must run after middleware.AuthMiddleware.
func RoleMiddleware(lookup RoleLookup, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.GetUserIDFromContext(c)
		if err != nil {
			matchresponse.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
			return
		}

		userRoles, err := lookup.GetUserRoles(userID)
		if err != nil {
			matchresponse.ErrorResponse(c, http.StatusInternalServerError, "Failed to get user roles")
			return
		}

		if !hasAnyRole(userRoles, requiredRoles) {
			matchresponse.ErrorResponse(c, http.StatusForbidden, "You don't have permission to access this resource")
			return
		}

		c.Set(UserRolesKey, userRoles)
		c.Next()
	}
}

func hasAnyRole(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware(lookup RoleLookup) gin.HandlerFunc {
	return RoleMiddleware(lookup, "admin")
}
