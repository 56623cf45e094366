// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	userRepo "civicdesk/database/repository/user"
	"civicdesk/models"
	"civicdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	CtxUserID     = "userID"
	CtxRole       = "role"
	CtxDepartment = "department"
)

// JWTAuthMiddleware validates the bearer token and, when users is non-nil, checks the
// account still exists and is approved.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abort(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Validate the token signature and expiration.
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		role, department := claims.Role, claims.Department
		if users != nil {
			usr, err := users.GetByID(c.Request.Context(), claims.Subject)
			if err != nil {
				utils.GetLogger().Error("auth lookup failed", zap.String("userID", claims.Subject), zap.Error(err))
				abort(c, http.StatusInternalServerError, "Authentication error")
				return
			}
			if usr == nil || usr.Status != models.StatusApproved {
				abort(c, http.StatusUnauthorized, "Account not found or not approved")
				return
			}
			role, department = usr.Role, usr.DepartmentName
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, role)
		c.Set(CtxDepartment, department)
		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, utils.ErrorResponse{Success: false, Message: message})
}
