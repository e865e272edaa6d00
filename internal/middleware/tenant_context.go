package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
)

const (
	tenantIDKey = contextKey("tenantID")
	userIDKey   = contextKey("userID")
	userRoleKey = contextKey("userRole")
)

// Identity headers set by the upstream gateway. Authentication and
// tenant resolution happen there; this service only trusts the result.
const (
	HeaderTenantID = "X-Tenant-ID"
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// TenantContextMiddleware extracts the caller identity headers and
// stores them in the Gin context. Requests without a tenant and user
// are rejected before any handler runs.
func TenantContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(HeaderTenantID)
		userID := c.GetHeader(HeaderUserID)
		if tenantID == "" || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing caller identity"})
			return
		}

		role := domain.UserRole(c.GetHeader(HeaderUserRole))
		if role == "" {
			role = domain.RoleReadOnly
		}

		c.Set(string(tenantIDKey), tenantID)
		c.Set(string(userIDKey), userID)
		c.Set(string(userRoleKey), role)

		// Mirror the actor into the request context so non-HTTP layers
		// (audit, background work) can see it without depending on gin.
		c.Request = c.Request.WithContext(ContextWithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

// GetTenantIDFromContext retrieves the caller's tenant ID.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(tenantIDKey))
	if !exists {
		return "", false
	}
	tenantID, ok := val.(string)
	return tenantID, ok
}

// GetUserIDFromContext retrieves the authenticated user's ID.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := val.(string)
	return userID, ok
}

// ContextWithUserID attaches the acting user's ID to a plain context.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx retrieves the acting user's ID from a plain context.
// Returns "system" when no request identity is attached.
func UserIDFromCtx(ctx context.Context) string {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "system"
	}
	return userID
}

// GetUserRoleFromContext retrieves the caller's role, defaulting to
// read-only when absent.
func GetUserRoleFromContext(c *gin.Context) domain.UserRole {
	val, exists := c.Get(string(userRoleKey))
	if !exists {
		return domain.RoleReadOnly
	}
	role, ok := val.(domain.UserRole)
	if !ok {
		return domain.RoleReadOnly
	}
	return role
}
