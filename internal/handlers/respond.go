package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline_backend/internal/apperrors"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
)

// respondError translates a service error into the JSON error envelope.
// AppErrors carry their own HTTP status and stable code; anything else
// is an internal error and the raw message stays out of the response.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if appErr, ok := apperrors.AsAppError(err); ok {
		if appErr.Status >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("code", string(appErr.Code)), slog.String("error", appErr.Error()))
		} else {
			logger.Warn("Request rejected", slog.String("code", string(appErr.Code)), slog.String("error", appErr.Error()))
		}
		c.JSON(appErr.Status, gin.H{"error": appErr.Message, "code": appErr.Code})
		return
	}

	logger.Error("Unhandled error in handler", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": apperrors.CodeInternal})
}

// identityFromContext pulls the authenticated tenant and user set by
// the tenant context middleware. Both are guaranteed present behind
// that middleware; the bool guards direct handler tests.
func identityFromContext(c *gin.Context) (tenantID, userID string, ok bool) {
	tenantID, ok = middleware.GetTenantIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	userID, ok = middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", "", false
	}
	return tenantID, userID, true
}
