package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/ledgerline_backend/internal/core/domain"
	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
)

// actionHandler handles HTTP requests for the action review pipeline.
type actionHandler struct {
	actionService portssvc.ActionSvcFacade
}

func newActionHandler(actionService portssvc.ActionSvcFacade) *actionHandler {
	return &actionHandler{actionService: actionService}
}

// RegisterActionRoutes registers action routes nested under a specific
// entity group.
func RegisterActionRoutes(rg *gin.RouterGroup, actionService portssvc.ActionSvcFacade) {
	h := newActionHandler(actionService)

	actions := rg.Group("/actions")
	{
		actions.POST("", h.createAction)
		actions.GET("", h.listActions)
		actions.GET("/stats", h.getStats)
		actions.POST("/expire", h.expireStale)
		actions.POST("/batch-approve", h.batchApprove)
		actions.POST("/batch-reject", h.batchReject)
		actions.GET("/:actionID", h.getAction)
		actions.POST("/:actionID/approve", h.approveAction)
		actions.POST("/:actionID/reject", h.rejectAction)
	}
}

func (h *actionHandler) createAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")

	var req dto.CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	action, err := h.actionService.CreateAction(c.Request.Context(), tenantID, entityID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Action created",
		slog.String("action_id", action.ActionID),
		slog.String("action_type", string(action.Type)))
	c.JSON(http.StatusCreated, dto.ToActionResponse(action))
}

func (h *actionHandler) getAction(c *gin.Context) {
	tenantID, _, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")
	actionID := c.Param("actionID")

	action, err := h.actionService.GetActionByID(c.Request.Context(), tenantID, entityID, actionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActionResponse(action))
}

func (h *actionHandler) listActions(c *gin.Context) {
	tenantID, _, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")

	params := dto.ListActionsParams{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.ActionStatus(statusStr)
		switch status {
		case domain.Pending, domain.Approved, domain.Rejected, domain.Modified, domain.Expired:
			params.Status = &status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter: " + statusStr})
			return
		}
	}
	if typeStr := c.Query("type"); typeStr != "" {
		actionType := domain.ActionType(typeStr)
		params.Type = &actionType
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		params.Limit = limit
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	page, err := h.actionService.ListActions(c.Request.Context(), tenantID, entityID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *actionHandler) approveAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")
	actionID := c.Param("actionID")
	role := middleware.GetUserRoleFromContext(c)

	action, execution, err := h.actionService.ApproveAction(c.Request.Context(), tenantID, entityID, actionID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Action approved",
		slog.String("action_id", action.ActionID),
		slog.Bool("execution_success", execution == nil || execution.Success))
	c.JSON(http.StatusOK, dto.ApproveActionResponse{
		Action:    dto.ToActionResponse(action),
		Execution: execution,
	})
}

func (h *actionHandler) rejectAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")
	actionID := c.Param("actionID")

	action, err := h.actionService.RejectAction(c.Request.Context(), tenantID, entityID, actionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Action rejected", slog.String("action_id", action.ActionID))
	c.JSON(http.StatusOK, dto.ToActionResponse(action))
}

func (h *actionHandler) batchApprove(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")
	role := middleware.GetUserRoleFromContext(c)

	var req dto.BatchActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for batchApprove", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.actionService.BatchApprove(c.Request.Context(), tenantID, entityID, req.ActionIDs, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Batch approve completed",
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)))
	c.JSON(http.StatusOK, result)
}

func (h *actionHandler) batchReject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")

	var req dto.BatchActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for batchReject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.actionService.BatchReject(c.Request.Context(), tenantID, entityID, req.ActionIDs, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Batch reject completed",
		slog.Int("succeeded", len(result.Succeeded)),
		slog.Int("failed", len(result.Failed)))
	c.JSON(http.StatusOK, result)
}

func (h *actionHandler) expireStale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, _, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")

	expired, err := h.actionService.ExpireStaleActions(c.Request.Context(), tenantID, entityID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Stale actions expired", slog.Int64("count", expired))
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

func (h *actionHandler) getStats(c *gin.Context) {
	tenantID, _, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")

	stats, err := h.actionService.GetStats(c.Request.Context(), tenantID, entityID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActionStatsResponse(stats))
}
