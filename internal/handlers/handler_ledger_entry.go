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

// ledgerEntryHandler handles HTTP requests related to ledger entries.
type ledgerEntryHandler struct {
	entryService portssvc.LedgerEntrySvcFacade
}

func newLedgerEntryHandler(entryService portssvc.LedgerEntrySvcFacade) *ledgerEntryHandler {
	return &ledgerEntryHandler{entryService: entryService}
}

// RegisterLedgerEntryRoutes registers entry routes nested under a
// specific entity group.
func RegisterLedgerEntryRoutes(rg *gin.RouterGroup, entryService portssvc.LedgerEntrySvcFacade) {
	h := newLedgerEntryHandler(entryService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/approve", h.approveEntry)
		entries.POST("/:entryID/void", h.voidEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
	}
}

func (h *ledgerEntryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), tenantID, entityID, req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Ledger entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

func (h *ledgerEntryHandler) getEntry(c *gin.Context) {
	tenantID, _, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")
	entryID := c.Param("entryID")

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), tenantID, entityID, entryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *ledgerEntryHandler) listEntries(c *gin.Context) {
	tenantID, _, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")

	params := dto.ListEntriesParams{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.EntryStatus(statusStr)
		if status != domain.Draft && status != domain.Posted && status != domain.Voided {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter: " + statusStr})
			return
		}
		params.Status = &status
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
	params.IncludeLines = c.Query("includeLines") == "true"

	page, err := h.entryService.ListEntries(c.Request.Context(), tenantID, entityID, params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ledgerEntryHandler) approveEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")
	entryID := c.Param("entryID")
	role := middleware.GetUserRoleFromContext(c)

	entry, err := h.entryService.ApproveEntry(c.Request.Context(), tenantID, entityID, entryID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Ledger entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("approved_by", userID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

func (h *ledgerEntryHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")
	entryID := c.Param("entryID")

	result, err := h.entryService.VoidEntry(c.Request.Context(), tenantID, entityID, entryID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Ledger entry voided",
		slog.String("entry_id", result.VoidedEntryID),
		slog.String("reversal_entry_id", result.ReversalEntryID))
	c.JSON(http.StatusOK, result)
}

func (h *ledgerEntryHandler) deleteEntry(c *gin.Context) {
	tenantID, userID, ok := identityFromContext(c)
	if !ok {
		return
	}
	entityID := c.Param("entityID")
	entryID := c.Param("entryID")

	if err := h.entryService.DeleteEntry(c.Request.Context(), tenantID, entityID, entryID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
