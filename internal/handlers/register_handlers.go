package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	portssvc "github.com/ledgerline/ledgerline_backend/internal/core/ports/services"
	"github.com/ledgerline/ledgerline_backend/internal/dto"
	"github.com/ledgerline/ledgerline_backend/internal/middleware"
	"github.com/ledgerline/ledgerline_backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	registry *prometheus.Registry,
) {
	RegisterCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	if registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// Setup API v1 routes with tenant context middleware
	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.TenantContextMiddleware())

	// Routes specific to a single entity (identified by entityID)
	entitySpecific := v1.Group("/entities/:entityID")
	{
		RegisterLedgerEntryRoutes(entitySpecific, services.LedgerEntry)
		RegisterActionRoutes(entitySpecific, services.Action)
	}
}

// RegisterCustomValidators installs the binding rules the DTOs rely
// on. Safe to call more than once; re-registering overwrites.
func RegisterCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// oneamount: exactly one of DebitAmount/CreditAmount is non-zero.
	_ = v.RegisterValidation("oneamount", func(fl validator.FieldLevel) bool {
		line, ok := fl.Parent().Interface().(dto.CreateLineRequest)
		if !ok {
			return true
		}
		return (line.DebitAmount > 0) != (line.CreditAmount > 0)
	})
}
