package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	portssvc "github.com/triptally/fx_backend/internal/core/ports/services"
	"github.com/triptally/fx_backend/internal/middleware"
	"github.com/triptally/fx_backend/pkg/config"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// The FX group is rate limited: every cache miss can cost an upstream API call.
	limiterInstance := limiter.New(memorystore.NewStore(), limiter.Rate{
		Period: cfg.FxRateLimitPeriod,
		Limit:  cfg.FxRateLimitRequests,
	})

	v1 := r.Group("/api/v1", middleware.RateLimit(limiterInstance))

	registerFxRoutes(v1, services)
}

// registerValidators installs custom binding rules shared by the DTOs.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			return isCurrencyCode(fl.Field().String())
		})
	}
}

// isCurrencyCode reports whether code looks like a 3-letter ISO 4217 code.
func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}
