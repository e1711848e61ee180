package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/triptally/fx_backend/internal/apperrors"
	"github.com/triptally/fx_backend/internal/core/domain"
	portssvc "github.com/triptally/fx_backend/internal/core/ports/services"
	"github.com/triptally/fx_backend/internal/dto"
	"github.com/triptally/fx_backend/internal/middleware"
)

// fxHandler handles HTTP requests related to FX rate resolution.
type fxHandler struct {
	fxResolver     portssvc.FxResolverSvcFacade
	dailyConverter portssvc.DailyConverterSvcFacade
}

// newFxHandler creates a new fxHandler.
func newFxHandler(resolver portssvc.FxResolverSvcFacade, daily portssvc.DailyConverterSvcFacade) *fxHandler {
	return &fxHandler{
		fxResolver:     resolver,
		dailyConverter: daily,
	}
}

// registerFxRoutes registers routes related to FX resolution.
func registerFxRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newFxHandler(services.FxResolver, services.DailyConverter)

	fx := rg.Group("/fx")
	{
		fx.GET("/rates/:from/:to", h.getRate)
		fx.POST("/convert", h.convertAmount)
		fx.POST("/prefetch", h.prefetchRates)
	}
}

// getRate godoc
// @Summary Resolve a conversion rate for a currency pair
// @Description Resolves through the daily snapshot cache first, falling back to a per-pair live lookup
// @Tags fx
// @Produce json
// @Param from path string true "Source currency code (ISO 4217)"
// @Param to path string true "Target currency code (ISO 4217)"
// @Param bases query string false "Comma-separated preferred pivot bases (default USD)"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid currency code"
// @Router /fx/rates/{from}/{to} [get]
func (h *fxHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from := strings.ToUpper(c.Param("from"))
	to := strings.ToUpper(c.Param("to"))
	if !isCurrencyCode(from) || !isCurrencyCode(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency codes must be 3 letters"})
		return
	}

	resp := dto.RateResponse{FromCurrency: from, ToCurrency: to}

	pivoted, err := h.dailyConverter.Resolve(c.Request.Context(), from, to, parseBases(c.Query("bases")))
	if err == nil {
		resp.Rate = pivoted.Rate
		resp.Source = string(domain.RateSourceDailyCache)
		resp.Base = pivoted.Base
		c.JSON(http.StatusOK, resp)
		return
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Daily rate resolution failed unexpectedly", slog.String("error", err.Error()))
	}

	// Per-pair resolver never fails; worst case is a flagged fallback rate.
	result := h.fxResolver.GetRate(c.Request.Context(), from, to)
	resp.Rate = result.Rate
	resp.Source = string(result.Source)
	resp.Warning = result.Warning
	c.JSON(http.StatusOK, resp)
}

// convertAmount godoc
// @Summary Convert a monetary amount between currencies
// @Description Converts using the daily snapshot cache when possible; degraded conversions return rate 1 with a warning rather than failing
// @Tags fx
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertAmountRequest true "Amount and currency pair"
// @Success 200 {object} dto.ConvertAmountResponse
// @Failure 400 {object} map[string]string "Invalid request format or validation error"
// @Router /fx/convert [post]
func (h *fxHandler) convertAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertAmount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	conv := h.dailyConverter.ConvertAmount(c.Request.Context(), req.Amount, req.FromCurrency, req.ToCurrency)
	if conv.Meta.Warning != "" {
		logger.Warn("Conversion degraded to fallback rate",
			slog.String("from", req.FromCurrency),
			slog.String("to", req.ToCurrency),
			slog.String("warning", conv.Meta.Warning),
		)
	}
	c.JSON(http.StatusOK, dto.ToConvertAmountResponse(conv))
}

// prefetchRates godoc
// @Summary Warm the in-memory rate cache for a set of currency pairs
// @Description Best-effort batch warm-up; individual pair failures are ignored
// @Tags fx
// @Accept json
// @Produce json
// @Param pairs body dto.PrefetchRequest true "Currency pairs to warm"
// @Success 202 {object} map[string]int
// @Failure 400 {object} map[string]string "Invalid request format or validation error"
// @Router /fx/prefetch [post]
func (h *fxHandler) prefetchRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PrefetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PrefetchRates", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.fxResolver.PrefetchRates(c.Request.Context(), dto.ToCurrencyPairs(req.Pairs))
	c.JSON(http.StatusAccepted, gin.H{"requested": len(req.Pairs)})
}

func parseBases(raw string) []string {
	if raw == "" {
		return nil
	}
	var bases []string
	for _, base := range strings.Split(raw, ",") {
		if base = strings.TrimSpace(base); base != "" {
			bases = append(bases, strings.ToUpper(base))
		}
	}
	return bases
}
