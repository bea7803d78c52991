package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/internal/repository/mongodb"
	"github.com/mamadbah2/stockyard/internal/service/portfolio"
	"github.com/mamadbah2/stockyard/internal/service/pricing"
)

const asOfLayout = "2006-01-02"

// ValuationHandler exposes valuation, preferences and price cache
// operations over HTTP.
type ValuationHandler struct {
	portfolioSvc *portfolio.Service
	prefs        mongodb.PreferenceRepository
	herds        mongodb.HerdRepository
	resolver     *pricing.Resolver
	logger       *zap.Logger
	now          func() time.Time
}

// NewValuationHandler constructs the HTTP handler adapter for valuations.
func NewValuationHandler(portfolioSvc *portfolio.Service, prefs mongodb.PreferenceRepository, herds mongodb.HerdRepository, resolver *pricing.Resolver, logger *zap.Logger) *ValuationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValuationHandler{
		portfolioSvc: portfolioSvc,
		prefs:        prefs,
		herds:        herds,
		resolver:     resolver,
		logger:       logger,
		now:          time.Now,
	}
}

// ValuateHerd values a single herd, optionally as of a past date and
// against an overridden saleyard.
func (h *ValuationHandler) ValuateHerd(c *gin.Context) {
	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	valuation, err := h.portfolioSvc.ValuateHerd(c.Request.Context(), c.Param("id"), asOf, c.Query("saleyard"))
	if err != nil {
		if errors.Is(err, mongodb.ErrHerdNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "herd not found"})
			return
		}
		h.logger.Error("failed valuing herd", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, valuation)
}

// ValuatePortfolio values every unsold herd.
func (h *ValuationHandler) ValuatePortfolio(c *gin.Context) {
	asOf, ok := h.parseAsOf(c)
	if !ok {
		return
	}

	result, err := h.portfolioSvc.ValuatePortfolio(c.Request.Context(), asOf)
	if err != nil {
		h.logger.Error("failed valuing portfolio", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetPreferences returns the stored valuation preferences.
func (h *ValuationHandler) GetPreferences(c *gin.Context) {
	prefs, err := h.prefs.LoadPreferences(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading preferences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// PutPreferences replaces the stored valuation preferences.
func (h *ValuationHandler) PutPreferences(c *gin.Context) {
	var prefs models.ValuationPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		h.logger.Warn("invalid preferences payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if prefs.AnnualMortalityRate < 0 || prefs.MonthlyAgistmentCost < 0 || prefs.MonthlyFeedCost < 0 || prefs.MonthlyVetCost < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "rates and costs must be non-negative"})
		return
	}

	if err := h.prefs.SavePreferences(c.Request.Context(), prefs); err != nil {
		h.logger.Error("failed saving preferences", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// RefreshPrices triggers a best-effort bulk prefetch.
func (h *ValuationHandler) RefreshPrices(c *gin.Context) {
	allHerds, err := h.herds.ListHerds(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing herds for refresh", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	h.resolver.Prefetch(c.Request.Context(), allHerds)
	h.PriceStatus(c)
}

// PriceStatus reports the observable state of the price cache.
func (h *ValuationHandler) PriceStatus(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, gin.H{
		"offline":        h.resolver.Offline(),
		"stale":          h.resolver.Stale(now),
		"cache_size":     h.resolver.CacheSize(),
		"last_refreshed": h.resolver.LastRefreshed(),
	})
}

// ClearPriceCache drops every cached price.
func (h *ValuationHandler) ClearPriceCache(c *gin.Context) {
	h.resolver.ClearCache()
	c.Status(http.StatusNoContent)
}

func (h *ValuationHandler) parseAsOf(c *gin.Context) (time.Time, bool) {
	raw := c.Query("asOf")
	if raw == "" {
		return h.now().UTC(), true
	}
	asOf, err := time.Parse(asOfLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "asOf must be formatted YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}
