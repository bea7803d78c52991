package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockyard/internal/domain/models"
	"github.com/mamadbah2/stockyard/internal/repository/mongodb"
	"github.com/mamadbah2/stockyard/internal/service/herds"
)

// HerdHandler exposes herd CRUD over HTTP.
type HerdHandler struct {
	svc    *herds.Service
	logger *zap.Logger
}

// NewHerdHandler constructs the HTTP handler adapter for herd operations.
func NewHerdHandler(svc *herds.Service, logger *zap.Logger) *HerdHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HerdHandler{svc: svc, logger: logger}
}

// Create stores a new herd group.
func (h *HerdHandler) Create(c *gin.Context) {
	var herd models.HerdGroup
	if err := c.ShouldBindJSON(&herd); err != nil {
		h.logger.Warn("invalid herd payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), herd)
	if err != nil {
		h.respondError(c, err, "failed creating herd")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List returns every herd.
func (h *HerdHandler) List(c *gin.Context) {
	all, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed listing herds")
		return
	}
	if all == nil {
		all = []models.HerdGroup{}
	}
	c.JSON(http.StatusOK, all)
}

// Get returns one herd by id.
func (h *HerdHandler) Get(c *gin.Context) {
	herd, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed loading herd")
		return
	}
	c.JSON(http.StatusOK, herd)
}

// Update replaces an existing herd.
func (h *HerdHandler) Update(c *gin.Context) {
	var herd models.HerdGroup
	if err := c.ShouldBindJSON(&herd); err != nil {
		h.logger.Warn("invalid herd payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), herd)
	if err != nil {
		h.respondError(c, err, "failed updating herd")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes a herd.
func (h *HerdHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "failed deleting herd")
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkSold flags a herd as sold.
func (h *HerdHandler) MarkSold(c *gin.Context) {
	var body struct {
		SoldAt *time.Time `json:"sold_at"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid sold payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	soldAt := time.Time{}
	if body.SoldAt != nil {
		soldAt = *body.SoldAt
	}

	herd, err := h.svc.MarkSold(c.Request.Context(), c.Param("id"), soldAt)
	if err != nil {
		h.respondError(c, err, "failed marking herd sold")
		return
	}
	c.JSON(http.StatusOK, herd)
}

func (h *HerdHandler) respondError(c *gin.Context, err error, logMessage string) {
	switch {
	case errors.Is(err, mongodb.ErrHerdNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "herd not found"})
	case isValidationError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error(logMessage, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, models.ErrHeadCountInvalid) ||
		errors.Is(err, models.ErrSpeciesUnknown) ||
		errors.Is(err, models.ErrCategoryMissing) ||
		errors.Is(err, models.ErrJoinedDateMissing) ||
		errors.Is(err, models.ErrPreviousGainMissing) ||
		errors.Is(err, models.ErrGainChangeTooEarly)
}
