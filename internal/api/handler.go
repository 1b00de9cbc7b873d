package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"envizi_webhook/internal/domain"
	"envizi_webhook/internal/repository"
	"envizi_webhook/internal/service"
	"envizi_webhook/internal/template"
	"envizi_webhook/pkg/logger"
)

// Handler handles webhook HTTP requests
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateWebhook handles POST /api/webhooks
func (h *Handler) CreateWebhook(c *gin.Context) {
	var cfg domain.WebhookConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook config"})
		return
	}

	if err := h.svc.CreateWebhook(c.Request.Context(), &cfg); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Webhook created",
		"webhook": cfg,
	})
}

// ListWebhooks handles GET /api/webhooks
func (h *Handler) ListWebhooks(c *gin.Context) {
	webhooks, err := h.svc.ListWebhooks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(webhooks),
		"webhooks": webhooks,
	})
}

// GetWebhook handles GET /api/webhooks/:id
func (h *Handler) GetWebhook(c *gin.Context) {
	cfg, err := h.svc.GetWebhook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// UpdateWebhook handles PUT /api/webhooks/:id
func (h *Handler) UpdateWebhook(c *gin.Context) {
	id := c.Param("id")

	var cfg domain.WebhookConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook config"})
		return
	}

	if err := h.svc.UpdateWebhook(c.Request.Context(), id, &cfg); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Webhook updated",
		"webhook": cfg,
	})
}

// DeleteWebhook handles DELETE /api/webhooks/:id
func (h *Handler) DeleteWebhook(c *gin.Context) {
	if err := h.svc.DeleteWebhook(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Webhook deleted",
	})
}

// ValidateWebhook handles POST /api/webhooks/validate
func (h *Handler) ValidateWebhook(c *gin.Context) {
	var cfg domain.WebhookConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook config"})
		return
	}

	errs := service.ValidateConfig(&cfg)
	c.JSON(http.StatusOK, gin.H{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

// ValidateStoredWebhook handles POST /api/webhooks/:id/validate
func (h *Handler) ValidateStoredWebhook(c *gin.Context) {
	errs, err := h.svc.ValidateWebhook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

// TestWebhook handles POST /api/webhooks/:id/test
func (h *Handler) TestWebhook(c *gin.Context) {
	result, err := h.svc.Test(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExecuteWebhook handles POST /api/webhooks/:id/execute
func (h *Handler) ExecuteWebhook(c *gin.Context) {
	result, err := h.svc.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHistory handles GET /api/webhooks/:id/history
func (h *Handler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	limit := getIntParam(c, "limit", 50)

	history, err := h.svc.ExecutionHistory(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(history),
		"history": history,
	})
}

// SuggestMappings handles POST /api/webhooks/:id/suggest
func (h *Handler) SuggestMappings(c *gin.Context) {
	cfg, err := h.svc.GetWebhook(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.svc.SuggestMappings(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SuggestForSample handles POST /api/mappings/suggest. The caller posts
// a captured sample record plus a template name and gets the proposed
// mapping back, so the UI can preview before any webhook exists.
func (h *Handler) SuggestForSample(c *gin.Context) {
	var req struct {
		Template string        `json:"template"`
		Record   domain.Record `json:"record"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Template == "" || len(req.Record) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template name and sample record are required"})
		return
	}

	result, err := h.svc.SuggestFromSample(c.Request.Context(), req.Template, req.Record)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OverrideMappings handles PUT /api/webhooks/:id/mappings
func (h *Handler) OverrideMappings(c *gin.Context) {
	id := c.Param("id")

	var overrides []service.MappingOverride
	if err := c.ShouldBindJSON(&overrides); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mapping overrides"})
		return
	}

	cfg, err := h.svc.ApplyOverrides(c.Request.Context(), id, overrides)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "Mappings updated",
		"mappings": cfg.Mapping,
	})
}

func respondError(c *gin.Context, err error) {
	var cfgErr *service.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Invalid webhook config",
			"errors": cfgErr.Errors,
		})
	case errors.Is(err, repository.ErrWebhookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Webhook not found"})
	case errors.Is(err, template.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
	default:
		logger.Error("Request failed: " + err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Helper functions
func getIntParam(c *gin.Context, key string, defaultValue int) int {
	if value := c.Query(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}
