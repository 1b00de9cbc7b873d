package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"envizi_webhook/internal/domain"
	"envizi_webhook/internal/template"
)

// TemplateHandler serves Envizi template definitions
type TemplateHandler struct {
	provider *template.Provider
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(provider *template.Provider) *TemplateHandler {
	return &TemplateHandler{provider: provider}
}

// ListTemplates handles GET /api/templates
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.provider.ListTemplates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     len(templates),
		"templates": templates,
	})
}

// GetTemplate handles GET /api/templates/:name
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	tmpl, err := h.provider.GetTemplate(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, template.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tmpl)
}

// SaveTemplate handles POST /api/templates
func (h *TemplateHandler) SaveTemplate(c *gin.Context) {
	var tmpl domain.Template
	if err := c.ShouldBindJSON(&tmpl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid template"})
		return
	}
	if tmpl.Name == "" || len(tmpl.Fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Template name and fields are required"})
		return
	}

	if err := h.provider.SaveTemplate(c.Request.Context(), &tmpl); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "success",
		"message":  "Template saved",
		"template": tmpl,
	})
}
