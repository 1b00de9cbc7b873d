package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"envizi_webhook/internal/service"
	"envizi_webhook/internal/template"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, svc *service.Service, provider *template.Provider) {
	h := NewHandler(svc)
	th := NewTemplateHandler(provider)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Webhook management
		webhooks := api.Group("/webhooks")
		{
			webhooks.GET("", h.ListWebhooks)
			webhooks.POST("", h.CreateWebhook)
			webhooks.POST("/validate", h.ValidateWebhook)
			webhooks.GET("/:id", h.GetWebhook)
			webhooks.PUT("/:id", h.UpdateWebhook)
			webhooks.DELETE("/:id", h.DeleteWebhook)

			// Pipeline operations
			webhooks.POST("/:id/validate", h.ValidateStoredWebhook)
			webhooks.POST("/:id/test", h.TestWebhook)
			webhooks.POST("/:id/execute", h.ExecuteWebhook)
			webhooks.GET("/:id/history", h.GetHistory)

			// Mapping workflow
			webhooks.POST("/:id/suggest", h.SuggestMappings)
			webhooks.PUT("/:id/mappings", h.OverrideMappings)
		}

		// Mapping preview from a captured sample
		api.POST("/mappings/suggest", h.SuggestForSample)

		// Envizi templates
		templates := api.Group("/templates")
		{
			templates.GET("", th.ListTemplates)
			templates.POST("", th.SaveTemplate)
			templates.GET("/:name", th.GetTemplate)
		}
	}
}
