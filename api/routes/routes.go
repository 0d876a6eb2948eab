package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rotostampa/pdf-handler/api/handlers"
	"github.com/rotostampa/pdf-handler/api/middleware"
)

// Setup wires all endpoints onto a gin engine.
func Setup(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/split", h.Split.SplitDocument)
		v1.POST("/split/url", h.Split.SplitFromURL)
		v1.POST("/metadata", h.Split.Metadata)

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", h.Split.CreateJob)
			jobs.POST("/url", h.Split.CreateJobFromURL)
			jobs.GET("/:jobId", h.Split.GetJob)
			jobs.GET("/:jobId/pages/:pageNo", h.Split.DownloadPage)
			jobs.DELETE("/:jobId", h.Split.CancelJob)
		}
	}
}
