package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/load-files", handler.ListFiles)
		v1.POST("/load-files", handler.UploadFile)
		v1.DELETE("/load-files/:id", handler.DeleteFile)
		v1.GET("/load-files/:id/status", handler.GetFileStatus)

		v1.GET("/load-files/view", handler.FlatView)
		v1.GET("/load-files/grouped", handler.TermView)

		v1.GET("/billing-reports", handler.ListBillingReports)
	}
}
