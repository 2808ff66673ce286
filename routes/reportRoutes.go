package routes

import (
	"github.com/gin-gonic/gin"

	"ktinsight-be/config"
	"ktinsight-be/controllers"
	"ktinsight-be/gateway"
	"ktinsight-be/middlewares"
	"ktinsight-be/storage"
)

// ReportRoutes sets up report submission, the public feed, and the
// admin review surface.
func ReportRoutes(r *gin.Engine, cfg *config.Config, store *storage.Client, incidents *gateway.Client) {
	api := r.Group("/api")
	{
		api.POST("/report", middlewares.ReportRateLimiter(cfg), controllers.SubmitReport(cfg, store, incidents))
		api.GET("/incidents", controllers.ListIncidents(incidents))
		api.GET("/pending-incidents", middlewares.AdminAuth(cfg), controllers.ListPendingIncidents(incidents))
		api.POST("/review-incident", middlewares.AdminAuth(cfg), controllers.ReviewIncident(incidents))
	}
}
