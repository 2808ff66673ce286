package routes

import (
	"github.com/gin-gonic/gin"

	"ktinsight-be/config"
	"ktinsight-be/controllers"
	"ktinsight-be/middlewares"
	"ktinsight-be/storage"
)

// EvidenceRoutes sets up the evidence upload and signed-handle routes.
func EvidenceRoutes(r *gin.Engine, cfg *config.Config, store *storage.Client) {
	api := r.Group("/api")
	{
		api.POST("/upload", middlewares.ReportRateLimiter(cfg), controllers.UploadEvidence(cfg, store))
		api.POST("/sign-upload", middlewares.ReportRateLimiter(cfg), controllers.SignUpload(cfg, store))
		api.GET("/evidence", controllers.RedirectEvidence(store))
	}
}
