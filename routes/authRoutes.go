package routes

import (
	"github.com/gin-gonic/gin"

	"ktinsight-be/config"
	"ktinsight-be/controllers"
)

// AuthRoutes sets up the site password gate.
func AuthRoutes(r *gin.Engine, cfg *config.Config) {
	api := r.Group("/api")
	{
		api.POST("/auth", controllers.SiteLogin(cfg))
		api.GET("/session", controllers.SessionCheck(cfg))
	}
}
