package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ktinsight-be/config"
	"ktinsight-be/gateway"
	"ktinsight-be/routes"
	"ktinsight-be/storage"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid server configuration")
	}

	config.ConnectRedis(cfg)

	store := storage.NewClient(cfg.SupabaseURL, cfg.ServiceRole)
	incidents := gateway.NewClient(cfg.SupabaseURL, cfg.ServiceRole)

	r := gin.Default()
	r.HandleMethodNotAllowed = true

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "x-admin-token"}
	r.Use(cors.New(corsConfig))

	routes.ReportRoutes(r, cfg, store, incidents)
	routes.EvidenceRoutes(r, cfg, store)
	routes.AuthRoutes(r, cfg)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	log.Info().Str("port", cfg.Port).Msg("Starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
