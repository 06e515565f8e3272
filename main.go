package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/mbevents/dashboard-go/config"
	routes "github.com/mbevents/dashboard-go/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.NewLogger().Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cfg.MongoClient.Disconnect(ctx)
	}()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	routes.SetupRoutes(r, cfg)

	cfg.Logger.Info("listening", "port", cfg.Port, "db", cfg.DBName)
	if err := r.Run(":" + cfg.Port); err != nil {
		cfg.Logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
