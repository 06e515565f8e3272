package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/mbevents/dashboard-go/config"
	controllers "github.com/mbevents/dashboard-go/controllers"
	middleware "github.com/mbevents/dashboard-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// public
	r.POST("/auth/register", controllers.Register(cfg))
	r.POST("/auth/login", controllers.Login(cfg))

	// protected
	auth := middleware.AuthMiddleware(cfg)

	events := r.Group("/events")
	events.Use(auth)
	{
		events.POST("", controllers.CreateEvent(cfg))
		events.GET("", controllers.ListEvents(cfg))
		events.GET("/:id", controllers.GetEvent(cfg))
		events.PATCH("/:id", controllers.UpdateEvent(cfg))
		events.DELETE("/:id", controllers.DeleteEvent(cfg))
	}

	categories := r.Group("/categories")
	categories.Use(auth)
	{
		categories.POST("", controllers.CreateCategory(cfg))
		categories.GET("", controllers.ListCategories(cfg))
		categories.PATCH("/:id", controllers.UpdateCategory(cfg))
		categories.DELETE("/:id", controllers.DeleteCategory(cfg))
	}

	// live snapshot streams (SSE)
	live := r.Group("/live")
	live.Use(auth)
	{
		live.GET("/events", controllers.LiveEvents(cfg))
		live.GET("/categories", controllers.LiveCategories(cfg))
	}

	r.GET("/stats", auth, controllers.GetStats(cfg))
}
