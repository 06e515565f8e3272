package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/mbevents/dashboard-go/config"
	store "github.com/mbevents/dashboard-go/store"
)

// GetStats serves the dashboard home cards: event, category and attendee
// totals plus highlight and modality counts.
func GetStats(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		stats, err := st.Stats(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
