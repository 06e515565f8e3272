package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/mbevents/dashboard-go/config"
	session "github.com/mbevents/dashboard-go/session"
	store "github.com/mbevents/dashboard-go/store"
)

type categoryInput struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// ---------------- CREATE ----------------
func CreateCategory(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		var input categoryInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		form := session.NewCategoryForm(st)
		form.Load(nil)
		form.SetField("name", input.Name)
		form.SetField("description", input.Description)

		id, err := form.Submit(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}

		category, err := st.GetCategory(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// ---------------- LIST ----------------
func ListCategories(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		categories, err := st.FindCategories(c.Request.Context(), "name", store.Ascending)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// ---------------- UPDATE ----------------
func UpdateCategory(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		existing, err := st.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		var input categoryInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		form := session.NewCategoryForm(st)
		form.Load(&existing)
		if input.Name != "" {
			form.SetField("name", input.Name)
		}
		form.SetField("description", input.Description)

		id, err := form.Submit(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}

		updated, err := st.GetCategory(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "category updated successfully",
			"category": updated,
		})
	}
}

// ---------------- DELETE ----------------
// Deleting a category does not touch events that reference it; their
// denormalized name copies simply go stale.
func DeleteCategory(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		existing, err := st.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		deleter := session.NewDeleter(st, cfg.Files, cfg.Logger, store.CategoriesCollection)
		deleter.Request(session.DeleteTarget{ID: existing.ID, Label: existing.Name})
		if err := deleter.Confirm(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "category deleted successfully",
			"id":      existing.ID,
		})
	}
}

// ---------------- LIVE ----------------
// LiveCategories streams full replacement snapshots of the categories list,
// ordered by name, as server-sent events.
func LiveCategories(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		q := st.LiveCategories(c.Request.Context(), "name", store.Ascending)
		defer q.Cancel()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Stream(func(w io.Writer) bool {
			snap, ok := <-q.Snapshots()
			if !ok {
				return false
			}
			if snap.Err != nil {
				c.SSEvent("error", snap.Err.Error())
				return false
			}
			c.SSEvent("snapshot", snap.Docs)
			return true
		})
	}
}
