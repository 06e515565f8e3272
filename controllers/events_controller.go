package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	config "github.com/mbevents/dashboard-go/config"
	models "github.com/mbevents/dashboard-go/models"
	session "github.com/mbevents/dashboard-go/session"
	store "github.com/mbevents/dashboard-go/store"
)

// eventInput is the multipart form the dashboard posts. Display-formatted
// values go in raw; the form session applies the masks and canonicalization.
// Categories is a JSON array of {id,name} references.
type eventInput struct {
	Title            string `form:"title"`
	Description      string `form:"description"`
	Date             string `form:"date"`
	Time             string `form:"time"`
	Location         string `form:"location"`
	Modality         string `form:"modality"`
	IsHighlighted    *bool  `form:"isHighlighted"`
	Price            string `form:"price"`
	AvailableTickets string `form:"availableTickets"`
	Categories       string `form:"categories"`
}

func applyEventInput(c *gin.Context, form *session.EventForm, input eventInput) error {
	if input.Title != "" {
		form.SetField("title", input.Title)
	}
	if input.Description != "" {
		form.SetField("description", input.Description)
	}
	if input.Date != "" {
		form.SetField("date", input.Date)
	}
	if input.Time != "" {
		form.SetField("time", input.Time)
	}
	if input.Location != "" {
		form.SetField("location", input.Location)
	}
	if input.Modality != "" {
		form.SetField("modality", input.Modality)
	}
	if input.Price != "" {
		form.SetField("price", input.Price)
	}
	if input.AvailableTickets != "" {
		form.SetField("availableTickets", input.AvailableTickets)
	}
	if input.IsHighlighted != nil {
		form.SetHighlighted(*input.IsHighlighted)
	}

	if input.Categories != "" {
		var refs []models.CategoryRef
		if err := json.Unmarshal([]byte(input.Categories), &refs); err != nil {
			return err
		}
		// Replace the selection: deselect what was loaded, select the new set.
		for _, ref := range form.SelectedCategories() {
			form.ToggleCategory(models.Category{ID: ref.ID, Name: ref.Name})
		}
		for _, ref := range refs {
			form.ToggleCategory(models.Category{ID: ref.ID, Name: ref.Name})
		}
	}

	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return err
		}
		form.StageImage(header.Filename, data)
	}
	return nil
}

// ---------------- CREATE ----------------
func CreateEvent(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var input eventInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		form := session.NewEventForm(st, cfg.Files, uid)
		form.Load(nil)
		if err := applyEventInput(c, form, input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := form.Submit(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}

		event, err := st.GetEvent(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, event)
	}
}

// ---------------- LIST ----------------
func ListEvents(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		events, err := st.FindEvents(c.Request.Context(), "createdAt", store.Descending)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// ---------------- GET ----------------
func GetEvent(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		event, err := st.GetEvent(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	}
}

// ---------------- UPDATE ----------------
func UpdateEvent(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		uid := c.GetString("user_id")
		if uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		existing, err := st.GetEvent(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		var input eventInput
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		form := session.NewEventForm(st, cfg.Files, uid)
		form.Load(&existing)
		if err := applyEventInput(c, form, input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := form.Submit(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}

		updated, err := st.GetEvent(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "event updated successfully",
			"event":   updated,
		})
	}
}

// ---------------- DELETE ----------------
func DeleteEvent(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		existing, err := st.GetEvent(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}

		deleter := session.NewDeleter(st, cfg.Files, cfg.Logger, store.EventsCollection)
		deleter.Request(session.DeleteTarget{
			ID:       existing.ID,
			Label:    existing.Title,
			ImageURL: existing.ImageURL,
		})
		if err := deleter.Confirm(c.Request.Context()); err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "event deleted successfully",
			"id":      existing.ID,
		})
	}
}

// ---------------- LIVE ----------------
// LiveEvents streams full replacement snapshots of the events list as
// server-sent events, newest first, until the client disconnects.
func LiveEvents(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		q := st.LiveEvents(c.Request.Context(), "createdAt", store.Descending)
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
