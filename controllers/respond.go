package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	models "github.com/mbevents/dashboard-go/models"
)

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrSubmitInProgress) || errors.Is(err, models.ErrDeleteInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		return
	}

	var pe *models.PersistenceError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case models.KindNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": pe.Error()})
		case models.KindPermissionDenied:
			c.JSON(http.StatusForbidden, gin.H{"error": pe.Error()})
		case models.KindNetworkUnavailable:
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": pe.Error()})
		case models.KindUploadFailed:
			c.JSON(http.StatusBadGateway, gin.H{"error": pe.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": pe.Error()})
		}
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
