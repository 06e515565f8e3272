package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	config "github.com/mbevents/dashboard-go/config"
	models "github.com/mbevents/dashboard-go/models"
	store "github.com/mbevents/dashboard-go/store"
)

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		var input struct {
			Name     string `json:"name" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if _, err := st.FindUserByEmail(c.Request.Context(), input.Email); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		} else if models.PersistenceKindOf(err) != models.KindNotFound {
			writeError(c, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
			return
		}

		id, err := st.Create(c.Request.Context(), store.UsersCollection, map[string]any{
			"name":         input.Name,
			"email":        input.Email,
			"passwordHash": string(hash),
		})
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": id, "email": input.Email})
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	st := store.NewMongo(cfg.MongoClient, cfg.DBName)
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := st.FindUserByEmail(c.Request.Context(), input.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   user.ID,
			"email": user.Email,
			"iat":   now.Unix(),
			"exp":   now.Add(24 * time.Hour).Unix(),
		})
		signed, err := token.SignedString(cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": signed,
			"user":  gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
		})
	}
}
