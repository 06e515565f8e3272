package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/mbevents/dashboard-go/utils"
)

// Config carries the shared collaborators every handler closes over.
type Config struct {
	Env         string
	Port        string
	MongoClient *mongo.Client
	DBName      string
	JWTSecret   []byte
	Files       *utils.Cloudinary
	Logger      *slog.Logger
}

// Load reads .env (when present) and the environment, connects to Mongo and
// builds the Cloudinary handle.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:    getenv("GO_ENV", "development"),
		Port:   getenv("PORT", "8080"),
		DBName: getenv("MONGO_DB", "mbevents"),
		Logger: NewLogger(),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWTSecret = []byte(secret)

	uri := getenv("MONGO_URI", "mongodb://localhost:27017")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	cfg.MongoClient = client

	files, err := utils.NewCloudinary()
	if err != nil {
		return nil, err
	}
	cfg.Files = files

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
