package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config contains application-wide settings sourced from the environment.
type Config struct {
	DataDir    string
	SQLitePath string
	MongoURI   string

	AuthBaseURL string
	AuthAPIKey  string

	ListingsBaseURL string
	ListingsAPIKey  string
	DefaultCity     string
	DefaultCountry  string
	SongBaseURL     string

	LogLevel  string
	LogFormat string
}

func loadConfig() (Config, error) {
	_ = godotenv.Load("config/local.env")

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		return Config{}, errors.New("MONGO_URI env var is required")
	}

	authBaseURL := os.Getenv("AUTH_BASE_URL")
	if authBaseURL == "" {
		return Config{}, errors.New("AUTH_BASE_URL env var is required")
	}

	dataDir := envOrDefault("DATA_DIR", "data")

	return Config{
		DataDir:    dataDir,
		SQLitePath: envOrDefault("SQLITE_PATH", filepath.Join(dataDir, "showbill.db")),
		MongoURI:   mongoURI,

		AuthBaseURL: authBaseURL,
		AuthAPIKey:  os.Getenv("AUTH_API_KEY"),

		ListingsBaseURL: envOrDefault("LISTINGS_BASE_URL", "https://app.ticketmaster.com/discovery/v2/events.json"),
		ListingsAPIKey:  os.Getenv("LISTINGS_API_KEY"),
		DefaultCity:     envOrDefault("DEFAULT_CITY", "London"),
		DefaultCountry:  envOrDefault("DEFAULT_COUNTRY", "GB"),
		SongBaseURL:     envOrDefault("SONG_API_URL", "https://itunes.apple.com/search"),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
