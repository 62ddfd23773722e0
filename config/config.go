package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	ListenAddr  string // host:port the HTTP/ws server binds to
	CORSOrigins string // comma-separated allowed origins
	RoomIDBytes int    // random bytes per room id (hex-encoded, so 2x chars)
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig loads an optional .env file and populates the Config
// struct, falling back to defaults so a bare `go run` works.
func initConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[CONFIG] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":3000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		RoomIDBytes: getEnvAsInt("ROOM_ID_BYTES", 4),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[CONFIG] Environment variable %s is not an integer (%q), using %d: %v", key, valueStr, fallback, err)
		return fallback
	}
	return value
}
