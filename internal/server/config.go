package server

import (
	"os"
	"strconv"
)

// Config holds the preview server settings.
type Config struct {
	Addr         string
	Root         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	// Quiet disables the per-request access log.
	Quiet bool
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() Config {
	return Config{
		Addr:         getEnv("CANVAS_ADDR", ":3000"),
		Root:         getEnv("CANVAS_ROOT", "."),
		ReadTimeout:  getEnvAsInt("CANVAS_READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("CANVAS_WRITE_TIMEOUT", 10),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
