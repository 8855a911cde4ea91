package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
type Config struct {
	MusicDir    string        // Root directory scanned for audio files
	HomeDir     string        // Per-user state directory (catalog, logs)
	DBPath      string        // Catalog database file: HomeDir/library.db
	PlayerPath  string        // External player binary
	StopTimeout time.Duration // How long to wait for the player to exit before killing it
	// Logging
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	userHome, err := os.UserHomeDir()
	if err != nil {
		userHome = "."
	}

	homeDir := getEnv("SHELLFM_HOME", filepath.Join(userHome, ".shellfm"))

	return &Config{
		MusicDir:      getEnv("MUSIC_DIR", filepath.Join(userHome, "Music")),
		HomeDir:       homeDir,
		DBPath:        filepath.Join(homeDir, "library.db"),
		PlayerPath:    getEnv("PLAYER_PATH", "mpv"),
		StopTimeout:   time.Duration(getEnvInt("STOP_TIMEOUT_SECONDS", 5)) * time.Second,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", filepath.Join(homeDir, "logs", "shellfm.log")),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 30),
	}
}
