package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	defaultDatabasePath = "plays.db"
	defaultPlayLogPath  = "play_history.log"
)

type Config struct {
	// database path
	DatabasePath string

	// external play log to import from
	PlayLogPath string

	// whether to run a log import when the process starts
	ImportOnStartup bool
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBoolOrDefault(envVar string, defaultVal bool) bool {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Invalid %s '%s'. Using default %t. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", defaultDatabasePath)

	logPath := getEnvOrDefault("PLAY_LOG_PATH", defaultPlayLogPath)
	absLogPath, err := filepath.Abs(logPath)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for play log '%s': %w", logPath, err)
	}

	cfg := Config{
		DatabasePath:    dbPath,
		PlayLogPath:     absLogPath,
		ImportOnStartup: getEnvBoolOrDefault("IMPORT_ON_STARTUP", false),
	}

	return cfg, nil
}
