package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr      string
	StorageDir    string
	RedisURL      string
	MaxFileSize   int64
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	httpAddr := getEnv("EDRIVE_HTTP_ADDR", ":8080")
	storageDir := getEnv("EDRIVE_STORAGE_DIR", "uploads")
	redisURL := getEnv("EDRIVE_REDIS_URL", "")
	maxFileSizeStr := getEnv("EDRIVE_MAX_FILE_SIZE", "104857600")
	sweepIntervalStr := getEnv("EDRIVE_SWEEP_INTERVAL", "60s")

	maxFileSize, err := strconv.ParseInt(maxFileSizeStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid EDRIVE_MAX_FILE_SIZE: %w", err)
	}

	sweepInterval, err := time.ParseDuration(sweepIntervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid EDRIVE_SWEEP_INTERVAL: %w", err)
	}

	return &Config{
		HTTPAddr:      httpAddr,
		StorageDir:    storageDir,
		RedisURL:      redisURL,
		MaxFileSize:   maxFileSize,
		SweepInterval: sweepInterval,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
