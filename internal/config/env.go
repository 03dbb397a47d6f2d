package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// loadFromEnv overrides config from TASKER_* environment variables
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TASKER_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TASKER_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TASKER_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("TASKER_STORAGE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKER_STORAGE_TIMEOUT: %w", err)
		}
		cfg.Storage.Timeout = d
	}
	if v := os.Getenv("TASKER_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TASKER_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TASKER_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TASKER_REDIS_DB: %w", err)
		}
		cfg.Redis.DB = n
	}
	if v := os.Getenv("TASKER_REDIS_PREFIX"); v != "" {
		cfg.Redis.Prefix = v
	}
	if v := os.Getenv("TASKER_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TASKER_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}
