package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backends lists the accepted storage.backend values
var Backends = []string{BackendSQLite, BackendFile, BackendRedis, BackendMemory}

// Config holds all runtime settings
type Config struct {
	DataDir string        `toml:"data_dir"`
	Storage StorageConfig `toml:"storage"`
	Redis   RedisConfig   `toml:"redis"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects where the task snapshot lives
type StorageConfig struct {
	Backend string        `toml:"backend"`
	Key     string        `toml:"key"`
	Timeout time.Duration `toml:"timeout"`
}

// RedisConfig is used when Storage.Backend is "redis"
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// LogConfig controls the log file output
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Overrides carries values set by CLI flags. Empty fields are ignored.
type Overrides struct {
	DataDir  string
	Backend  string
	LogLevel string
}

// Options controls where Load looks for configuration
type Options struct {
	// ConfigFile replaces the user config file when set
	ConfigFile string
	// WorkDir is searched for tasker.toml and .env; defaults to "."
	WorkDir   string
	Overrides Overrides
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{
			Backend: BackendSQLite,
			Key:     "taskManager_tasks",
			Timeout: 5 * time.Second,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "tasker:",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from every source in priority order
func Load(opts Options) (*Config, error) {
	cfg := Default()

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	userFile := opts.ConfigFile
	if userFile == "" {
		userFile = findUserConfigFile()
	} else if _, err := os.Stat(userFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", userFile, err)
	}
	if userFile != "" {
		if err := loadConfigFile(cfg, userFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", userFile, err)
		}
	}

	projectFile := filepath.Join(workDir, ProjectConfigFile)
	if fileExists(projectFile) {
		if err := loadConfigFile(cfg, projectFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectFile, err)
		}
	}

	envFile := filepath.Join(workDir, ".env")
	if fileExists(envFile) {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	applyOverrides(cfg, opts.Overrides)

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.DataDir != "" {
		cfg.DataDir = o.DataDir
	}
	if o.Backend != "" {
		cfg.Storage.Backend = o.Backend
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
}

func finalize(cfg *Config) error {
	dir, err := expandHome(cfg.DataDir)
	if err != nil {
		return err
	}
	cfg.DataDir = dir

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if !validBackend(cfg.Storage.Backend) {
		return fmt.Errorf("invalid storage backend %q (want one of %s)", cfg.Storage.Backend, strings.Join(Backends, ", "))
	}
	if cfg.Storage.Key == "" {
		return errors.New("storage key must not be empty")
	}
	if cfg.Storage.Timeout <= 0 {
		return fmt.Errorf("storage timeout must be positive, got %s", cfg.Storage.Timeout)
	}
	return nil
}

func validBackend(b string) bool {
	for _, v := range Backends {
		if v == b {
			return true
		}
	}
	return false
}

// LogPath is the log file written while the TUI is running
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "tasker.log")
}
