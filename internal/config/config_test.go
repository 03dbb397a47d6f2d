package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points config lookups at empty temp dirs and clears TASKER_* vars
func isolate(t *testing.T) (configHome, workDir string) {
	t.Helper()
	configHome = t.TempDir()
	workDir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "data"))
	for _, k := range []string{"TASKER_DATA_DIR", "TASKER_BACKEND", "TASKER_STORAGE_KEY", "TASKER_STORAGE_TIMEOUT", "TASKER_LOG_LEVEL", "TASKER_LOG_FORMAT", "TASKER_REDIS_ADDR"} {
		t.Setenv(k, "")
	}
	return configHome, workDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	_, workDir := isolate(t)

	cfg, err := Load(Options{WorkDir: workDir})
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "taskManager_tasks", cfg.Storage.Key)
	assert.Equal(t, 5*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_DATA_HOME"), "tasker"), cfg.DataDir)
	assert.Equal(t, filepath.Join(cfg.DataDir, "tasker.log"), cfg.LogPath())
}

func TestLoadLayering(t *testing.T) {
	configHome, workDir := isolate(t)

	writeFile(t, filepath.Join(configHome, "tasker", "config.toml"), `
data_dir = "/tmp/tasker-user"

[storage]
backend = "file"
timeout = "2s"

[log]
level = "debug"
format = "json"
`)
	writeFile(t, filepath.Join(workDir, ProjectConfigFile), `
[storage]
backend = "redis"

[redis]
addr = "cache:6379"
db = 2
`)

	cfg, err := Load(Options{WorkDir: workDir})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tasker-user", cfg.DataDir)
	assert.Equal(t, BackendRedis, cfg.Storage.Backend)
	assert.Equal(t, 2*time.Second, cfg.Storage.Timeout)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	t.Setenv("TASKER_BACKEND", "memory")
	t.Setenv("TASKER_LOG_LEVEL", "warn")
	cfg, err = Load(Options{WorkDir: workDir})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "warn", cfg.Log.Level)

	cfg, err = Load(Options{WorkDir: workDir, Overrides: Overrides{Backend: "sqlite", LogLevel: "error", DataDir: "/tmp/flag"}})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/tmp/flag", cfg.DataDir)
}

func TestLoadExplicitConfigFile(t *testing.T) {
	_, workDir := isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, "[storage]\nkey = \"custom\"\n")

	cfg, err := Load(Options{ConfigFile: path, WorkDir: workDir})
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Storage.Key)

	_, err = Load(Options{ConfigFile: filepath.Join(workDir, "missing.toml"), WorkDir: workDir})
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	_, workDir := isolate(t)
	t.Cleanup(func() {
		os.Unsetenv("TASKER_REDIS_PREFIX")
		os.Unsetenv("TASKER_REDIS_DB")
	})
	writeFile(t, filepath.Join(workDir, ".env"), "TASKER_REDIS_PREFIX=dotenv:\nTASKER_REDIS_DB=4\n")

	cfg, err := Load(Options{WorkDir: workDir})
	require.NoError(t, err)
	assert.Equal(t, "dotenv:", cfg.Redis.Prefix)
	assert.Equal(t, 4, cfg.Redis.DB)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		project string
		env     map[string]string
	}{
		{name: "unknown backend", project: "[storage]\nbackend = \"s3\"\n"},
		{name: "unknown key", project: "colour = \"blue\"\n"},
		{name: "malformed toml", project: "[storage\n"},
		{name: "empty key", project: "[storage]\nkey = \"\"\n"},
		{name: "bad timeout env", env: map[string]string{"TASKER_STORAGE_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, workDir := isolate(t)
			if tt.project != "" {
				writeFile(t, filepath.Join(workDir, ProjectConfigFile), tt.project)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(Options{WorkDir: workDir})
			assert.Error(t, err)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandHome("~/tasks")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks"), got)

	got, err = expandHome("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}
