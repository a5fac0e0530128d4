package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiredFieldMissing(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "DATABASE_FILE_PATH")
	assert.Contains(t, err.Error(), "database_file_path")
}

func TestNew_WithEnvVar(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DatabaseFilePath)
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/library.db
inpx_file_path: /books/flibusta.inpx
library_directory: /books
extract_directory: /home/reader/books
extract_template: authordir-title-series
extract_pack_zip: true
genre_names_file_path: " /books/genres.tsv "
watch_debounce: 10s
import_languages:
  - RU
  - " en "
server_port: 8080
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATABASE_FILE_PATH", "")
	os.Unsetenv("DATABASE_FILE_PATH")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/library.db", cfg.DatabaseFilePath)
	assert.Equal(t, "/books/flibusta.inpx", cfg.InpxFilePath)
	assert.Equal(t, "/books", cfg.LibraryDirectory)
	assert.Equal(t, "authordir-title-series", cfg.ExtractTemplate)
	assert.True(t, cfg.ExtractPackZip)
	assert.Equal(t, []string{"ru", "en"}, cfg.ImportLanguages)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "/books/genres.tsv", cfg.GenreNamesFilePath)
	assert.Equal(t, 10*time.Second, cfg.WatchDebounce)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/from-file.db
server_port: 8080
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DATABASE_FILE_PATH", "/data/from-env.db")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := New()
	require.NoError(t, err)
	// Env vars should override config file
	assert.Equal(t, "/data/from-env.db", cfg.DatabaseFilePath)
	assert.Equal(t, 9090, cfg.ServerPort)
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, 2*time.Second, cfg.DatabaseConnectRetryDelay)
	assert.False(t, cfg.DatabaseDebug)
	assert.Equal(t, []string{"ru"}, cfg.ImportLanguages)
	assert.Equal(t, "filename", cfg.ExtractTemplate)
	assert.False(t, cfg.ExtractPackZip)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, 3690, cfg.ServerPort)
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce)
	assert.Empty(t, cfg.GenreNamesFilePath)
}

func TestNew_InvalidTemplate(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("EXTRACT_TEMPLATE", "author-only")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract_template")
	assert.Contains(t, err.Error(), "author-only")
}

func TestNew_Development(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "./tmp/library.sqlite", cfg.DatabaseFilePath)
	assert.True(t, cfg.DatabaseDebug)
}
