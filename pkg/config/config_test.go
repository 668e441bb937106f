package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T)
	}{
		{
			name: "load from settings file",
			content: `
server:
  host: "127.0.0.1"
  port: 8181
database:
  path: "./test.db"
playlist:
  seed: 42
`,
			check: func(t *testing.T) {
				assert.Equal(t, 8181, GetInt("server.port"))
				assert.Equal(t, "./test.db", GetString("database.path"))

				cfg, err := GetConfig()
				require.NoError(t, err)
				assert.Equal(t, int64(42), cfg.Playlist.Seed)
			},
		},
		{
			name: "environment variable override",
			content: `
server:
  port: 8080
`,
			env: map[string]string{"PLAYLIST_SERVER_PORT": "9090"},
			check: func(t *testing.T) {
				assert.Equal(t, 9090, GetInt("server.port"))
			},
		},
		{
			name: "missing config file with defaults",
			check: func(t *testing.T) {
				cfg, err := GetConfig()
				require.NoError(t, err)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "sqlite", cfg.Database.Driver)
				assert.Equal(t, "Private video", cfg.Ingestion.SkipTitle)
				assert.Equal(t, []string{"dhun", "kirtan"}, cfg.Dashboards.Families)
			},
		},
		{
			name: "postgres without dsn is rejected",
			content: `
database:
  driver: postgres
`,
			wantErr: true,
		},
		{
			name: "unknown driver is rejected",
			content: `
database:
  driver: oracle
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Reset()
			defer Reset()

			path := filepath.Join(t.TempDir(), "settings.yaml")
			if tt.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := InitWithFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name: "valid sqlite config",
			config: &Config{
				Server:   ServerConfig{Host: "localhost", Port: 8080},
				Database: DatabaseConfig{Driver: "sqlite", Path: "./data/playlist.db"},
			},
		},
		{
			name: "invalid port",
			config: &Config{
				Server:   ServerConfig{Host: "localhost", Port: 0},
				Database: DatabaseConfig{Path: "./data/playlist.db"},
			},
			wantErr: true,
		},
		{
			name: "postgres requires dsn",
			config: &Config{
				Server:   ServerConfig{Port: 8080},
				Database: DatabaseConfig{Driver: "postgres"},
			},
			wantErr: true,
		},
		{
			name: "postgres with dsn",
			config: &Config{
				Server:   ServerConfig{Port: 8080},
				Database: DatabaseConfig{Driver: "postgres", DSN: "host=localhost dbname=youtube_db"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_ValidateFillsFamilies(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Path: "x.db"},
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"dhun", "kirtan"}, cfg.Dashboards.Families)
}

func TestInit_WithoutSettingsFile(t *testing.T) {
	Reset()
	defer Reset()

	// No ./config/settings.yaml next to the package tests
	require.NoError(t, Init())
	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "Private video", cfg.Ingestion.SkipTitle)
	assert.Equal(t, []string{"dhun", "kirtan"}, cfg.Dashboards.Families)
}
