package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "test-app",
			Mode:     "development",
			LogLevel: "info",
		},
		API: APIConfig{
			Port:         5000,
			RateLimit:    60,
			RateBurst:    10,
			MaxBodyBytes: 1024,
		},
		Probe: ProbeConfig{
			Endpoint:      "http://localhost:5000",
			Timeout:       time.Second,
			RetryAttempts: 1,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		modifyFunc  func(*Config)
		expectErr   bool
		errContains string
	}{
		{
			name:       "valid config",
			modifyFunc: func(c *Config) {},
			expectErr:  false,
		},
		{
			name:        "invalid mode",
			modifyFunc:  func(c *Config) { c.App.Mode = "staging" },
			expectErr:   true,
			errContains: "app.mode must be one of",
		},
		{
			name:        "invalid log level",
			modifyFunc:  func(c *Config) { c.App.LogLevel = "trace" },
			expectErr:   true,
			errContains: "app.log_level",
		},
		{
			name:        "port out of range",
			modifyFunc:  func(c *Config) { c.API.Port = 70000 },
			expectErr:   true,
			errContains: "api.port must be between 1 and 65535",
		},
		{
			name:        "rate limit without burst",
			modifyFunc:  func(c *Config) { c.API.RateBurst = 0 },
			expectErr:   true,
			errContains: "api.rate_burst",
		},
		{
			name:       "rate limiting disabled needs no burst",
			modifyFunc: func(c *Config) { c.API.RateLimit = 0; c.API.RateBurst = 0 },
			expectErr:  false,
		},
		{
			name: "lenient with ranges",
			modifyFunc: func(c *Config) {
				c.Validation.Lenient = true
				c.Validation.EnforceRanges = true
			},
			expectErr:   true,
			errContains: "mutually exclusive",
		},
		{
			name: "wildcard credentials in production",
			modifyFunc: func(c *Config) {
				c.App.Mode = "production"
				c.API.CORS.AllowedOrigins = []string{"*"}
				c.API.CORS.AllowCredentials = true
			},
			expectErr:   true,
			errContains: "wildcard origin",
		},
		{
			name:        "missing probe endpoint",
			modifyFunc:  func(c *Config) { c.Probe.Endpoint = "" },
			expectErr:   true,
			errContains: "probe.endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modifyFunc(cfg)

			err := cfg.Validate()

			if tt.expectErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "grid-fault-predictor", cfg.App.Name)
	assert.Equal(t, 5000, cfg.API.Port)
	assert.Equal(t, 15*time.Second, cfg.API.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.API.CORS.AllowedOrigins)
	assert.False(t, cfg.Validation.Lenient)
	assert.Equal(t, 3, cfg.Probe.RetryAttempts)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
app:
  name: grid-test
  mode: production
  log_level: warn
api:
  port: 9090
  cors:
    allowed_origins: ["https://grid.example.com"]
validation:
  enforce_ranges: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("FAULTPREDICTOR_API_PORT", "9191")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "grid-test", cfg.App.Name)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, 9191, cfg.API.Port)
	assert.True(t, cfg.Validation.EnforceRanges)
	assert.Equal(t, []string{"https://grid.example.com"}, cfg.API.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// chdir is a Go 1.21-compatible stand-in for testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
