package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	rostererrors "github.com/alexisbeaulieu97/roster/pkg/errors"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	validYAML := `api:
  base_url: "http://roster.internal:9000"
  timeout: 3s
ui:
  theme: light
  notification_ttl: 2s
  page_size: 10
log:
  level: debug
`

	invalidYAML := `api:
  base_url: [1, 2
`

	badTheme := `ui:
  theme: sepia
`

	badPageSize := `ui:
  page_size: 7
`

	badURL := `api:
  base_url: "ftp://files.example.com"
`

	cases := []struct {
		name   string
		body   string
		assert func(t *testing.T, cfg *Config, err error)
	}{
		{
			name: "valid configuration is parsed",
			body: validYAML,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.NoError(t, err)
				require.Equal(t, "http://roster.internal:9000", cfg.API.BaseURL)
				require.Equal(t, 3*time.Second, cfg.API.Timeout)
				require.Equal(t, "light", cfg.UI.Theme)
				require.Equal(t, 2*time.Second, cfg.UI.NotificationTTL)
				require.Equal(t, 10, cfg.UI.PageSize)
				require.Equal(t, "debug", cfg.Log.Level)
			},
		},
		{
			name: "syntax error reports line",
			body: invalidYAML,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.Nil(t, cfg)
				var parseErr *rostererrors.ParseError
				require.ErrorAs(t, err, &parseErr)
			},
		},
		{
			name: "unknown theme rejected",
			body: badTheme,
			assert: func(t *testing.T, cfg *Config, err error) {
				var vErr *rostererrors.ValidationError
				require.ErrorAs(t, err, &vErr)
				require.Equal(t, "UI.Theme", vErr.Field)
			},
		},
		{
			name: "unsupported page size rejected",
			body: badPageSize,
			assert: func(t *testing.T, cfg *Config, err error) {
				var vErr *rostererrors.ValidationError
				require.ErrorAs(t, err, &vErr)
				require.Equal(t, "UI.PageSize", vErr.Field)
			},
		},
		{
			name: "non http url rejected",
			body: badURL,
			assert: func(t *testing.T, cfg *Config, err error) {
				require.True(t, rostererrors.IsValidation(err))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.body))
			tc.assert(t, cfg, err)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8080", cfg.API.BaseURL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, "dark", cfg.UI.Theme)
	require.Equal(t, 4*time.Second, cfg.UI.NotificationTTL)
	require.Equal(t, 5, cfg.UI.PageSize)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "127.0.0.1:8080", cfg.API.Host())
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	t.Setenv("ROSTER_API_URL", "https://api.example.edu/")
	t.Setenv("ROSTER_THEME", "light")

	cfg, err := Load(writeConfig(t, "api:\n  base_url: http://localhost:1\n"))
	require.NoError(t, err)
	require.Equal(t, "https://api.example.edu/", cfg.API.BaseURL)
	require.Equal(t, "api.example.edu", cfg.API.Host())
	require.Equal(t, "light", cfg.UI.Theme)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing)
	var parseErr *rostererrors.ParseError
	require.ErrorAs(t, err, &parseErr)

	cfg, err := LoadOptional(missing)
	require.NoError(t, err)
	require.Equal(t, "dark", cfg.UI.Theme)
}
