package config

import (
	"net/url"
	"time"
)

// Config represents the full roster client configuration document.
// Every field can be overridden by the environment variable in its env tag.
type Config struct {
	API             API    `yaml:"api"`
	UI              UI     `yaml:"ui"`
	Log             Log    `yaml:"log"`
	PreferencesPath string `yaml:"preferences_path,omitempty" env:"ROSTER_PREFERENCES"`
}

// API describes how to reach the student service.
type API struct {
	BaseURL string        `yaml:"base_url" env:"ROSTER_API_URL" env-default:"http://127.0.0.1:8080" validate:"required,api_url"`
	Timeout time.Duration `yaml:"timeout" env:"ROSTER_API_TIMEOUT" env-default:"10s" validate:"gt=0"`
}

// UI holds presentation settings for the dashboard.
type UI struct {
	Theme           string        `yaml:"theme" env:"ROSTER_THEME" env-default:"dark" validate:"theme_mode"`
	NotificationTTL time.Duration `yaml:"notification_ttl" env:"ROSTER_NOTIFY_TTL" env-default:"4s" validate:"gt=0"`
	PageSize        int           `yaml:"page_size" env:"ROSTER_PAGE_SIZE" env-default:"5" validate:"page_size"`
}

// Log configures the application logger.
type Log struct {
	Level string `yaml:"level" env:"ROSTER_LOG_LEVEL" env-default:"info" validate:"oneof=trace debug info warn error"`
	// File receives dashboard logs; empty means ~/.roster/roster.log.
	File string `yaml:"file,omitempty" env:"ROSTER_LOG_FILE"`
}

// PageSizes lists the page sizes the roster table offers.
var PageSizes = []int{5, 10}

// Host returns the host part of the base URL for display.
func (a API) Host() string {
	parsed, err := url.Parse(a.BaseURL)
	if err != nil || parsed.Host == "" {
		return a.BaseURL
	}
	return parsed.Host
}
