package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/roster/internal/config"
	"github.com/alexisbeaulieu97/roster/internal/gateway"
	"github.com/alexisbeaulieu97/roster/internal/logger"
	"github.com/alexisbeaulieu97/roster/internal/theme"
)

// AppContext bundles the services a command needs, built from the config
// file, the environment and the global flags.
type AppContext struct {
	Config *config.Config
	Logger *logger.Logger
}

func loadAppContext(cmd *cobra.Command, flags *rootFlags, command string) (*AppContext, error) {
	path := flags.configPath
	if path == "" {
		defaultPath, err := defaultConfigPath()
		if err != nil {
			return nil, newCommandError("load configuration", "determining config path", err, "Ensure your HOME directory is set correctly or pass --config.")
		}
		path = defaultPath
	}

	cfg, err := config.LoadOptional(path)
	if err != nil {
		return nil, newCommandError("load configuration", fmt.Sprintf("reading %s", path), err, "Fix the config file or the ROSTER_* environment variables and retry.")
	}

	if flags.apiURL != "" {
		cfg.API.BaseURL = flags.apiURL
		if err := config.Validate(cfg); err != nil {
			return nil, newCommandError("load configuration", "applying --api-url", err, "Pass an absolute http(s) URL such as http://127.0.0.1:8080.")
		}
	}

	log, err := logger.New(logger.Options{
		Level:         logLevel(cfg, flags),
		HumanReadable: true,
		Writer:        cmd.ErrOrStderr(),
		Component:     "cli",
	})
	if err != nil {
		return nil, newCommandError("load configuration", "creating logger", err, "Use one of trace, debug, info, warn or error for log.level.")
	}

	return &AppContext{Config: cfg, Logger: log.With("command", command)}, nil
}

func logLevel(cfg *config.Config, flags *rootFlags) string {
	if flags.verbose {
		return "debug"
	}
	return cfg.Log.Level
}

// Gateway builds an API client that logs through log.
func (a *AppContext) Gateway(log *logger.Logger) (*gateway.Client, error) {
	client, err := gateway.New(gateway.Options{
		BaseURL: a.Config.API.BaseURL,
		Timeout: a.Config.API.Timeout,
		Logger:  log,
	})
	if err != nil {
		return nil, newCommandError("connect", "building API client", err, "Check api.base_url in the config or the --api-url flag.")
	}
	return client, nil
}

// Host is the API host shown in hints.
func (a *AppContext) Host() string {
	return a.Config.API.Host()
}

// Themes loads saved preferences and returns a store starting in the
// resolved mode. A saved preference wins over ui.theme.
func (a *AppContext) Themes() (*theme.Store, *theme.Preferences, error) {
	path := a.Config.PreferencesPath
	if path == "" {
		defaultPath, err := defaultPreferencesPath()
		if err != nil {
			return nil, nil, newCommandError("load preferences", "determining preferences path", err, "Ensure your HOME directory is set correctly.")
		}
		path = defaultPath
	}

	prefs, err := theme.NewPreferences(path)
	if err != nil {
		return nil, nil, newCommandError("load preferences", fmt.Sprintf("reading %s", path), err, "Delete the preferences file to reset it.")
	}

	fallback, err := theme.ParseMode(a.Config.UI.Theme)
	if err != nil {
		fallback = theme.DefaultMode
	}

	return theme.NewStore(prefs.Resolve(fallback)), prefs, nil
}
