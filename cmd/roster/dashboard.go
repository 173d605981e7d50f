package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/roster/internal/logger"
	"github.com/alexisbeaulieu97/roster/internal/roster"
	"github.com/alexisbeaulieu97/roster/internal/tui/dashboard"
)

func newDashboardCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Launch the interactive dashboard",
		Long:  `Launch the interactive TUI to browse, add, edit and delete students.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd, flags)
		},
	}

	return cmd
}

func runDashboard(cmd *cobra.Command, flags *rootFlags) error {
	app, err := loadAppContext(cmd, flags, "dashboard")
	if err != nil {
		return err
	}

	// The screen belongs to the TUI, so logs go to a file.
	logPath := app.Config.Log.File
	if logPath == "" {
		logPath, err = defaultLogPath()
		if err != nil {
			return newCommandError("launch dashboard", "determining log path", err, "Ensure your HOME directory is set correctly or set log.file.")
		}
	}
	log, closer, err := logger.NewFile(logPath, logger.Options{Level: logLevel(app.Config, flags), Component: "dashboard"})
	if err != nil {
		return newCommandError("launch dashboard", fmt.Sprintf("opening log file %s", logPath), err, "Check that the log directory is writable or set log.file.")
	}
	defer closer.Close()

	gw, err := app.Gateway(log.With("component", "gateway"))
	if err != nil {
		return err
	}

	themes, prefs, err := app.Themes()
	if err != nil {
		return err
	}
	unbind := prefs.Bind(themes, func(err error) {
		log.Error(err, "failed to save theme preference")
	})
	defer unbind()

	ctrl := roster.New(gw, roster.Options{
		NotificationTTL: app.Config.UI.NotificationTTL,
		Logger:          log.With("component", "roster"),
	})
	unsubscribe := ctrl.Subscribe(roster.PhaseLogger(log.With("component", "roster")))
	defer unsubscribe()

	log.WithFields(map[string]any{"api": app.Host(), "theme": themes.Mode()}).Info("launching dashboard")

	m := dashboard.NewModel(dashboard.Options{
		Context:    cmd.Context(),
		Controller: ctrl,
		Themes:     themes,
		Logger:     log,
		APIHost:    app.Host(),
		PageSize:   app.Config.UI.PageSize,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		log.Error(err, "dashboard execution failed")
		return fmt.Errorf("failed to run dashboard: %w", err)
	}

	log.Info("dashboard closed")
	return nil
}
