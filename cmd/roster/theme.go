package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/roster/internal/theme"
)

func newThemeCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or change the dashboard theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeShow(cmd, flags)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeShow(cmd, flags)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeSet(cmd, flags, "")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "set <light|dark>",
		Short:     "Choose a theme",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(theme.Light), string(theme.Dark)},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeSet(cmd, flags, args[0])
		},
	})

	return cmd
}

func runThemeShow(cmd *cobra.Command, flags *rootFlags) error {
	app, err := loadAppContext(cmd, flags, "theme")
	if err != nil {
		return err
	}

	themes, _, err := app.Themes()
	if err != nil {
		return err
	}

	mode := themes.Mode()
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mode.Icon(), mode)
	return nil
}

// runThemeSet switches to target, or to the opposite mode when target is
// empty. The change is saved through the same binding the dashboard uses.
func runThemeSet(cmd *cobra.Command, flags *rootFlags, target string) error {
	app, err := loadAppContext(cmd, flags, "theme")
	if err != nil {
		return err
	}

	themes, prefs, err := app.Themes()
	if err != nil {
		return err
	}

	want := themes.Mode().Opposite()
	if target != "" {
		want, err = theme.ParseMode(target)
		if err != nil {
			return newCommandError("set theme", fmt.Sprintf("parsing %q", target), err, "Use 'light' or 'dark'.")
		}
	}

	var saveErr error
	unbind := prefs.Bind(themes, func(err error) { saveErr = err })
	defer unbind()

	if themes.Mode() != want {
		themes.Toggle()
	} else {
		// Persist an explicit choice even when it matches the current mode.
		prefs.SetTheme(want)
		saveErr = prefs.Save()
	}
	if saveErr != nil {
		return newCommandError("set theme", "saving preferences", saveErr, "Check that the preferences directory is writable.")
	}

	app.Logger.With("theme", want).Info("theme changed")
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", want.Icon(), want)
	return nil
}
