package main

import (
	"os"
	"path/filepath"
)

const appDir = ".roster"

func defaultConfigPath() (string, error) {
	return homePath("config.yaml")
}

func defaultPreferencesPath() (string, error) {
	return homePath("preferences.json")
}

func defaultLogPath() (string, error) {
	return homePath("roster.log")
}

func homePath(name string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, appDir, name), nil
}
