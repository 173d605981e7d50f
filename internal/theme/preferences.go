package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const preferencesVersion = "1.0"

// PreferencesFile is the on-disk shape of the preferences document.
type PreferencesFile struct {
	Version string `json:"version"`
	Theme   Mode   `json:"theme"`
}

// Preferences persists the chosen mode between sessions.
type Preferences struct {
	path string
	mu   sync.RWMutex
	file PreferencesFile
}

// NewPreferences creates a Preferences instance and loads it from disk.
// A missing file yields empty preferences.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{
		path: path,
		file: PreferencesFile{Version: preferencesVersion},
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	if err := p.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return p, nil
}

// Load reads preferences from disk.
func (p *Preferences) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}

	var file PreferencesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse preferences: %w", err)
	}
	if file.Theme != "" {
		mode, err := ParseMode(string(file.Theme))
		if err != nil {
			return err
		}
		file.Theme = mode
	}

	p.file = file
	return nil
}

// Save writes preferences to disk atomically.
func (p *Preferences) Save() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	data, err := json.MarshalIndent(p.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmpPath := p.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tmpPath, p.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Theme returns the stored mode and whether one was saved.
func (p *Preferences) Theme() (Mode, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.file.Theme, p.file.Theme != ""
}

// SetTheme records mode; call Save to persist it.
func (p *Preferences) SetTheme(mode Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.file.Theme = mode
}

// Bind makes every toggle of store persist to p. Errors go to onError.
func (p *Preferences) Bind(store *Store, onError func(error)) func() {
	return store.Subscribe(func(mode Mode) {
		p.SetTheme(mode)
		if err := p.Save(); err != nil && onError != nil {
			onError(err)
		}
	})
}

// Resolve picks the starting mode: a saved preference wins over fallback.
func (p *Preferences) Resolve(fallback Mode) Mode {
	if mode, ok := p.Theme(); ok {
		return mode
	}
	if fallback == "" {
		return DefaultMode
	}
	return fallback
}
