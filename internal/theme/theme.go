// Package theme owns the display mode shared by every screen. A single Store
// is created at startup and passed to whoever needs it; Toggle is the only
// way to change the mode.
package theme

import (
	"fmt"
	"strings"
	"sync"
)

// Mode is the display mode.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// DefaultMode is used when nothing else is configured.
const DefaultMode = Dark

// ParseMode converts text into a Mode, ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, nil
	case Dark:
		return Dark, nil
	default:
		return "", fmt.Errorf("unknown theme mode %q: expected light or dark", s)
	}
}

// Opposite returns the other mode.
func (m Mode) Opposite() Mode {
	if m == Light {
		return Dark
	}
	return Light
}

// Icon returns the glyph the toggle control shows for the mode it switches to.
func (m Mode) Icon() string {
	if m == Light {
		return "☾"
	}
	return "☀"
}

// ToggleLabel describes what toggling does from m.
func (m Mode) ToggleLabel() string {
	if m == Light {
		return "Switch to dark mode"
	}
	return "Switch to light mode"
}

// Listener is called after the mode changes.
type Listener func(Mode)

// Store holds the current mode. It is safe for concurrent readers; Toggle is
// the single writer entry point.
type Store struct {
	mu        sync.RWMutex
	mode      Mode
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a store starting in the given mode. An empty mode means DefaultMode.
func NewStore(initial Mode) *Store {
	if initial == "" {
		initial = DefaultMode
	}
	return &Store{mode: initial, listeners: make(map[int]Listener)}
}

// Mode returns the current mode.
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Palette returns the colors for the current mode.
func (s *Store) Palette() Palette {
	return PaletteFor(s.Mode())
}

// Toggle flips the mode, notifies listeners and returns the new mode.
func (s *Store) Toggle() Mode {
	s.mu.Lock()
	s.mode = s.mode.Opposite()
	next := s.mode
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return next
}

// Subscribe registers fn for mode changes and returns a function removing it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
