package dashboard

import "github.com/alexisbeaulieu97/roster/internal/roster"

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewHome ViewMode = iota
	ViewRoster
	ViewHelp
)

// controllerMsg carries a roster command result back into the update loop.
type controllerMsg struct {
	msg roster.Msg
}
