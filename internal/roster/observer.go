package roster

import "github.com/alexisbeaulieu97/roster/internal/logger"

// PhaseLogger returns a listener that logs phase changes and notifications.
func PhaseLogger(log *logger.Logger) Listener {
	last := State{Phase: PhaseLoading}
	var lastNotification uint64
	return func(s State) {
		if s.Phase != last.Phase || s.Generation != last.Generation {
			entry := log.WithFields(map[string]any{
				"from":       last.Phase.String(),
				"to":         s.Phase.String(),
				"generation": s.Generation,
			})
			switch s.Phase {
			case PhaseReady:
				entry.With("records", len(s.Records)).Debug("roster loaded")
			case PhaseFailed:
				entry.With("error", s.LastError).Warn("roster failed to load")
			default:
				entry.Debug("roster loading")
			}
		}
		if s.Notification != nil && s.Notification.ID != lastNotification {
			lastNotification = s.Notification.ID
			log.WithFields(map[string]any{
				"severity": s.Notification.Severity.String(),
				"text":     s.Notification.Text,
			}).Debug("notification shown")
		}
		last = s
	}
}
