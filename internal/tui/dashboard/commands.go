package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/roster/internal/roster"
)

// adapt turns a roster command into a Bubble Tea command. Batches are
// expanded so each part runs concurrently under the program.
func adapt(cmd roster.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		if batch, ok := msg.(roster.BatchMsg); ok {
			cmds := make([]tea.Cmd, 0, len(batch))
			for _, c := range batch {
				cmds = append(cmds, adapt(c))
			}
			return tea.BatchMsg(cmds)
		}
		return controllerMsg{msg: msg}
	}
}
