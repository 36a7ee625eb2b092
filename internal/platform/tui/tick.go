// Package tui provides the Bubble Tea front end for mathrush: the mode and
// difficulty picker, the play screen, the results screen, the history table
// and the SSH server that serves them remotely.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshInterval is how often the play screen re-reads the engine snapshot.
const refreshInterval = 100 * time.Millisecond

// TickMsg is sent to trigger a screen refresh.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends a tick after interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
