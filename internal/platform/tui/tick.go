// Package tui provides the Bubble Tea front end: the scene preview, the
// scene picker, the run history and the SSH server that serves them.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent on every preview frame. Frames of a closed preview may
// still arrive after a new one started; ID tells them apart.
type TickMsg struct {
	ID   int64
	Time time.Time
}

var previewIDs atomic.Int64

// nextPreviewID numbers previews across sessions.
func nextPreviewID() int64 {
	return previewIDs.Add(1)
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(id int64, fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}

// reloadMsg is sent when the watched scene file changes.
type reloadMsg struct{}

// waitForReload blocks on the watch channel and reports one change.
func waitForReload(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{}
	}
}
