package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/motion/internal/config"
	"github.com/vovakirdan/motion/internal/scene"
	"github.com/vovakirdan/motion/internal/storage"
)

// SessionConfig configures a session: the scene picker, the previews it
// opens and the history screen.
type SessionConfig struct {
	Store    *storage.Store // optional; records runs and feeds the history
	Source   string         // recorded with every run
	Start    string         // scene opened first; empty starts at the menu
	FPS      int
	Strict   bool
	Loop     bool
	ShowHelp bool
	Logger   *log.Logger
	Width    int
	Height   int
}

// SessionModel manages the full session flow: menu -> preview -> menu,
// with the run history reachable from the menu.
type SessionModel struct {
	cfg      SessionConfig
	menu     MenuModel
	preview  *PreviewModel
	history  *HistoryModel
	status   string
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	m := SessionModel{
		cfg:  cfg,
		menu: NewMenuModel(cfg.Width, cfg.Height),
	}
	if cfg.Start != "" {
		if err := m.openScene(cfg.Start); err != nil {
			m.status = err.Error()
		}
	}
	return m
}

// openScene loads ref and switches to its preview.
func (m *SessionModel) openScene(ref string) error {
	s, path, err := config.LoadScene(ref)
	if err != nil {
		return err
	}

	var rec scene.Recorder
	if m.cfg.Store != nil {
		rec = m.cfg.Store
	}
	preview, err := NewPreviewModel(PreviewConfig{
		Scene: s,
		Path:  path,
		Runner: scene.Options{
			Strict:   m.cfg.Strict,
			Logger:   m.cfg.Logger,
			Recorder: rec,
			Source:   m.cfg.Source,
		},
		FPS:       m.cfg.FPS,
		ShowHelp:  m.cfg.ShowHelp,
		Loop:      m.cfg.Loop,
		InSession: true,
		Width:     m.cfg.Width,
		Height:    m.cfg.Height,
	})
	if err != nil {
		return err
	}
	m.preview = &preview
	m.status = ""
	return nil
}

// closePreview ends the run of the open preview.
func (m *SessionModel) closePreview() {
	if m.preview == nil {
		return
	}
	if _, err := m.preview.Close(); err != nil {
		m.cfg.Logger.Warn("cannot close run", "err", err)
	}
	m.preview = nil
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	if m.preview != nil {
		return m.preview.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.cfg.Width = wsm.Width
		m.cfg.Height = wsm.Height
	}

	switch {
	case m.preview != nil:
		return m.updatePreview(msg)
	case m.history != nil:
		return m.updateHistory(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.menu.Selected(); selected != nil {
		m.menu = NewMenuModel(m.cfg.Width, m.cfg.Height)
		if err := m.openScene(selected.Ref); err != nil {
			m.status = err.Error()
			return m, nil
		}
		return m, m.preview.Init()
	}

	if m.menu.WantsHistory() {
		m.menu = NewMenuModel(m.cfg.Width, m.cfg.Height)
		history := NewHistoryModel(m.cfg.Store, m.cfg.Width, m.cfg.Height)
		m.history = &history
		return m, history.Init()
	}

	return m, cmd
}

// updatePreview handles updates when a scene is playing.
func (m SessionModel) updatePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.preview.Update(msg)
	if preview, ok := newModel.(PreviewModel); ok {
		m.preview = &preview
	}

	if m.preview.BackToMenu() {
		m.closePreview()
		return m, m.menu.Init()
	}

	if m.preview.IsQuitting() {
		m.closePreview()
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// updateHistory handles updates when the history is shown.
func (m SessionModel) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.history.Update(msg)
	if history, ok := newModel.(HistoryModel); ok {
		m.history = &history
	}

	if m.history.IsGoingBack() {
		m.history = nil
		return m, m.menu.Init()
	}

	if m.history.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch {
	case m.preview != nil:
		return m.preview.View()
	case m.history != nil:
		return m.history.View()
	}
	view := m.menu.View()
	if m.status != "" {
		view += "\n" + errorStyle.Render(m.status)
	}
	return view
}

// InPreview reports whether a scene is playing.
func (m SessionModel) InPreview() bool {
	return m.preview != nil
}

// InHistory reports whether the history is shown.
func (m SessionModel) InHistory() bool {
	return m.history != nil
}

// Status returns the last session error, if any.
func (m SessionModel) Status() string {
	return m.status
}

// RunSession runs a session in the local terminal.
func RunSession(cfg SessionConfig) error {
	model := NewSessionModel(cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if m, ok := finalModel.(SessionModel); ok {
		m.closePreview()
	}
	return err
}
