package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/motion/internal/animation"
	"github.com/vovakirdan/motion/internal/config"
	"github.com/vovakirdan/motion/internal/render"
	"github.com/vovakirdan/motion/internal/scene"
)

// Preview layout constants
const (
	seekStep    = 250.0 // ms moved by the seek keys
	stateWidth  = 26    // width of the per-track state column
	minBarWidth = 10
	feedSize    = 4 // finish events kept on screen
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

var stateStyles = map[animation.PlayState]lipgloss.Style{
	animation.StateIdle:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	animation.StatePending:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	animation.StatePaused:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	animation.StateRunning:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	animation.StateFinished: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
}

// PreviewConfig configures a scene preview.
type PreviewConfig struct {
	Scene    config.Scene
	Path     string // scene file; empty for built-in scenes
	Runner   scene.Options
	FPS      int
	BarWidth int // 0 = fit the terminal
	ShowHelp bool
	Loop     bool

	// Reload delivers scene file changes. Nil disables reloading.
	Reload <-chan struct{}

	// InSession makes back return to the session menu instead of quitting.
	InSession bool

	Width  int
	Height int
}

// eventFeed keeps the latest finish events for display. It is shared by
// copies of the model so the runner callback always reaches the current one.
type eventFeed struct {
	lines []string
}

func (f *eventFeed) add(line string) {
	f.lines = append(f.lines, line)
	if len(f.lines) > feedSize {
		f.lines = f.lines[len(f.lines)-feedSize:]
	}
}

// PreviewModel is the Bubble Tea model that plays a scene in real time.
type PreviewModel struct {
	id     int64
	cfg    PreviewConfig
	scene  config.Scene
	runner *scene.Runner
	feed   *eventFeed
	logger *log.Logger

	clock  float64   // timeline time in ms
	last   time.Time // wall time of the previous frame
	frozen bool
	cursor int
	runs   int

	keys       PreviewKeyMap
	help       help.Model
	width      int
	height     int
	status     string
	quitting   bool
	backToMenu bool
}

// NewPreviewModel builds the runner of cfg.Scene and returns a model ready
// to play it.
func NewPreviewModel(cfg PreviewConfig) (PreviewModel, error) {
	logger := cfg.Runner.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := help.New()
	h.ShowAll = false

	m := PreviewModel{
		id:     nextPreviewID(),
		cfg:    cfg,
		scene:  cfg.Scene,
		feed:   &eventFeed{},
		logger: logger,
		keys:   DefaultPreviewKeyMap(),
		help:   h,
		width:  cfg.Width,
		height: cfg.Height,
	}
	if err := m.start(); err != nil {
		return PreviewModel{}, err
	}
	return m, nil
}

// start replaces the runner with a fresh playback of the scene. The old
// runner is kept when the new one cannot be built.
func (m *PreviewModel) start() error {
	opts := m.cfg.Runner
	feed := m.feed
	next := opts.OnFinish
	opts.OnFinish = func(f scene.Finish) {
		feed.add(fmt.Sprintf("%s finished at %.0fms", f.Track.Label(), f.TimelineTime))
		if next != nil {
			next(f)
		}
	}

	r, err := scene.New(m.scene, opts)
	if err != nil {
		return err
	}
	if m.runner != nil {
		if err := m.runner.Close(); err != nil {
			m.logger.Warn("cannot close run", "scene", m.scene.Name, "err", err)
		}
	}

	m.runner = r
	m.clock = 0
	m.last = time.Time{}
	m.runs++
	if m.cursor >= len(r.Tracks()) {
		m.cursor = 0
	}
	r.Advance(0)
	return nil
}

// Init starts the frame loop and the reload watcher.
func (m PreviewModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.id, m.cfg.FPS), waitForReload(m.cfg.Reload))
}

// Update handles messages.
func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		if msg.ID != m.id {
			return m, nil
		}
		return m.handleTick(msg.Time)
	case reloadMsg:
		return m.handleReload()
	}
	return m, nil
}

// handleTick advances the clock by the wall time since the previous frame.
func (m PreviewModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	if m.last.IsZero() {
		m.last = now
	}
	elapsed := now.Sub(m.last)
	m.last = now

	if !m.frozen {
		m.clock += float64(elapsed) / float64(time.Millisecond)
		m.runner.Advance(m.clock)
		if m.runner.Done() && m.cfg.Loop {
			if err := m.start(); err != nil {
				m.status = err.Error()
			}
		}
	}
	return m, tickCmd(m.id, m.cfg.FPS)
}

// handleReload re-reads the scene file and restarts the playback.
func (m PreviewModel) handleReload() (tea.Model, tea.Cmd) {
	next := waitForReload(m.cfg.Reload)
	if m.cfg.Path == "" {
		return m, next
	}

	s, _, err := config.LoadScene(m.cfg.Path)
	if err != nil {
		m.status = "reload failed: " + err.Error()
		return m, next
	}
	prev := m.scene
	m.scene = s
	if err := m.start(); err != nil {
		m.scene = prev
		m.status = "reload failed: " + err.Error()
		return m, next
	}
	m.status = "reloaded " + filepath.Base(m.cfg.Path)
	m.logger.Info("scene reloaded", "path", m.cfg.Path)
	return m, next
}

// handleKey processes keyboard input.
func (m PreviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tracks := m.runner.Tracks()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if !m.cfg.InSession {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(tracks)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Freeze):
		m.frozen = !m.frozen
		m.status = ""
		if m.frozen {
			m.status = "clock frozen"
		}
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.status = ""
		if err := m.start(); err != nil {
			m.status = err.Error()
		}
		return m, nil

	case key.Matches(msg, m.keys.Screenshot):
		m.status = m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if len(tracks) == 0 {
		return m, nil
	}
	tr := tracks[m.cursor]
	if err := m.control(tr.Animation, msg); err != nil {
		m.status = fmt.Sprintf("%s: %v", tr.Label(), err)
	} else {
		m.status = ""
	}
	return m, nil
}

// control applies a track binding to the selected animation.
func (m PreviewModel) control(a *animation.Animation, msg tea.KeyMsg) error {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		if a.PlayState() == animation.StateRunning {
			return a.Pause()
		}
		return a.Play()

	case key.Matches(msg, m.keys.Reverse):
		return a.Reverse()

	case key.Matches(msg, m.keys.Finish):
		a.Finish()

	case key.Matches(msg, m.keys.Cancel):
		a.Cancel()

	case key.Matches(msg, m.keys.SeekBack), key.Matches(msg, m.keys.SeekForward):
		step := seekStep
		if key.Matches(msg, m.keys.SeekBack) {
			step = -seekStep
		}
		current, _ := a.CurrentTime()
		a.SetCurrentTime(current + step)

	case key.Matches(msg, m.keys.Faster):
		rate := a.PlaybackRate() * 2
		if rate == 0 {
			rate = 1
		}
		a.SetPlaybackRate(rate)

	case key.Matches(msg, m.keys.Slower):
		a.SetPlaybackRate(a.PlaybackRate() / 2)
	}
	return nil
}

// saveScreenshot writes the plain text of the current frame to the
// screenshots directory and returns a status line.
func (m PreviewModel) saveScreenshot() string {
	dir := filepath.Join(config.Dir(), "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "screenshot failed: " + err.Error()
	}
	name := fmt.Sprintf("%s_%s.txt", m.scene.Name, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.runner.Canvas(m.barWidth()).String()), 0o600); err != nil {
		return "screenshot failed: " + err.Error()
	}
	return "saved " + path
}

// barWidth is the width of the canvas drawn for the tracks.
func (m PreviewModel) barWidth() int {
	if m.cfg.BarWidth > 0 {
		return m.cfg.BarWidth
	}
	return max(m.width-stateWidth-4, minBarWidth)
}

// View renders the preview.
func (m PreviewModel) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("motion · " + m.scene.Name)
	clock := fmt.Sprintf("  t=%.0fms  run %d", m.runner.Time(), m.runs)
	if m.frozen {
		clock += "  [frozen]"
	}
	if m.cfg.Loop {
		clock += "  [loop]"
	}
	if m.runner.Done() {
		clock += "  [done]"
	}
	b.WriteString(title + dimStyle.Render(clock))
	b.WriteString("\n")
	if m.scene.Description != "" {
		b.WriteString(dimStyle.Render(m.scene.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	rows := strings.Split(render.Render(m.runner.Canvas(m.barWidth())), "\n")
	for i, tr := range m.runner.Tracks() {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		b.WriteString(cursor)
		if i < len(rows) {
			b.WriteString(rows[i])
		}
		b.WriteString("  ")
		b.WriteString(trackState(tr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, line := range m.feed.lines {
		b.WriteString(dimStyle.Render(line))
		b.WriteString("\n")
	}
	if m.status != "" {
		style := statusStyle
		if strings.Contains(m.status, "failed") {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	if m.cfg.ShowHelp {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	}
	return b.String()
}

// trackState formats the play state column of a track.
func trackState(tr *scene.Track) string {
	a := tr.Animation
	state := a.PlayState()
	current := "--"
	if t, ok := a.CurrentTime(); ok {
		current = fmt.Sprintf("%.0f", t)
	}
	style, ok := stateStyles[state]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Render(fmt.Sprintf("%-8s", state)) +
		dimStyle.Render(fmt.Sprintf(" %6s ms %5.2gx", current, a.PlaybackRate()))
}

// ID identifies the frames of this preview.
func (m PreviewModel) ID() int64 {
	return m.id
}

// Clock returns the timeline time the preview has reached.
func (m PreviewModel) Clock() float64 {
	return m.clock
}

// Runner returns the current playback.
func (m PreviewModel) Runner() *scene.Runner {
	return m.runner
}

// Status returns the last status line.
func (m PreviewModel) Status() string {
	return m.status
}

// BackToMenu returns true if the user asked to return to the menu.
func (m PreviewModel) BackToMenu() bool {
	return m.backToMenu
}

// IsQuitting returns true if the user quit.
func (m PreviewModel) IsQuitting() bool {
	return m.quitting
}

// Close ends the current run and returns its summary.
func (m PreviewModel) Close() (scene.Summary, error) {
	s := m.runner.Summary()
	return s, m.runner.Close()
}

// RunPreview plays cfg.Scene in the terminal until the user quits and
// returns the summary of the last run.
func RunPreview(cfg PreviewConfig) (scene.Summary, error) {
	model, err := NewPreviewModel(cfg)
	if err != nil {
		return scene.Summary{}, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		model.Close()
		return scene.Summary{}, err
	}
	m, ok := finalModel.(PreviewModel)
	if !ok {
		return model.Close()
	}
	return m.Close()
}
