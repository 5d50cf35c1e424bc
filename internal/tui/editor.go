package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/editor"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/render/termsurface"
	"github.com/muurk/boxes/internal/store"
	"github.com/muurk/boxes/internal/zoom"
)

// chromeLines is the number of terminal rows below the canvas: the status
// bar and the help or prompt line.
const chromeLines = 2

// Messages from the store watcher
type externalChangeMsg struct {
	stored string
}

type watchEndedMsg struct {
	err error
}

// Config configures the editor screen.
type Config struct {
	// Store loads and saves the document. Nil edits a scratch document.
	Store editor.Store
	// Watcher, if set, reports changes made by other writers.
	Watcher store.Watcher
	// Title is shown in the status bar.
	Title string
	// CellWidth and CellHeight are document pixels per terminal cell.
	CellWidth  float64
	CellHeight float64
	// WheelStep scales mouse wheel zooming.
	WheelStep float64
}

// EditorModel is the Bubble Tea model of the box editor.
type EditorModel struct {
	session *editor.Session
	surface *termsurface.Surface
	prompt  *Prompt

	keys editorKeyMap
	help help.Model

	ctx     context.Context
	cancel  context.CancelFunc
	watcher store.Watcher
	changes chan string

	title     string
	wheelStep float64

	width, height int
	status        string
	statusErr     bool
	quitArmed     bool
	showHelp      bool
	dragging      bool
}

// NewEditorModel creates the editor with an empty document. Call Load to
// read the document from the store before running the program.
func NewEditorModel(ctx context.Context, cfg Config) *EditorModel {
	cw, ch := cfg.CellWidth, cfg.CellHeight
	if cw <= 0 {
		cw = termsurface.DefaultCellWidth
	}
	if ch <= 0 {
		ch = termsurface.DefaultCellHeight
	}
	step := cfg.WheelStep
	if step <= 0 {
		step = 1
	}

	surface := termsurface.New(80, 24-chromeLines, cw, ch)
	prompt := NewPrompt()
	w, h := surface.Size()

	ctx, cancel := context.WithCancel(ctx)
	m := &EditorModel{
		surface:   surface,
		prompt:    prompt,
		keys:      newEditorKeyMap(),
		help:      help.New(),
		ctx:       ctx,
		cancel:    cancel,
		watcher:   cfg.Watcher,
		changes:   make(chan string, 1),
		title:     cfg.Title,
		wheelStep: step,
		width:     80,
		height:    24,
	}
	m.session = editor.New(editor.Options{
		Measure:  surface.MeasureText,
		Store:    cfg.Store,
		Prompt:   prompt,
		Viewport: geom.Pt(w, h),
	})
	return m
}

// Session returns the edit session.
func (m *EditorModel) Session() *editor.Session {
	return m.session
}

// Surface returns the terminal canvas.
func (m *EditorModel) Surface() *termsurface.Surface {
	return m.surface
}

// Load reads the document from the store, if there is one.
func (m *EditorModel) Load(ctx context.Context) error {
	err := m.session.Load(ctx)
	if errors.Is(err, editor.ErrNoStore) {
		return nil
	}
	m.frame()
	return err
}

// Init implements tea.Model
func (m *EditorModel) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return tea.Batch(m.watch(), m.waitForChange())
}

func (m *EditorModel) watch() tea.Cmd {
	return func() tea.Msg {
		err := m.watcher.Watch(m.ctx, func(stored string) {
			select {
			case m.changes <- stored:
			case <-m.ctx.Done():
			}
		})
		return watchEndedMsg{err: err}
	}
}

func (m *EditorModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case s := <-m.changes:
			return externalChangeMsg{stored: s}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// Update implements tea.Model
func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case externalChangeMsg:
		if msg.stored != m.session.Saved() {
			if err := m.session.ExternalChange(msg.stored); err != nil {
				m.setError("external change rejected", err)
			} else {
				m.setStatus("reloaded after external change")
			}
		}
		cmd = m.waitForChange()

	case watchEndedMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			logging.Warn("Store watch ended", zap.Error(msg.err))
			m.setError("watch stopped", msg.err)
		}
	}

	m.frame()
	return m, cmd
}

// frame draws a pending frame onto the surface.
func (m *EditorModel) frame() {
	if m.session.FramePending() {
		m.session.Frame(m.surface)
	}
}

func (m *EditorModel) resize(width, height int) {
	m.width, m.height = width, height
	m.surface.Resize(max(width, 1), max(height-chromeLines, 1))
	m.session.SetViewport(m.surface.Size())
	m.help.Width = width
	m.prompt.SetWidth(width)
}

func (m *EditorModel) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

func (m *EditorModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *EditorModel) setError(s string, err error) {
	m.status, m.statusErr = fmt.Sprintf("%s: %v", s, err), true
}

func (m *EditorModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	if m.prompt.Active() {
		switch msg.Type {
		case tea.KeyEnter:
			m.prompt.Submit()
		case tea.KeyEsc:
			m.prompt.Cancel()
		default:
			return m.prompt.Update(msg)
		}
		return nil
	}

	if m.showHelp {
		m.showHelp = false
		return nil
	}

	if !key.Matches(msg, m.keys.Quit) {
		m.quitArmed = false
	}

	for _, c := range m.keys.Commands {
		if key.Matches(msg, c.binding) {
			m.runCommand(c.command)
			return nil
		}
	}

	cw, ch := m.surface.CellSize()
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.session.Modified() && !m.quitArmed {
			m.quitArmed = true
			m.setStatus("unsaved changes, press q again to quit")
			return nil
		}
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.ZoomIn):
		m.zoomBy(zoom.PixelsPerLevel / 2)
	case key.Matches(msg, m.keys.ZoomOut):
		m.zoomBy(-zoom.PixelsPerLevel / 2)
	case key.Matches(msg, m.keys.Up):
		m.panBy(0, 2*ch)
	case key.Matches(msg, m.keys.Down):
		m.panBy(0, -2*ch)
	case key.Matches(msg, m.keys.Left):
		m.panBy(4*cw, 0)
	case key.Matches(msg, m.keys.Right):
		m.panBy(-4*cw, 0)
	case key.Matches(msg, m.keys.Deselect):
		m.session.ClearCursor()
		m.session.RequestFrame()
	}
	return nil
}

func (m *EditorModel) runCommand(name string) {
	err := m.session.Run(m.ctx, name)
	switch {
	case err != nil:
		m.setError(name+" failed", err)
	case name == "save":
		m.setStatus("saved")
	default:
		m.status = ""
	}
}

// zoomBy changes the zoom anchored at the centre of the canvas.
func (m *EditorModel) zoomBy(delta float64) {
	w, h := m.surface.Size()
	centre := geom.Pt(w/2, h/2)
	m.session.SetZoom(m.session.Zoom().Zoom()+delta, &centre)
}

func (m *EditorModel) panBy(dx, dy float64) {
	m.session.SetPan(m.session.Pan().Add(geom.Pt(dx, dy)))
}

func (m *EditorModel) handleMouse(msg tea.MouseMsg) {
	cols, rows := m.surface.Grid()
	col := min(max(msg.X, 0), cols-1)
	row := min(max(msg.Y, 0), rows-1)
	p := geom.Pt(m.surface.ToDocument(col, row))

	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		m.session.Wheel(p, -m.wheelStep, editor.WheelLine)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		m.session.Wheel(p, m.wheelStep, editor.WheelLine)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if msg.Y >= rows {
			return
		}
		m.dragging = true
		m.quitArmed = false
		m.session.TouchStart(p)
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.session.TouchMove(p)
	case msg.Action == tea.MouseActionRelease && m.dragging:
		m.dragging = false
		m.session.TouchEnd(p)
	}
}

// View implements tea.Model
func (m *EditorModel) View() string {
	if m.showHelp {
		return m.helpView()
	}

	bottom := m.help.View(m.keys)
	if m.prompt.Active() {
		bottom = m.prompt.View()
	}
	line := lipgloss.NewStyle().MaxWidth(m.width)
	return lipgloss.JoinVertical(lipgloss.Left,
		m.surface.String(),
		line.Render(m.statusLine()),
		line.Render(bottom),
	)
}

func (m *EditorModel) statusLine() string {
	title := m.title
	if title == "" {
		title = "scratch"
	}
	if m.session.Modified() {
		title += " ●"
	}
	left := StatusTitleStyle.Render(title)

	var msg string
	if m.status != "" {
		style := StatusMessageStyle
		if m.statusErr {
			style = StatusErrorStyle
		}
		msg = style.Render(m.status)
	}

	right := StatusInfoStyle.Render(fmt.Sprintf("zoom %.0f  cursor %s", m.session.Zoom().Zoom(), m.session.Cursor()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(msg) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + msg + StatusBarStyle.Render(strings.Repeat(" ", gap)) + right
}

func (m *EditorModel) helpView() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("boxes"))
	b.WriteString("\n")
	for _, c := range m.keys.Commands {
		b.WriteString(CommandNameStyle.Render(c.command))
		b.WriteString(fmt.Sprintf("%-14s %s\n", c.binding.Help().Key, c.help))
	}
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Click a box to place the cursor, drag to pan, scroll to zoom."))
	b.WriteString("\n\n")

	m.help.ShowAll = true
	b.WriteString(m.help.View(m.keys))
	m.help.ShowAll = false

	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render("Press any key to return."))
	return HelpBoxStyle.Render(b.String())
}
