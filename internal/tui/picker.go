package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/boxes/internal/discovery"
)

// ErrNoSelection is returned by PickServer when the user quits without
// choosing a server.
var ErrNoSelection = errors.New("no server selected")

// ScanFunc finds servers on the network.
type ScanFunc func(ctx context.Context) ([]*discovery.Service, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	services []*discovery.Service
	err      error
}

// pickerKeyMap defines key bindings for the server picker
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Quit},
	}
}

// serviceItem wraps a Service for use with bubbles/list
type serviceItem struct {
	service *discovery.Service
}

func (s serviceItem) FilterValue() string {
	return s.service.Instance + " " + s.service.IP + " " + s.service.Hostname
}

func (s serviceItem) Title() string { return s.service.Instance }

func (s serviceItem) Description() string {
	v := s.service.Version
	if v == "" {
		v = "unknown"
	}
	return fmt.Sprintf("%s • version %s", s.service.BaseURL(), v)
}

// serviceDelegate renders one server per line pair
type serviceDelegate struct{}

func (d serviceDelegate) Height() int { return 2 }

func (d serviceDelegate) Spacing() int { return 1 }

func (d serviceDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d serviceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(serviceItem)
	if !ok {
		return
	}
	title := "  " + si.Title()
	if index == m.Index() {
		title = SelectedItemStyle.Render("→ " + si.Title())
	}
	fmt.Fprintf(w, "%s\n    %s", title, SubtitleStyle.Render(si.Description()))
}

// PickerModel is the server picker screen.
type PickerModel struct {
	ctx     context.Context
	scan    ScanFunc
	timeout time.Duration

	scanning  bool
	scanStart time.Time
	list      list.Model
	selected  *discovery.Service
	err       error

	width, height int
	spinner       spinner.Model
	help          help.Model
	keys          pickerKeyMap
}

// NewPickerModel creates a picker that scans with scan. A nil scan uses an
// mDNS scanner limited to timeout.
func NewPickerModel(ctx context.Context, timeout time.Duration, scan ScanFunc) PickerModel {
	if scan == nil {
		scan = func(ctx context.Context) ([]*discovery.Service, error) {
			s := discovery.NewScanner()
			if timeout > 0 {
				s.Timeout = timeout
			}
			return s.Scan(ctx)
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	l := list.New([]list.Item{}, serviceDelegate{}, 0, 0)
	l.Title = "boxes servers"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = TitleStyle

	return PickerModel{
		ctx:     ctx,
		scan:    scan,
		timeout: timeout,
		list:    l,
		spinner: s,
		help:    help.New(),
		keys: pickerKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "open"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

func (m PickerModel) startScan() tea.Cmd {
	scan, ctx := m.scan, m.ctx
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			services, err := scan(ctx)
			return scanCompleteMsg{services: services, err: err}
		},
		m.spinner.Tick,
	)
}

// Init starts the first scan
func (m PickerModel) Init() tea.Cmd {
	return m.startScan()
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case m.scanning:
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			if item, ok := m.list.SelectedItem().(serviceItem); ok {
				m.selected = item.service
				return m, tea.Quit
			}
			return m, nil
		case key.Matches(msg, m.keys.Rescan):
			m.list.SetItems([]list.Item{})
			m.err = nil
			return m, m.startScan()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetWidth(msg.Width - 4)
		m.list.SetHeight(max(msg.Height-6, 3))
		m.help.Width = msg.Width

	case scanStartMsg:
		m.scanning = true
		m.scanStart = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.scanning = false
		m.err = msg.err
		items := make([]list.Item, len(msg.services))
		for i, s := range msg.services {
			items[i] = serviceItem{service: s}
		}
		m.list.SetItems(items)
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if !m.scanning {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// View renders the picker
func (m PickerModel) View() string {
	width := m.width
	if width == 0 {
		width = 72
	}

	var content string
	switch {
	case m.scanning:
		elapsed := time.Since(m.scanStart).Round(time.Second)
		content = lipgloss.JoinVertical(lipgloss.Center,
			"",
			TitleStyle.Render(m.spinner.View()+" SEARCHING FOR SERVERS"),
			SubtitleStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		)
		content = lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
	case m.err != nil:
		content = "\n  " + ErrorStyle.Render(fmt.Sprintf("Scan failed: %v", m.err)) + "\n"
	case len(m.list.Items()) == 0:
		var b strings.Builder
		b.WriteString("\n  ")
		b.WriteString(WarningStyle.Render("⚠ No boxes servers found on your network"))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Start one with: boxes-server serve\n")
		b.WriteString("    • Check that multicast DNS is allowed on this network\n")
		b.WriteString("    • Or pass the address with --server\n")
		content = b.String()
	default:
		content = m.list.View()
	}

	return content + "\n" + m.help.View(m.keys)
}

// Selected returns the chosen server, or nil.
func (m PickerModel) Selected() *discovery.Service {
	return m.selected
}

// Err returns the last scan error.
func (m PickerModel) Err() error {
	return m.err
}

// PickServer runs the picker and returns the server the user chose.
func PickServer(ctx context.Context, timeout time.Duration) (*discovery.Service, error) {
	final, err := tea.NewProgram(NewPickerModel(ctx, timeout, nil), tea.WithContext(ctx)).Run()
	if err != nil {
		return nil, err
	}
	m := final.(PickerModel)
	if m.selected == nil {
		if m.err != nil {
			return nil, m.err
		}
		return nil, ErrNoSelection
	}
	return m.selected, nil
}
