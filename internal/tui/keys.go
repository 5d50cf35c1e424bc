package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/muurk/boxes/internal/editor"
)

// commandKeys maps editor commands to their keys. Commands without keys
// are not bound.
var commandKeys = map[string][]string{
	"type":      {"t"},
	"typeWords": {"w"},
	"newBox":    {"n"},
	"newRow":    {"enter", "r"},
	"del":       {"backspace", "delete", "x"},
	"edit":      {"e"},
	"save":      {"ctrl+s"},
	"zoomOut":   {"z"},
}

type commandBinding struct {
	command string
	help    string
	binding key.Binding
}

// editorKeyMap defines key bindings for the editor screen
type editorKeyMap struct {
	Commands []commandBinding

	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Deselect key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newEditorKeyMap() editorKeyMap {
	k := editorKeyMap{
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "pan up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "pan down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan right"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear cursor"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}

	for _, c := range editor.Commands() {
		keys := commandKeys[c.Name]
		if len(keys) == 0 {
			continue
		}
		k.Commands = append(k.Commands, commandBinding{
			command: c.Name,
			help:    c.Help,
			binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], c.Name)),
		})
	}
	return k
}

// command returns the binding for a command name.
func (k editorKeyMap) command(name string) key.Binding {
	for _, c := range k.Commands {
		if c.command == name {
			return c.binding
		}
	}
	return key.NewBinding(key.WithDisabled())
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.command("type"), k.command("newBox"), k.command("del"),
		k.command("save"), k.ZoomIn, k.ZoomOut, k.Help, k.Quit,
	}
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	cmds := make([]key.Binding, len(k.Commands))
	for i, c := range k.Commands {
		cmds[i] = c.binding
	}
	return [][]key.Binding{
		cmds,
		{k.ZoomIn, k.ZoomOut, k.Up, k.Down, k.Left, k.Right},
		{k.Deselect, k.Help, k.Quit},
	}
}
