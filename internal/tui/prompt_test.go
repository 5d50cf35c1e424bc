package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPrompt_Submit(t *testing.T) {
	p := NewPrompt()
	var got []string
	p.Prompt("ab", func(text string) { got = append(got, text) })

	if !p.Active() {
		t.Fatal("Active() = false after Prompt")
	}
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if p.Value() != "abc" {
		t.Errorf("Value() = %q, want %q", p.Value(), "abc")
	}

	p.Submit()
	if p.Active() {
		t.Error("Active() = true after Submit")
	}
	if len(got) != 1 || got[0] != "abc" {
		t.Errorf("submitted %q, want [abc]", got)
	}

	p.Submit()
	if len(got) != 1 {
		t.Errorf("Submit on a closed prompt called submit again")
	}
}

func TestPrompt_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		cancel func(p *Prompt)
	}{
		{
			name:   "cancel",
			cancel: func(p *Prompt) { p.Cancel() },
		},
		{
			name:   "replaced by a new prompt",
			cancel: func(p *Prompt) { p.Prompt("", func(string) {}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompt()
			called := false
			p.Prompt("x", func(string) { called = true })
			tt.cancel(p)
			p.Submit()
			if called {
				t.Error("cancelled prompt was submitted")
			}
		})
	}
}

func TestPrompt_SubmitMayReopen(t *testing.T) {
	p := NewPrompt()
	p.Prompt("", func(string) {
		p.Prompt("again", func(string) {})
	})
	p.Submit()
	if !p.Active() || p.Value() != "again" {
		t.Errorf("Active() = %v, Value() = %q, want reopened prompt", p.Active(), p.Value())
	}
}
