package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompt is a one-line text prompt. It implements editor.Prompter.
type Prompt struct {
	input  textinput.Model
	active bool
	submit func(string)
}

// NewPrompt returns an inactive prompt.
func NewPrompt() *Prompt {
	ti := textinput.New()
	ti.Prompt = PromptLabelStyle.Render("› ")
	ti.CharLimit = 512
	return &Prompt{input: ti}
}

// Prompt opens the prompt with initial text. Any pending prompt is dropped
// without calling its submit function.
func (p *Prompt) Prompt(initial string, submit func(text string)) {
	p.input.SetValue(initial)
	p.input.CursorEnd()
	p.input.Focus()
	p.active = true
	p.submit = submit
}

// Cancel closes the prompt without submitting.
func (p *Prompt) Cancel() {
	p.active = false
	p.submit = nil
	p.input.Blur()
	p.input.Reset()
}

// Active reports whether the prompt is collecting text.
func (p *Prompt) Active() bool {
	return p.active
}

// Value returns the text typed so far.
func (p *Prompt) Value() string {
	return p.input.Value()
}

// Submit closes the prompt and hands its text to the submit function.
func (p *Prompt) Submit() {
	if !p.active {
		return
	}
	fn, text := p.submit, p.input.Value()
	p.Cancel()
	if fn != nil {
		fn(text)
	}
}

// SetWidth sets the visible width of the input.
func (p *Prompt) SetWidth(w int) {
	p.input.Width = max(w-4, 1)
}

// Update passes a key to the text input.
func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the input line.
func (p *Prompt) View() string {
	return p.input.View()
}
