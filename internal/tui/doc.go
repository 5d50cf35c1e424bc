// Package tui implements the interactive terminal editor for boxes.
//
// Built on Bubble Tea, the editor draws the document onto a
// termsurface.Surface and forwards terminal input to an editor.Session:
// mouse presses, drags and releases become touch gestures, the wheel zooms
// and keys run the named edit commands. Text is entered through a
// bubbles/textinput prompt that implements editor.Prompter.
//
// # Framework Components
//
//   - bubbles/textinput: the one-line text prompt
//   - bubbles/help and bubbles/key: key bindings and the help line
//   - bubbles/spinner and bubbles/list: the server picker
//   - lipgloss: status bar and chrome
//
// # Usage Example
//
//	m := tui.NewEditorModel(ctx, tui.Config{Store: st, Watcher: st, Title: "todo"})
//	if err := m.Load(ctx); err != nil {
//	    return err
//	}
//	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
//	_, err := program.Run()
//
// # External Changes
//
// When the store can be watched, changes made elsewhere arrive as messages
// on the program loop, so the session is only ever touched from Update.
package tui
