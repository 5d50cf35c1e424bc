// Package ui provides terminal output components for the boxes CLI.
//
// These components use Lipgloss (and the Bubbles progress bar) to render
// command output in a "run once and exit" style. The interactive editor
// lives in package tui.
//
// The package provides:
//
//   - Header: command banner showing operation name and parameters
//   - Progress: progress bar with step list for multi-file commands
//   - Result: success, failure and warning boxes
//   - OutputBox: a bordered box around raw text, such as a document outline
//   - Runner: orchestrates header → steps → result for a command
//
// Example:
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:      "Check documents",
//	    Command:    "boxes check",
//	    StepNames:  files,
//	})
//	details, err := runner.Run(ctx, func(onStep ui.StepCallback) (map[string]string, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    // ... do work ...
//	    onStep(1, "", ui.StepComplete, "42 boxes")
//	    return nil, nil
//	})
//
// # Logging Integration
//
// Logging is controlled via the BOXES_LOG_LEVEL environment variable. When
// unset, zap logging is silent so the styled output is displayed cleanly.
package ui
