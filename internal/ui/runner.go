package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// RunnerConfig holds configuration for a command execution
type RunnerConfig struct {
	Title           string            // Command title (e.g., "Check documents")
	Command         string            // Full command (e.g., "boxes check")
	Params          map[string]string // Parameters to display in header
	StepNames       []string          // One name per step
	Troubleshooting []string          // Tips shown when the operation fails
	Output          io.Writer         // Output writer (default: os.Stdout)
}

// Runner orchestrates the header → progress → result flow of a command.
type Runner struct {
	config   RunnerConfig
	header   *Header
	progress *Progress
	output   io.Writer
	width    int
}

// NewRunner creates a new runner for a command
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := GetTerminalWidth()

	var p *Progress
	if len(config.StepNames) > 0 {
		p = NewProgress("", len(config.StepNames)).SetWidth(width).SetStepNames(config.StepNames)
	}

	return &Runner{
		config:   config,
		header:   NewHeader(config.Title, config.Command, config.Params).SetWidth(width),
		progress: p,
		output:   config.Output,
		width:    width,
	}
}

// SetWidth overrides the detected terminal width.
func (r *Runner) SetWidth(width int) *Runner {
	r.width = width
	r.header.SetWidth(width)
	if r.progress != nil {
		r.progress.SetWidth(width)
	}
	return r
}

// Progress returns the step tracker, or nil for a command without steps.
func (r *Runner) Progress() *Progress {
	return r.progress
}

// Operation is the work a Runner displays. It reports steps through onStep
// and returns details for the result box.
type Operation func(onStep StepCallback) (map[string]string, error)

// Run prints the header, executes operation and prints the result box.
func (r *Runner) Run(ctx context.Context, operation Operation) (map[string]string, error) {
	start := time.Now()

	_, _ = fmt.Fprintln(r.output, r.header.Render())
	_, _ = fmt.Fprintln(r.output)

	details, err := operation(r.stepCallback(ctx))
	if err == nil {
		err = ctx.Err()
	}
	duration := time.Since(start).Round(time.Millisecond).String()

	_, _ = fmt.Fprintln(r.output)
	if err != nil {
		result := NewFailureResult(r.config.Title+" failed", err, r.config.Troubleshooting)
		result.AddDetail("Duration", duration)
		_, _ = fmt.Fprintln(r.output, result.SetWidth(r.width).Render())
		return details, err
	}

	if details == nil {
		details = make(map[string]string)
	}
	details["Duration"] = duration
	_, _ = fmt.Fprintln(r.output, NewSuccessResult(r.config.Title+" complete", details).SetWidth(r.width).Render())
	return details, nil
}

func (r *Runner) stepCallback(ctx context.Context) StepCallback {
	return func(stepNumber int, name string, status StepStatus, message string) {
		if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
			return
		}
		if ctx.Err() != nil {
			return
		}
		if name != "" {
			r.progress.Steps[stepNumber-1].Name = name
		}
		r.progress.UpdateStep(stepNumber, status, message)

		step := r.progress.Steps[stepNumber-1]
		switch status {
		case StepComplete, StepFailed, StepSkipped:
			_, _ = fmt.Fprintln(r.output, r.progress.renderStepLine(step))
		case StepRunning:
			// Overwritten when the step finishes.
			_, _ = fmt.Fprint(r.output, r.progress.renderStepLine(step)+"\r")
		}
	}
}

// PrintSuccess prints a styled success result
func PrintSuccess(w io.Writer, title string, details map[string]string) {
	_, _ = fmt.Fprintln(w, NewSuccessResult(title, details).Render())
}

// PrintFailure prints a styled failure result
func PrintFailure(w io.Writer, title string, err error, troubleshooting []string) {
	_, _ = fmt.Fprintln(w, NewFailureResult(title, err, troubleshooting).Render())
}

// PrintWarning prints a styled warning result
func PrintWarning(w io.Writer, title string, details map[string]string) {
	_, _ = fmt.Fprintln(w, NewWarningResult(title, details).Render())
}
