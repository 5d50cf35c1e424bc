package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestProgress_UpdateStep(t *testing.T) {
	p := NewProgress("", 4).SetStepNames([]string{"a", "b", "c", "d"})

	p.UpdateStep(1, StepRunning, "")
	if p.Current != 1 {
		t.Errorf("Current = %d, want 1", p.Current)
	}
	p.UpdateStep(1, StepComplete, "")
	p.UpdateStep(2, StepFailed, "bad")
	p.UpdateStep(9, StepComplete, "") // out of range is ignored

	if p.Percent != 0.5 {
		t.Errorf("Percent = %v, want 0.5", p.Percent)
	}
	if p.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", p.Failed())
	}
	if out := p.Render(); !strings.Contains(out, "(bad)") {
		t.Errorf("Render() missing step message:\n%s", out)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yes", true},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			if got := ConfirmOverwrite(strings.NewReader(tt.input), &out, "x.png"); got != tt.want {
				t.Errorf("ConfirmOverwrite(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if !strings.Contains(out.String(), "x.png") {
				t.Error("prompt does not name the file")
			}
		})
	}
}

func TestResult_Render(t *testing.T) {
	out := NewFailureResult("Check failed", errors.New("UnexpectedEnd at offset 3"), []string{"Run boxes fmt"}).
		AddDetail("File", "todo.box").
		SetWidth(80).
		Render()

	for _, want := range []string{"FAILED", "Check failed", "UnexpectedEnd at offset 3", "todo.box", "Troubleshooting"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}
}

func TestOutputBox_MaxLines(t *testing.T) {
	out := NewOutputBox("Outline", "one\ntwo\nthree\n").SetMaxLines(2).SetWidth(60).Render()
	if strings.Contains(out, "three") || !strings.Contains(out, "truncated") {
		t.Errorf("Render() did not truncate:\n%s", out)
	}
}

func TestRunner(t *testing.T) {
	var out bytes.Buffer
	r := NewRunner(RunnerConfig{
		Title:     "Check documents",
		Command:   "boxes check",
		StepNames: []string{"a.box", "b.box"},
		Output:    &out,
	}).SetWidth(80)

	details, err := r.Run(context.Background(), func(onStep StepCallback) (map[string]string, error) {
		onStep(1, "", StepRunning, "")
		onStep(1, "", StepComplete, "3 boxes")
		onStep(2, "b.box (renamed)", StepComplete, "")
		return map[string]string{"Documents": "2"}, nil
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if details["Documents"] != "2" || details["Duration"] == "" {
		t.Errorf("details = %v", details)
	}
	for _, want := range []string{"CHECK DOCUMENTS", "3 boxes", "b.box (renamed)", "complete"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}

	out.Reset()
	wantErr := errors.New("boom")
	if _, err := r.Run(context.Background(), func(StepCallback) (map[string]string, error) { return nil, wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Run() error = %v, want %v", err, wantErr)
	}
	if !strings.Contains(out.String(), "FAILED") {
		t.Error("failure box not printed")
	}
}
