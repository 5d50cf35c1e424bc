package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/boxes/internal/discovery"
)

func scanResult(services []*discovery.Service, err error) ScanFunc {
	return func(context.Context) ([]*discovery.Service, error) {
		return services, err
	}
}

// finishScan delivers the start and completion messages the way the
// program would.
func finishScan(m PickerModel, services []*discovery.Service, err error) PickerModel {
	next, _ := m.Update(scanStartMsg{})
	next, _ = next.Update(scanCompleteMsg{services: services, err: err})
	return next.(PickerModel)
}

func TestPickerModel_Select(t *testing.T) {
	services := []*discovery.Service{
		{Instance: "studio", IP: "192.168.1.20", Port: 8420},
		{Instance: "attic", IP: "192.168.1.21", Port: 8420, TLS: true},
	}
	m := NewPickerModel(context.Background(), 0, scanResult(services, nil))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = finishScan(next.(PickerModel), services, nil)

	if !strings.Contains(m.View(), "studio") {
		t.Errorf("View() does not list the servers:\n%s", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PickerModel)

	if !isQuit(cmd) {
		t.Error("enter did not quit the picker")
	}
	if m.Selected() != services[1] {
		t.Errorf("Selected() = %v, want %v", m.Selected(), services[1])
	}
}

func TestPickerModel_States(t *testing.T) {
	tests := []struct {
		name     string
		services []*discovery.Service
		err      error
		want     string
	}{
		{
			name: "nothing found",
			want: "No boxes servers found",
		},
		{
			name: "scan failed",
			err:  errors.New("no multicast"),
			want: "Scan failed: no multicast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewPickerModel(context.Background(), 0, scanResult(tt.services, tt.err))
			m = finishScan(m, tt.services, tt.err)
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("View() = %q, want it to contain %q", m.View(), tt.want)
			}

			next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
			if isQuit(cmd) || next.(PickerModel).Selected() != nil {
				t.Error("enter with nothing listed selected a server")
			}
		})
	}
}

func TestPickerModel_Scanning(t *testing.T) {
	m := NewPickerModel(context.Background(), 0, scanResult(nil, nil))
	next, _ := m.Update(scanStartMsg{})
	m = next.(PickerModel)

	if !strings.Contains(m.View(), "SEARCHING") {
		t.Errorf("View() while scanning = %q", m.View())
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); !isQuit(cmd) {
		t.Error("q did not quit while scanning")
	}
}
