package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join("/tmp/xdg", "boxes") {
		t.Errorf("GetConfigDir() = %v, want /tmp/xdg/boxes", configDir)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	configDir, err = GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if configDir != filepath.Join("/home/someone", ".config", "boxes") {
		t.Errorf("GetConfigDir() = %v, want ~/.config/boxes", configDir)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != CurrentVersion {
		t.Errorf("NewRegistry().Version = %v, want %v", reg.Version, CurrentVersion)
	}
	if reg.Documents == nil {
		t.Error("NewRegistry().Documents should not be nil")
	}
	if diff := cmp.Diff(DefaultPreferences(), reg.Preferences); diff != "" {
		t.Errorf("preferences mismatch (-want +got):\n%s", diff)
	}
	if got := reg.Preferences.DiscoverDuration(); got != 5*time.Second {
		t.Errorf("DiscoverDuration() = %v, want 5s", got)
	}
}

func TestRecordOpen(t *testing.T) {
	reg := NewRegistry()
	reg.Preferences.MaxRecent = 2

	reg.RecordOpen("a.box", "a", SourceFile)
	reg.RecordOpen("http://studio:8420/b", "b", SourceRemote)
	base := time.Now()
	reg.Documents["a.box"].LastOpened = base.Add(-2 * time.Minute)
	reg.Documents["http://studio:8420/b"].LastOpened = base.Add(-time.Minute)

	// A third document pushes out the oldest.
	reg.RecordOpen("c.box", "c", SourceFile)

	want := []string{"c.box", "http://studio:8420/b"}
	if diff := cmp.Diff(want, reg.Recent()); diff != "" {
		t.Errorf("Recent() mismatch (-want +got):\n%s", diff)
	}
	if reg.GetDocument("a.box") != nil {
		t.Error("oldest document should have been dropped")
	}

	// Reopening keeps a single entry.
	reg.RecordOpen("c.box", "c", SourceFile)
	if len(reg.Documents) != 2 {
		t.Errorf("len(Documents) = %d, want 2", len(reg.Documents))
	}

	reg.Forget("c.box")
	if diff := cmp.Diff([]string{"http://studio:8420/b"}, reg.Recent()); diff != "" {
		t.Errorf("Recent() after Forget mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.Preferences.ServerURL = "http://studio.local:8420"
	reg.Preferences.CellWidth = 8
	doc := reg.RecordOpen("/notes/todo.box", "todo", SourceFile)
	doc.LastOpened = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if diff := cmp.Diff(reg, loaded); diff != "" {
		t.Errorf("loaded registry mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, reg *Registry)
	}{
		{
			name:    "missing file gives defaults",
			content: "",
			check: func(t *testing.T, reg *Registry) {
				if diff := cmp.Diff(NewRegistry(), reg); diff != "" {
					t.Errorf("registry mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:    "zero preferences are filled",
			content: "version: 1\npreferences:\n  server_url: http://x:1\n  auto_discover: false\n",
			check: func(t *testing.T, reg *Registry) {
				want := DefaultPreferences()
				want.ServerURL = "http://x:1"
				want.AutoDiscover = false
				if diff := cmp.Diff(want, reg.Preferences); diff != "" {
					t.Errorf("preferences mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name:    "unsupported version",
			content: "version: 2\n",
			wantErr: "unsupported config version",
		},
		{
			name:    "malformed yaml",
			content: "version: [\n",
			wantErr: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
					t.Fatal(err)
				}
			}

			reg, err := LoadFile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadFile() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			tt.check(t, reg)
		})
	}
}

func BenchmarkRecordOpen(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.RecordOpen("todo.box", "todo", SourceFile)
	}
}
