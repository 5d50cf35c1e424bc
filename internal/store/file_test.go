package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/muurk/boxes/internal/notation"
)

func TestFile_LoadSave(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "notes.box")
	f := NewFile(path)

	if _, ok, err := f.Load(ctx); ok || err != nil {
		t.Fatalf("Load() of missing file = ok %v, err %v", ok, err)
	}
	if got := f.Handle(); got != "notes" {
		t.Errorf("Handle() = %q, want notes", got)
	}

	stored := notation.EncodeString("('a b'c,('d))")
	if err := f.Save(ctx, stored); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "('a b'c,('d))\n"; got != want {
		t.Errorf("file contents = %q, want readable notation %q", got, want)
	}

	got, ok, err := f.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load() = ok %v, err %v", ok, err)
	}
	if got != stored {
		t.Errorf("Load() = %q, want %q", got, stored)
	}
}

func TestFile_LoadSave_TrailingLineBreaks(t *testing.T) {
	tests := []struct {
		name    string
		printed string
	}{
		{name: "leaf ending in newline", printed: "'a\n"},
		{name: "leaf ending in two newlines", printed: "'a\n\n"},
		{name: "leaf ending in carriage return", printed: "'a\r"},
		{name: "leaf ending in crlf", printed: "'a\r\n"},
		{name: "list with newline leaf", printed: "('x'y\n)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := NewFile(filepath.Join(t.TempDir(), "notes.box"))
			stored := notation.EncodeString(tt.printed)
			if err := f.Save(ctx, stored); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			got, ok, err := NewFile(f.path).Load(ctx)
			if err != nil || !ok {
				t.Fatalf("Load() = ok %v, err %v", ok, err)
			}
			if got != stored {
				t.Errorf("Load() = %q, want %q", got, stored)
			}
		})
	}
}

func TestFile_SaveRejectsBadEncoding(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "x.box"))
	var se *StoreError
	if err := f.Save(context.Background(), "%zz"); !errors.As(err, &se) || se.Type != ErrTypeDecode {
		t.Errorf("Save() error = %v, want ErrTypeDecode", err)
	}
}

func TestFile_Watch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "w.box")
	f := NewFile(path)
	f.PollInterval = 5 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := f.Save(ctx, notation.EncodeString("('mine)")); err != nil {
		t.Fatal(err)
	}

	got := make(chan string, 4)
	go func() { _ = f.Watch(ctx, func(s string) { got <- s }) }()

	// Our own save must not be reported.
	select {
	case s := <-got:
		t.Fatalf("watch reported own save %q", s)
	case <-time.After(50 * time.Millisecond):
	}

	if err := os.WriteFile(path, []byte("('theirs)\n"), 0644); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-got:
		if want := notation.EncodeString("('theirs)"); s != want {
			t.Errorf("watch delivered %q, want %q", s, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("external write not reported")
	}
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	d := NewDir(root)
	ctx := context.Background()

	for _, h := range []string{"b", "a"} {
		f, err := d.Open(h)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.Save(ctx, notation.EncodeString("('"+h+")")); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "ignored.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	handles, err := d.Handles()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, handles); diff != "" {
		t.Errorf("Handles() mismatch (-want +got):\n%s", diff)
	}

	if _, err := d.Open("../escape"); err == nil {
		t.Error("Open() accepted a path-escaping handle")
	}
}
