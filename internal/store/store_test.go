package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidHandle(t *testing.T) {
	tests := []struct {
		handle string
		want   bool
	}{
		{"notes", true},
		{"my-notes_2.v1", true},
		{"", false},
		{".hidden", false},
		{"../etc", false},
		{"a/b", false},
		{"with space", false},
		{strings.Repeat("x", 128), true},
		{strings.Repeat("x", 129), false},
	}

	for _, tt := range tests {
		if got := ValidHandle(tt.handle); got != tt.want {
			t.Errorf("ValidHandle(%q) = %v, want %v", tt.handle, got, tt.want)
		}
	}

	var se *StoreError
	if err := CheckHandle("a/b"); !errors.As(err, &se) || se.Type != ErrTypeInvalidHandle {
		t.Errorf("CheckHandle() error = %v, want ErrTypeInvalidHandle", err)
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("scratch")

	if _, ok, err := m.Load(ctx); ok || err != nil {
		t.Fatalf("Load() on empty store = ok %v, err %v", ok, err)
	}
	if err := m.Save(ctx, "%28'a%29"); err != nil {
		t.Fatal(err)
	}
	if s, ok, _ := m.Load(ctx); !ok || s != "%28'a%29" {
		t.Errorf("Load() = %q, %v", s, ok)
	}
	if m.Handle() != "scratch" {
		t.Errorf("Handle() = %q", m.Handle())
	}
}

func TestMemory_Watch(t *testing.T) {
	m := NewMemory("scratch")
	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan string, 4)
	done := make(chan error, 1)

	go func() { done <- m.Watch(ctx, func(s string) { got <- s }) }()

	// Wait for the watcher to register.
	deadline := time.Now().Add(time.Second)
	for {
		m.mu.Lock()
		n := len(m.watchers)
		m.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("watcher never registered")
		}
		time.Sleep(time.Millisecond)
	}

	m.Set("one")
	select {
	case s := <-got:
		if s != "one" {
			t.Errorf("watch delivered %q, want one", s)
		}
	case <-time.After(time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch() error = %v, want context.Canceled", err)
	}
}
