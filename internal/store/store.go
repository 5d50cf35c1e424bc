// Package store persists a document's stored string under a handle.
//
// A stored string is the percent-encoded notation of a document root. Three
// backends share one shape: Memory for tests and scratch sessions, File for
// a document on disk, and Remote for a handle hosted by boxes-server. Each
// can watch for changes made elsewhere.
package store

import (
	"context"
	"fmt"
	"regexp"
	"sync"
)

// Store loads and saves one document. Load reports ok=false when nothing
// is stored under the handle yet.
type Store interface {
	Load(ctx context.Context) (stored string, ok bool, err error)
	Save(ctx context.Context, stored string) error
	Handle() string
}

// Watcher reports changes to the stored string made by someone else. Watch
// blocks until ctx is done or the watch fails.
type Watcher interface {
	Watch(ctx context.Context, changed func(stored string)) error
}

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]{0,127}$`)

// ValidHandle reports whether h can name a document on a server or in a
// store directory.
func ValidHandle(h string) bool {
	return handlePattern.MatchString(h)
}

// CheckHandle returns an ErrTypeInvalidHandle error for unusable handles.
func CheckHandle(h string) error {
	if ValidHandle(h) {
		return nil
	}
	return &StoreError{Type: ErrTypeInvalidHandle, Message: fmt.Sprintf("invalid handle %q", h)}
}

// Memory keeps the stored string in memory. Saves are broadcast to
// watchers; Set simulates a change made by another writer.
type Memory struct {
	mu       sync.Mutex
	handle   string
	stored   string
	ok       bool
	watchers map[chan string]struct{}
}

// NewMemory returns an empty memory store.
func NewMemory(handle string) *Memory {
	return &Memory{handle: handle, watchers: make(map[chan string]struct{})}
}

// Handle implements Store.
func (m *Memory) Handle() string {
	return m.handle
}

// Load implements Store.
func (m *Memory) Load(context.Context) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored, m.ok, nil
}

// Save implements Store. Watchers are not told about their own saves.
func (m *Memory) Save(_ context.Context, stored string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored, m.ok = stored, true
	return nil
}

// Set replaces the stored string and notifies watchers.
func (m *Memory) Set(stored string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored, m.ok = stored, true
	for ch := range m.watchers {
		select {
		case ch <- stored:
		default:
			// Drop the stale value so the newest one is delivered.
			select {
			case <-ch:
			default:
			}
			ch <- stored
		}
	}
}

// Watch implements Watcher.
func (m *Memory) Watch(ctx context.Context, changed func(string)) error {
	ch := make(chan string, 1)
	m.mu.Lock()
	m.watchers[ch] = struct{}{}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.watchers, ch)
		m.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s := <-ch:
			changed(s)
		}
	}
}
