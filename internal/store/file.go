package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/notation"
)

// DefaultPollInterval is how often File.Watch checks the file.
const DefaultPollInterval = 500 * time.Millisecond

// Extension is the conventional suffix of document files.
const Extension = ".box"

// File keeps a document on disk in readable (decoded) notation, one
// document per file. Stored strings are encoded on Load and decoded on Save.
type File struct {
	path string

	// PollInterval overrides DefaultPollInterval for Watch.
	PollInterval time.Duration

	mu   sync.Mutex
	last string // decoded text last read or written by this process
}

// NewFile returns a store for the document at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Handle implements Store. A file's handle is its base name without the
// document extension.
func (f *File) Handle() string {
	return strings.TrimSuffix(filepath.Base(f.path), Extension)
}

func (f *File) read() (string, bool, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return strings.TrimSuffix(string(data), "\n"), true, nil
}

// Load implements Store.
func (f *File) Load(context.Context) (string, bool, error) {
	text, ok, err := f.read()
	if err != nil || !ok {
		return "", ok, err
	}
	f.mu.Lock()
	f.last = text
	f.mu.Unlock()
	return notation.EncodeString(text), true, nil
}

// Save implements Store. The write goes through a temporary file and a
// rename so readers never see a partial document.
func (f *File) Save(_ context.Context, stored string) error {
	text, err := notation.DecodeString(stored)
	if err != nil {
		return NewDecodeError("stored string is not percent-encoded", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save %s: %w", f.path, err)
	}
	f.last = text
	return nil
}

// Watch implements Watcher by polling the file. Changes this File wrote
// itself are not reported.
func (f *File) Watch(ctx context.Context, changed func(string)) error {
	interval := f.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastMod time.Time
	var lastSize int64 = -1

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		info, err := os.Stat(f.path)
		if err != nil {
			continue
		}
		if info.ModTime().Equal(lastMod) && info.Size() == lastSize {
			continue
		}
		lastMod, lastSize = info.ModTime(), info.Size()

		text, ok, err := f.read()
		if err != nil || !ok {
			continue
		}
		f.mu.Lock()
		same := text == f.last
		f.last = text
		f.mu.Unlock()
		if same {
			continue
		}
		logging.LogWatchEvent(f.Handle(), "file changed")
		logging.Debug("Watched file changed", zap.String("path", f.path), zap.Int64("size", info.Size()))
		changed(notation.EncodeString(text))
	}
}

// Dir is a directory of document files keyed by handle.
type Dir struct {
	root string
}

// NewDir returns a directory store rooted at root.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Open returns the file store for handle.
func (d *Dir) Open(handle string) (*File, error) {
	if err := CheckHandle(handle); err != nil {
		return nil, err
	}
	return NewFile(filepath.Join(d.root, handle+Extension)), nil
}

// Handles lists the handles with a document file, sorted by name.
func (d *Dir) Handles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(d.root, "*"+Extension))
	if err != nil {
		return nil, err
	}
	handles := make([]string, 0, len(matches))
	for _, m := range matches {
		h := strings.TrimSuffix(filepath.Base(m), Extension)
		if ValidHandle(h) {
			handles = append(handles, h)
		}
	}
	return handles, nil
}
