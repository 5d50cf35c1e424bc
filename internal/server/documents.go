package server

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/store"
)

// Documents holds the stored string of every hosted handle.
type Documents struct {
	mu   sync.RWMutex
	docs map[string]string
	dir  *store.Dir
}

// NewDocuments returns an in-memory document set. With a non-nil dir every
// accepted change is also written to disk.
func NewDocuments(dir *store.Dir) *Documents {
	return &Documents{docs: make(map[string]string), dir: dir}
}

// LoadDir reads every document file in the directory. Files that fail to
// parse are skipped and logged.
func (d *Documents) LoadDir(ctx context.Context) (int, error) {
	if d.dir == nil {
		return 0, nil
	}
	handles, err := d.dir.Handles()
	if err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	loaded := 0
	for _, h := range handles {
		f, err := d.dir.Open(h)
		if err != nil {
			continue
		}
		stored, ok, err := f.Load(ctx)
		if err != nil || !ok {
			logging.Warn("Skipping unreadable document", zap.String("handle", h), zap.Error(err))
			continue
		}
		if _, err := notation.Decode(stored); err != nil {
			logging.LogLoadError(h, err)
			continue
		}
		d.docs[h] = stored
		loaded++
	}
	return loaded, nil
}

// Get returns the stored string for handle.
func (d *Documents) Get(handle string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.docs[handle]
	return s, ok
}

// Handles returns every hosted handle, sorted.
func (d *Documents) Handles() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, 0, len(d.docs))
	for h := range d.docs {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Put validates and stores a new string for handle. It reports whether the
// stored string changed. A body that fails to decode or parse returns the
// *notation.ParseError and leaves the document alone.
func (d *Documents) Put(ctx context.Context, handle, stored string) (bool, error) {
	return d.Update(ctx, handle, stored, nil)
}

// Update is Put with a publish hook. When the stored string changed,
// publish runs before the next change to any handle is accepted, so
// watchers see changes in the order they were stored.
func (d *Documents) Update(ctx context.Context, handle, stored string, publish func(handle, stored string)) (bool, error) {
	if err := store.CheckHandle(handle); err != nil {
		return false, err
	}
	if _, err := notation.Decode(stored); err != nil {
		return false, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if old, ok := d.docs[handle]; ok && old == stored {
		return false, nil
	}
	if d.dir != nil {
		f, err := d.dir.Open(handle)
		if err != nil {
			return false, err
		}
		if err := f.Save(ctx, stored); err != nil {
			return false, err
		}
	}
	d.docs[handle] = stored
	logging.LogSave(handle, len(stored))
	if publish != nil {
		publish(handle, stored)
	}
	return true, nil
}

// Watch calls register with the current string of handle (empty when it
// is not hosted). No change is accepted while register runs.
func (d *Documents) Watch(handle string, register func(current string)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	register(d.docs[handle])
}

// IsRejected reports whether err from Put means the body was refused
// rather than a server failure.
func IsRejected(err error) bool {
	var pe *notation.ParseError
	var se *store.StoreError
	if errors.As(err, &pe) {
		return true
	}
	return errors.As(err, &se) && se.Type == store.ErrTypeInvalidHandle
}
