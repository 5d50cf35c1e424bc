package editor

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/geom"
	"github.com/muurk/boxes/internal/logging"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/zoom"
)

// ErrNoStore is returned by Load and Save on a session without a store.
var ErrNoStore = errors.New("no store configured")

func (s *Session) handle() string {
	if s.store == nil {
		return ""
	}
	return s.store.Handle()
}

// Load reads the document from the store. An absent document leaves the
// session as it is.
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	stored, ok, err := s.store.Load(ctx)
	if err != nil {
		logging.Warn("Store load failed", zap.String("handle", s.handle()), zap.Error(err))
		return err
	}
	if !ok {
		return nil
	}
	return s.LoadString(stored)
}

// LoadString replaces the document with a decoded, parsed stored string. On
// any error the live document is untouched.
func (s *Session) LoadString(stored string) error {
	n, err := notation.Decode(stored)
	if err != nil {
		logging.LogLoadError(s.handle(), err)
		return err
	}
	s.Replace(boxtree.Build(n, s.textWidth))
	logging.LogLoad(s.handle(), len(stored))
	return nil
}

// Replace swaps in a new document, resets cursor, pan and zoom, shows it one
// level in from fully collapsed and centres the root in the viewport.
func (s *Session) Replace(t *boxtree.Tree) {
	if s.prompter != nil {
		s.prompter.Cancel()
	}
	s.tree = t
	s.cursor = NoCursor
	s.pan = geom.Point{}
	s.tempPan = geom.Point{}
	s.gesture.reset()
	s.zoomTarget = boxtree.NoBox

	s.zoom.SetZoom(0)
	s.ZoomOut()
	s.SetZoom(s.zoom.Zoom()+zoom.PixelsPerLevel, nil)
	s.structureDirty = true
	s.Update()

	if root := s.tree.Box(s.tree.Root()); root != nil {
		root.X = (s.viewport.X - root.W) / 2
		root.Y = (s.viewport.Y - root.H) / 2
	}
	s.saved = s.Encoded()
	s.markStructure()
}

// Encoded returns the document in stored form.
func (s *Session) Encoded() string {
	return notation.EncodeString(s.tree.String())
}

// Saved returns the stored form last loaded or saved.
func (s *Session) Saved() string {
	return s.saved
}

// Modified reports whether the document differs from its stored form.
func (s *Session) Modified() bool {
	return s.Encoded() != s.saved
}

// Save writes the document to the store.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	encoded := s.Encoded()
	if err := s.store.Save(ctx, encoded); err != nil {
		logging.Warn("Store save failed", zap.String("handle", s.handle()), zap.Error(err))
		return err
	}
	s.saved = encoded
	logging.LogSave(s.handle(), len(encoded))
	return nil
}

// ExternalChange handles a stored string changed out of band. It reloads
// only when the string differs from what this session last loaded or saved.
func (s *Session) ExternalChange(stored string) error {
	if stored == s.saved {
		return nil
	}
	return s.LoadString(stored)
}
