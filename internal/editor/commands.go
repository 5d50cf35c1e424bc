package editor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/muurk/boxes/internal/boxtree"
	"github.com/muurk/boxes/internal/logging"
)

// Command is a named edit operation acting on the current cursor.
type Command struct {
	Name string
	Help string
	run  func(ctx context.Context, s *Session) error
}

var commands = map[string]Command{}

func register(name, help string, run func(ctx context.Context, s *Session) error) {
	commands[name] = Command{Name: name, Help: help, run: run}
}

func init() {
	register("type", "type a box at the cursor", cmdType)
	register("typeWords", "type one box per word at the cursor", cmdTypeWords)
	register("newBox", "insert an empty box and name it", cmdNewBox)
	register("newRow", "break the row at the cursor", func(_ context.Context, s *Session) error { return s.SplitRow() })
	register("del", "delete the box or row break at the cursor", func(_ context.Context, s *Session) error { return s.DeleteAdjacent() })
	register("edit", "edit the text of the selected box", cmdEdit)
	register("save", "save the document", func(ctx context.Context, s *Session) error { return s.Save(ctx) })
	register("zoomOut", "collapse every level", func(_ context.Context, s *Session) error { s.ZoomOut(); return nil })
}

// Commands returns every registered command, sorted by name.
func Commands() []Command {
	out := make([]Command, 0, len(commands))
	for _, c := range commands {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run invokes the named command.
func (s *Session) Run(ctx context.Context, name string) error {
	c, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	logging.Debug("Running command", zap.String("command", name), zap.String("cursor", s.cursor.String()))
	return c.run(ctx, s)
}

// canType reports whether the cursor is somewhere text can be inserted.
func (s *Session) canType() bool {
	if s.cursor.Kind == CursorInside {
		return s.tree.Box(s.cursor.Box) != nil
	}
	b := s.cursorBeforeOrAfter()
	return b != nil && !b.IsRoot()
}

func (s *Session) prompt(op, initial string, submit func(text string) error) error {
	if s.prompter == nil {
		return contract(op, "no prompt available", nil)
	}
	s.prompter.Prompt(initial, func(text string) {
		if err := submit(text); err != nil {
			logging.Warn("Prompt submit failed", zap.String("command", op), zap.Error(err))
		}
	})
	return nil
}

func cmdType(_ context.Context, s *Session) error {
	if !s.canType() {
		return nil
	}
	return s.prompt("type", "", s.InsertTagged)
}

func cmdTypeWords(_ context.Context, s *Session) error {
	if !s.canType() {
		return nil
	}
	return s.prompt("typeWords", "", func(text string) error {
		for _, w := range strings.Fields(text) {
			if err := s.InsertTagged(w); err != nil {
				return err
			}
		}
		return nil
	})
}

func cmdNewBox(_ context.Context, s *Session) error {
	v := s.tree.Version()
	if err := s.InsertPlaceholder(); err != nil {
		return err
	}
	if s.tree.Version() == v {
		return nil
	}
	id := s.cursor.Box
	tree := s.tree
	return s.prompt("newBox", "", func(text string) error {
		// The document may have been replaced while the prompt was open.
		if s.tree != tree || tree.Box(id) == nil {
			return nil
		}
		return s.TagLeaf(id, text)
	})
}

func cmdEdit(_ context.Context, s *Session) error {
	b := s.cursorBeforeOrAfter()
	if s.cursor.Kind == CursorInside {
		b = s.tree.Box(s.cursor.Box)
	}
	if b == nil || b.HasRows() {
		return nil
	}
	id := b.ID
	tree := s.tree
	return s.prompt("edit", b.Text, func(text string) error {
		if s.tree != tree || tree.Box(id) == nil {
			return nil
		}
		return s.TagLeaf(id, text)
	})
}

// Selected returns the box the cursor refers to, or NoBox.
func (s *Session) Selected() boxtree.ID {
	if s.tree.Box(s.cursor.Box) == nil {
		return boxtree.NoBox
	}
	return s.cursor.Box
}
