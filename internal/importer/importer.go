// Package importer turns outline documents into notation trees.
//
// Headings open nested boxes, paragraphs become rows of one-word leaves and
// bullet lists become boxes with one row per item. The document title, when
// known, is the first row of the root box.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/muurk/boxes/internal/notation"
)

// Importer converts a source document into a notation tree.
type Importer interface {
	Import(r io.Reader, filename string) (*notation.Node, error)
}

// SupportedExtensions lists the file extensions ForFile accepts.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// ForFile returns the importer for a filename.
func ForFile(filename string) (Importer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown":
		return &Markdown{}, nil
	case ".html", ".htm":
		return &HTML{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// titleFromName strips the directory and extension from filename.
func titleFromName(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// words splits text into one leaf per whitespace-separated word.
func words(text string) []*notation.Node {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	leaves := make([]*notation.Node, len(fields))
	for i, f := range fields {
		leaves[i] = notation.Leaf(f)
	}
	return leaves
}

type entry struct {
	node  *notation.Node
	level int
}

// outline builds the box tree while walking a document in order. Sections
// nest by heading level; level 0 is the root.
type outline struct {
	root  *notation.Node
	stack []entry
}

func newOutline(title string) *outline {
	root := notation.List()
	if row := words(title); row != nil {
		root.Rows = append(root.Rows, row)
	}
	return &outline{root: root, stack: []entry{{node: root}}}
}

func (o *outline) top() *notation.Node {
	return o.stack[len(o.stack)-1].node
}

func (o *outline) heading(level int, title string) {
	for len(o.stack) > 1 && o.stack[len(o.stack)-1].level >= level {
		o.stack = o.stack[:len(o.stack)-1]
	}
	section := notation.List()
	if row := words(title); row != nil {
		section.Rows = append(section.Rows, row)
	}
	parent := o.top()
	parent.Rows = append(parent.Rows, notation.Row(section))
	o.stack = append(o.stack, entry{node: section, level: level})
}

func (o *outline) paragraph(text string) {
	if row := words(text); row != nil {
		top := o.top()
		top.Rows = append(top.Rows, row)
	}
}

func (o *outline) box(n *notation.Node) {
	top := o.top()
	top.Rows = append(top.Rows, notation.Row(n))
}
