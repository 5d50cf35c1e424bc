package notation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("invalid UTF-8")

// Reserved characters
const (
	OpenSym   = '('
	CloseSym  = ')'
	RowSym    = ','
	LeafSym   = '\''
	EscapeSym = '~'
)

// IsReserved reports whether r must be escaped inside leaf text.
func IsReserved(r rune) bool {
	switch r {
	case OpenSym, CloseSym, RowSym, LeafSym, EscapeSym:
		return true
	}
	return false
}

type parser struct {
	src []rune
	pos int
}

// Parse reads exactly one object from s. The whole input must be consumed.
func Parse(s string) (*Node, error) {
	if !utf8.ValidString(s) {
		return nil, invalidUTF8(s)
	}
	p := &parser{src: []rune(s)}

	n, err := p.object()
	if err != nil {
		return nil, err
	}

	if p.pos != len(p.src) {
		return nil, p.fail(ErrTrailingCharacters)
	}

	return n, nil
}

// invalidUTF8 reports the first byte of s that is not valid UTF-8.
func invalidUTF8(s string) *ParseError {
	pos := 0
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				break
			}
		}
		pos++
	}
	return &ParseError{Kind: ErrUnexpectedCharacter, Pos: pos, Char: utf8.RuneError}
}

func (p *parser) fail(kind ErrorKind) *ParseError {
	e := &ParseError{Kind: kind, Pos: p.pos}
	if p.pos < len(p.src) {
		e.Char = p.src[p.pos]
	}
	return e
}

func (p *parser) object() (*Node, error) {
	if p.pos >= len(p.src) {
		return nil, p.fail(ErrUnexpectedEnd)
	}

	switch p.src[p.pos] {
	case LeafSym:
		return p.leaf()
	case OpenSym:
		return p.list()
	default:
		return nil, p.fail(ErrMissingOpenOrLeafMarker)
	}
}

func (p *parser) leaf() (*Node, error) {
	p.pos++ // leaf marker

	var text strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case EscapeSym:
			p.pos++
			if p.pos >= len(p.src) {
				return nil, &ParseError{Kind: ErrEscapeAtEnd, Pos: p.pos - 1, Char: EscapeSym}
			}
			text.WriteRune(p.src[p.pos])
			p.pos++
		case OpenSym, CloseSym, RowSym, LeafSym:
			return &Node{Text: text.String()}, nil
		default:
			text.WriteRune(c)
			p.pos++
		}
	}

	return &Node{Text: text.String()}, nil
}

func (p *parser) list() (*Node, error) {
	p.pos++ // open

	n := &Node{}
	var cur []*Node
	started := false

	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case CloseSym:
			if started {
				if len(cur) == 0 {
					return nil, p.fail(ErrEmptyRow)
				}
				n.Rows = append(n.Rows, cur)
			}
			p.pos++
			return n, nil

		case RowSym:
			if !started {
				return nil, p.fail(ErrRowWithoutPrevious)
			}
			if len(cur) == 0 {
				return nil, p.fail(ErrEmptyRow)
			}
			n.Rows = append(n.Rows, cur)
			cur = nil
			p.pos++

		case OpenSym, LeafSym:
			started = true
			child, err := p.object()
			if err != nil {
				return nil, err
			}
			cur = append(cur, child)

		default:
			return nil, p.fail(ErrUnexpectedCharacter)
		}
	}

	return nil, p.fail(ErrUnexpectedEnd)
}

// Unescape removes escape characters from leaf text.
func Unescape(s string) (string, error) {
	src := []rune(s)
	var out strings.Builder
	for i := 0; i < len(src); i++ {
		if src[i] == EscapeSym {
			i++
			if i >= len(src) {
				return "", &ParseError{Kind: ErrEscapeAtEnd, Pos: i - 1, Char: EscapeSym}
			}
		}
		out.WriteRune(src[i])
	}
	return out.String(), nil
}
