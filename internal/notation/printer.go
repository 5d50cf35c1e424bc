package notation

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Print returns the text form of n.
func Print(n *Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n *Node) {
	if n.Text != "" {
		b.WriteRune(LeafSym)
		b.WriteString(Escape(n.Text))
		return
	}

	b.WriteRune(OpenSym)
	for i, row := range n.Rows {
		if i != 0 {
			b.WriteRune(RowSym)
		}
		for _, cell := range row {
			write(b, cell)
		}
	}
	b.WriteRune(CloseSym)
}

// Escape prefixes every reserved character in s with '~'.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if IsReserved(r) {
			b.WriteRune(EscapeSym)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Encode prints n and percent-encodes the result for storage.
func Encode(n *Node) string {
	return EncodeString(Print(n))
}

// EncodeString percent-encodes an already printed document.
func EncodeString(printed string) string {
	return url.PathEscape(printed)
}

// Decode percent-decodes a stored document and parses it.
func Decode(stored string) (*Node, error) {
	printed, err := DecodeString(stored)
	if err != nil {
		return nil, err
	}
	return Parse(printed)
}

// DecodeString reverses EncodeString.
func DecodeString(stored string) (string, error) {
	printed, err := url.PathUnescape(stored)
	if err != nil {
		return "", &ParseError{Kind: ErrDecodeFailure, Err: err}
	}
	if !utf8.ValidString(printed) {
		return "", &ParseError{Kind: ErrDecodeFailure, Err: errInvalidUTF8}
	}
	return printed, nil
}
