package notation

import (
	"errors"
	"fmt"
)

// ErrorKind is the category of a parse failure.
type ErrorKind int

const (
	// ErrUnexpectedEnd indicates the input ended where an object or a closing
	// ')' was still expected.
	ErrUnexpectedEnd ErrorKind = iota
	// ErrMissingOpenOrLeafMarker indicates an object that starts with neither
	// '(' nor '\''.
	ErrMissingOpenOrLeafMarker
	// ErrEmptyRow indicates a row left empty by a following ',' or ')'.
	ErrEmptyRow
	// ErrRowWithoutPrevious indicates a ',' before any row was started.
	ErrRowWithoutPrevious
	// ErrEscapeAtEnd indicates '~' as the final character of the input.
	ErrEscapeAtEnd
	// ErrUnexpectedCharacter indicates a character that cannot appear at its
	// position inside a list.
	ErrUnexpectedCharacter
	// ErrTrailingCharacters indicates unconsumed input after a complete object.
	ErrTrailingCharacters
	// ErrDecodeFailure indicates the percent-encoded transport form was malformed.
	ErrDecodeFailure
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedEnd:
		return "UnexpectedEnd"
	case ErrMissingOpenOrLeafMarker:
		return "MissingOpenOrLeafMarker"
	case ErrEmptyRow:
		return "EmptyRow"
	case ErrRowWithoutPrevious:
		return "RowWithoutPrevious"
	case ErrEscapeAtEnd:
		return "EscapeAtEnd"
	case ErrUnexpectedCharacter:
		return "UnexpectedCharacter"
	case ErrTrailingCharacters:
		return "TrailingCharacters"
	case ErrDecodeFailure:
		return "DecodeFailure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// ParseError describes why a document could not be parsed.
type ParseError struct {
	Kind ErrorKind // Category of failure
	Pos  int       // Rune offset into the input where parsing stopped
	Char rune      // Offending character, if any
	Err  error     // Underlying error (decode failures only)
}

// Error implements the error interface
func (e *ParseError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Char != 0:
		return fmt.Sprintf("%s at offset %d (%q)", e.Kind, e.Pos, e.Char)
	default:
		return fmt.Sprintf("%s at offset %d", e.Kind, e.Pos)
	}
}

// Unwrap returns the underlying error for error chain inspection
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Message returns a short description of the failure, suitable for a status line.
func (e *ParseError) Message() string {
	switch e.Kind {
	case ErrUnexpectedEnd:
		return "expected object at end of input"
	case ErrMissingOpenOrLeafMarker:
		return fmt.Sprintf("missing %c or %c at start of object", OpenSym, LeafSym)
	case ErrEmptyRow:
		return "empty row"
	case ErrRowWithoutPrevious:
		return fmt.Sprintf("%c without previous row", RowSym)
	case ErrEscapeAtEnd:
		return "escape character at end of input"
	case ErrUnexpectedCharacter:
		return fmt.Sprintf("unexpected character %q", e.Char)
	case ErrTrailingCharacters:
		return "trailing characters after document"
	case ErrDecodeFailure:
		return "malformed percent-encoding"
	default:
		return e.Kind.String()
	}
}

// IsParseError reports whether err is a ParseError of the given kind.
func IsParseError(err error, kind ErrorKind) bool {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Kind == kind
	}
	return false
}

// KindOf returns the kind of a ParseError found in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.Kind, true
	}
	return 0, false
}
