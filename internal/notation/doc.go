// Package notation implements the compact text form used to persist box
// documents.
//
// A document is a single object. An object is either a list of rows or a
// tagged leaf:
//
//	object := list | leaf
//	list   := '(' row (',' row)* ')'     // "()" is a list with zero rows
//	row    := object+
//	leaf   := "'" (escapedChar | plainChar)* terminator
//
// Five characters are reserved: '(' opens a list, ')' closes it, ',' separates
// rows, '\'' starts a leaf and '~' escapes the next character inside a leaf.
// A leaf ends at the first unescaped reserved character or at end of input;
// the terminator is not consumed, so objects inside a row need no separator.
//
// # Parsing
//
//	root, err := notation.Parse("('foo'bar,'baz)")
//	if err != nil {
//	    var perr *notation.ParseError
//	    if errors.As(err, &perr) {
//	        fmt.Println(perr.Kind, perr.Pos)
//	    }
//	}
//
// Parse either returns a complete tree or an error; it never returns a partial
// result.
//
// # Printing
//
// Print is the structural inverse of Parse. Leaf text has every reserved
// character prefixed by '~'; rows are joined with ','.
//
// # Transport
//
// Stored documents are the printed form percent-encoded so they survive being
// carried in a URL fragment or a shareable handle. Encode and Decode wrap
// Print and Parse with that step; a malformed escape sequence is reported as
// ErrDecodeFailure.
package notation
