// Package editor is the interactive core: one Session owns the document
// tree, the cursor, zoom and pan, and turns input into tree mutations.
//
// # Cursor
//
// The cursor is BEFORE or AFTER a box that has a parent (an insertion point
// inside that box's row), or INSIDE an empty placeholder (insertion point for
// its first child). BEFORE(NoBox) means nothing is selected.
//
// # Operations
//
//	InsertTagged(text)   new leaf at the cursor, cursor AFTER it
//	InsertPlaceholder()  new placeholder at the cursor, cursor INSIDE it
//	SplitRow()           break the cursor's row at the cursor
//	DeleteAdjacent()     remove the box or row break next to the cursor
//	TagLeaf(box, text)   set or clear a box's text
//
// Operations that have nothing to act on (splitting at a row boundary,
// deleting past the last row) are no-ops and return nil. Calling an
// operation against an inconsistent cursor returns a *ContractError.
//
// # Frames
//
// Mutations only mark the session dirty and request a frame. Frame runs at
// most one relayout however many mutations preceded it, keeps the zoom
// anchor fixed on screen, then draws.
//
// # Threading
//
// A Session is not safe for concurrent use. Store watch callbacks and timers
// must be funnelled onto the goroutine that owns the session.
package editor
