// Package boxtree is the document model: an arena of boxes addressed by
// stable IDs.
//
// A Box is a leaf (text, no rows), a list (rows, no text) or an empty
// placeholder (neither). A list owns its rows and each row owns its cells.
// Every box also records a non-owning back-reference to the box whose row
// holds it (Under), so upward walks are O(1) without reference cycles.
//
// # Invariants
//
// After every exported mutation returns:
//
//   - every row has at least one cell
//   - for every sequence (the roots, or a row's cells), Idx equals position
//   - every cell's RowIdx equals its row's position in the parent's rows
//   - Level(root) == 0 and Level(child) == Level(parent)+1
//
// Check verifies all of these and is used heavily by the tests.
//
// # Geometry
//
// X, Y, W and H on boxes and rows are written by the layout engine only.
// A box's X and Y are relative to its owning row, or absolute for a root.
// A row's X and Y are relative to its owning box.
package boxtree
