package boxtree

import "fmt"

// InvariantError describes the first structural invariant found broken.
type InvariantError struct {
	Box    ID
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("box %d: %s", e.Box, e.Reason)
}

// Check verifies the structural invariants of the whole tree.
func (t *Tree) Check() error {
	seen := 0
	for i, id := range t.roots {
		b := t.Box(id)
		if b == nil {
			return &InvariantError{Box: id, Reason: "root is not a live box"}
		}
		if b.Under != NoBox {
			return &InvariantError{Box: id, Reason: "root has a parent"}
		}
		if b.Idx != i {
			return &InvariantError{Box: id, Reason: fmt.Sprintf("root idx %d at position %d", b.Idx, i)}
		}
		if b.Level != 0 {
			return &InvariantError{Box: id, Reason: fmt.Sprintf("root level %d", b.Level)}
		}
		n, err := t.check(b)
		if err != nil {
			return err
		}
		seen += n
	}
	if seen != t.live {
		return &InvariantError{Box: NoBox, Reason: fmt.Sprintf("%d reachable boxes, %d live", seen, t.live)}
	}
	return nil
}

func (t *Tree) check(b *Box) (int, error) {
	if b.Text != "" && len(b.Rows) > 0 {
		return 0, &InvariantError{Box: b.ID, Reason: "leaf has rows"}
	}
	count := 1
	for ri, row := range b.Rows {
		if len(row.Cells) == 0 {
			return 0, &InvariantError{Box: b.ID, Reason: fmt.Sprintf("row %d is empty", ri)}
		}
		for ci, id := range row.Cells {
			c := t.Box(id)
			switch {
			case c == nil:
				return 0, &InvariantError{Box: id, Reason: "cell is not a live box"}
			case c.Under != b.ID:
				return 0, &InvariantError{Box: id, Reason: fmt.Sprintf("under %d, owned by %d", c.Under, b.ID)}
			case c.Idx != ci:
				return 0, &InvariantError{Box: id, Reason: fmt.Sprintf("idx %d at position %d", c.Idx, ci)}
			case c.RowIdx != ri:
				return 0, &InvariantError{Box: id, Reason: fmt.Sprintf("rowIdx %d in row %d", c.RowIdx, ri)}
			case c.Level != b.Level+1:
				return 0, &InvariantError{Box: id, Reason: fmt.Sprintf("level %d under level %d", c.Level, b.Level)}
			}
			n, err := t.check(c)
			if err != nil {
				return 0, err
			}
			count += n
		}
	}
	return count, nil
}
