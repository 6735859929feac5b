package document

import (
	"fmt"

	"stationtree/internal/model"
)

// Position is where a new entity goes relative to a target node.
type Position int

const (
	AsChild Position = iota
	Before
	After
)

func (p Position) String() string {
	switch p {
	case AsChild:
		return "child"
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return fmt.Sprintf("position(%d)", int(p))
	}
}

// ParsePosition accepts "child", "before" and "after".
func ParsePosition(s string) (Position, error) {
	switch s {
	case "", "child":
		return AsChild, nil
	case "before":
		return Before, nil
	case "after":
		return After, nil
	}
	return 0, fmt.Errorf("unknown position: %q (want child|before|after)", s)
}

// Resolve turns a target and position into a parent and insert index.
// A nil target means the document root, where only AsChild is meaningful.
func (d *Document) Resolve(target *Node, pos Position) (Parent, int, error) {
	if target == nil {
		if pos != AsChild {
			return nil, 0, ErrNoParent
		}
		return d.root, model.Append, nil
	}
	if pos == AsChild {
		return target, model.Append, nil
	}
	parent := target.Parent()
	if parent == nil {
		return nil, 0, ErrNoParent
	}
	idx := parent.IndexOf(target)
	if idx < 0 {
		return nil, 0, ErrNoParent
	}
	if pos == After {
		idx++
	}
	return parent, idx, nil
}

// Create builds a new entity with the given id and name and inserts it
// relative to target.
func (d *Document) Create(target *Node, pos Position, id, name string) (*Node, error) {
	parent, idx, err := d.Resolve(target, pos)
	if err != nil {
		return nil, err
	}
	e := parent.CreateChild(id, name)
	if e == nil {
		return nil, ErrKindMismatch
	}
	return parent.AddSubItem(e, idx)
}

// Insert attaches an existing detached entity relative to target.
func (d *Document) Insert(target *Node, pos Position, e *model.Entity) (*Node, error) {
	parent, idx, err := d.Resolve(target, pos)
	if err != nil {
		return nil, err
	}
	return parent.AddSubItem(e, idx)
}
