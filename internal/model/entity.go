package model

import (
	"fmt"
	"iter"
	"slices"
)

// Kind is the variant of a document entity.
type Kind int

const (
	KindStation Kind = iota + 1
	KindArm
	KindDevice
)

// Append is the index value that attaches a child at the end of a sequence.
const Append = -1

// childKinds is the adjacency table of the document schema.
// A kind missing from the table cannot own children.
var childKinds = map[Kind]Kind{
	KindStation: KindArm,
	KindArm:     KindDevice,
}

// RootChildKind is the kind accepted by the document root.
const RootChildKind = KindStation

func (k Kind) String() string {
	switch k {
	case KindStation:
		return "station"
	case KindArm:
		return "arm"
	case KindDevice:
		return "device"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses the lowercase string form of a kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "station":
		return KindStation, true
	case "arm":
		return KindArm, true
	case "device":
		return KindDevice, true
	}
	return 0, false
}

// ChildKind reports the kind of children k may own.
func (k Kind) ChildKind() (Kind, bool) {
	c, ok := childKinds[k]
	return c, ok
}

// Entity is a Station, Arm or Device record.
type Entity struct {
	kind  Kind
	id    string
	Name  string
	items []*Entity
}

func New(kind Kind, id, name string) *Entity {
	return &Entity{kind: kind, id: id, Name: name}
}

func NewStation(id, name string) *Entity { return New(KindStation, id, name) }

func (e *Entity) Kind() Kind { return e.kind }

// ID is immutable once the entity has been constructed.
func (e *Entity) ID() string { return e.id }

// Type is the serialized kind name ("station", "arm", "device").
func (e *Entity) Type() string { return e.kind.String() }

// CreateChild returns a detached entity of the next kind down, or nil for a Device.
func (e *Entity) CreateChild(id, name string) *Entity {
	k, ok := e.kind.ChildKind()
	if !ok {
		return nil
	}
	return New(k, id, name)
}

// CanAttach reports whether child may be attached to e at index.
func (e *Entity) CanAttach(child *Entity, index int) bool {
	k, ok := e.kind.ChildKind()
	return ok && Attachable(e.items, k, child, index)
}

// AddSubItem attaches child at index (or appends for Append).
// It returns false without touching the sequence if the kind or index is wrong.
func (e *Entity) AddSubItem(child *Entity, index int) bool {
	k, ok := e.kind.ChildKind()
	if !ok {
		return false
	}
	return attach(&e.items, k, child, index)
}

// RemoveSubItem removes the first child that is child itself or structurally equal to it.
func (e *Entity) RemoveSubItem(child *Entity) bool {
	return detach(&e.items, child)
}

// Children yields the current children in order. Iterating again reflects later changes.
func (e *Entity) Children() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		if e == nil {
			return
		}
		for _, c := range e.items {
			if !yield(c) {
				return
			}
		}
	}
}

func (e *Entity) Len() int { return len(e.items) }

// Child returns the i-th child or nil.
func (e *Entity) Child(i int) *Entity {
	if i < 0 || i >= len(e.items) {
		return nil
	}
	return e.items[i]
}

// IndexOf returns the position of child (pointer identity) or -1.
func (e *Entity) IndexOf(child *Entity) int {
	return slices.Index(e.items, child)
}

// Walk visits e and its descendants depth-first, parents before children.
// Returning false from fn stops the walk.
func (e *Entity) Walk(fn func(*Entity) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.items {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Equal compares kind, id, name and children recursively.
func (e *Entity) Equal(o *Entity) bool {
	if e == o {
		return true
	}
	if e == nil || o == nil {
		return false
	}
	if e.kind != o.kind || e.id != o.id || e.Name != o.Name || len(e.items) != len(o.items) {
		return false
	}
	for i := range e.items {
		if !e.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

// Clone deep-copies the subtree including identifiers.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := &Entity{kind: e.kind, id: e.id, Name: e.Name}
	if len(e.items) > 0 {
		out.items = make([]*Entity, len(e.items))
		for i, c := range e.items {
			out.items[i] = c.Clone()
		}
	}
	return out
}

// Attachable reports whether child of kind want can go into items at index.
func Attachable(items []*Entity, want Kind, child *Entity, index int) bool {
	if child == nil || child.kind != want {
		return false
	}
	return index == Append || (index >= 0 && index <= len(items))
}

func attach(items *[]*Entity, want Kind, child *Entity, index int) bool {
	if !Attachable(*items, want, child, index) {
		return false
	}
	if index == Append {
		*items = append(*items, child)
	} else {
		*items = slices.Insert(*items, index, child)
	}
	return true
}

func detach(items *[]*Entity, child *Entity) bool {
	if child == nil {
		return false
	}
	i := slices.IndexFunc(*items, func(x *Entity) bool { return x == child || x.Equal(child) })
	if i < 0 {
		return false
	}
	*items = slices.Delete(*items, i, i+1)
	return true
}
