package model

import (
	"iter"
	"slices"
)

// Stations is the document root: an ordered sequence of stations with no id or name.
type Stations struct {
	items []*Entity
}

func NewStations(items ...*Entity) *Stations {
	s := &Stations{}
	for _, it := range items {
		s.AddSubItem(it, Append)
	}
	return s
}

// CreateChild returns a detached station.
func (s *Stations) CreateChild(id, name string) *Entity { return NewStation(id, name) }

func (s *Stations) CanAttach(child *Entity, index int) bool {
	return Attachable(s.items, RootChildKind, child, index)
}

func (s *Stations) AddSubItem(child *Entity, index int) bool {
	return attach(&s.items, RootChildKind, child, index)
}

func (s *Stations) RemoveSubItem(child *Entity) bool {
	return detach(&s.items, child)
}

func (s *Stations) Children() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		if s == nil {
			return
		}
		for _, c := range s.items {
			if !yield(c) {
				return
			}
		}
	}
}

func (s *Stations) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

func (s *Stations) IndexOf(child *Entity) int { return slices.Index(s.items, child) }

// Walk visits every entity of the document depth-first.
func (s *Stations) Walk(fn func(*Entity) bool) {
	for _, st := range s.items {
		if !st.Walk(fn) {
			return
		}
	}
}

func (s *Stations) Equal(o *Stations) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	for i := range s.items {
		if !s.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}

func (s *Stations) Clone() *Stations {
	out := &Stations{items: make([]*Entity, 0, s.Len())}
	for st := range s.Children() {
		out.items = append(out.items, st.Clone())
	}
	return out
}

// Count returns the number of stations, arms and devices.
func (s *Stations) Count() map[Kind]int {
	out := map[Kind]int{KindStation: 0, KindArm: 0, KindDevice: 0}
	s.Walk(func(e *Entity) bool {
		out[e.kind]++
		return true
	})
	return out
}
