// Package document keeps the station tree, its identifier registry and the
// mirrored node tree in sync. Every attach goes through the registry; a failed
// attach leaves entities, nodes and registry exactly as they were.
package document

import (
	"errors"
	"slices"

	"stationtree/internal/model"
)

var (
	// ErrKindMismatch is returned when the entity is not the kind the parent accepts.
	ErrKindMismatch = errors.New("entity kind does not fit the parent")
	// ErrIndexOutOfRange is returned for insert positions past the end of the parent.
	ErrIndexOutOfRange = errors.New("insert position out of range")
	// ErrNoParent is returned for sibling positions relative to a detached or missing node.
	ErrNoParent = errors.New("node has no parent")
)

// Parent is the uniform contract of the root and of nested nodes.
type Parent interface {
	// CreateChild returns a detached entity of the kind this parent accepts, or nil.
	CreateChild(id, name string) *model.Entity
	// AddSubItem validates identifiers, attaches the entity and mirrors it as a node.
	AddSubItem(e *model.Entity, index int) (*Node, error)
	// RemoveSubItem detaches a direct child node and its entity.
	RemoveSubItem(n *Node) bool
	Nodes() []*Node
	IndexOf(n *Node) int
	ChildKind() (model.Kind, bool)
}

// entityParent is the data-level side of a Parent.
type entityParent interface {
	CanAttach(child *model.Entity, index int) bool
	AddSubItem(child *model.Entity, index int) bool
	RemoveSubItem(child *model.Entity) bool
}

// Document is one open station document: entities, registry and node tree.
type Document struct {
	stations *model.Stations
	ids      *Registry
	root     *Root
	subs     map[int]func(Event)
	nextSub  int
}

// New returns an empty document.
func New() *Document {
	d, _ := Load(model.NewStations())
	return d
}

// Load builds a document from decoded stations. Duplicate identifiers anywhere
// in the input fail the whole load.
func Load(stations *model.Stations) (*Document, error) {
	if stations == nil {
		stations = model.NewStations()
	}
	ids := NewRegistry()
	for st := range stations.Children() {
		if err := ids.ValidateAndRegister(st); err != nil {
			return nil, err
		}
	}
	d := &Document{stations: stations, ids: ids, subs: map[int]func(Event){}}
	d.root = &Root{doc: d}
	for st := range stations.Children() {
		d.root.nodes = append(d.root.nodes, d.newNode(d.root, st))
	}
	return d, nil
}

func (d *Document) Root() *Root { return d.root }

func (d *Document) Stations() *model.Stations { return d.stations }

func (d *Document) Registry() *Registry { return d.ids }

// GenerateUniqueID returns an id not yet used in this document.
func (d *Document) GenerateUniqueID() string { return d.ids.GenerateUniqueID() }

// Subscribe registers fn for tree events. The returned func unsubscribes.
func (d *Document) Subscribe(fn func(Event)) func() {
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	return func() { delete(d.subs, id) }
}

func (d *Document) emit(ev Event) {
	keys := make([]int, 0, len(d.subs))
	for k := range d.subs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if fn, ok := d.subs[k]; ok {
			fn(ev)
		}
	}
}

// Find returns the node whose entity has the given id.
func (d *Document) Find(id string) (*Node, bool) {
	var found *Node
	d.Walk(func(n *Node, _ int) bool {
		if n.entity.ID() == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Walk visits every node depth-first with its depth (stations are depth 0).
// Returning false stops the walk.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	var walk func(nodes []*Node, depth int) bool
	walk = func(nodes []*Node, depth int) bool {
		for _, n := range nodes {
			if !fn(n, depth) {
				return false
			}
			if !walk(n.nodes, depth+1) {
				return false
			}
		}
		return true
	}
	walk(d.root.nodes, 0)
}

func (d *Document) newNode(parent Parent, e *model.Entity) *Node {
	n := &Node{doc: d, entity: e, label: e.Name, parent: parent}
	for c := range e.Children() {
		n.nodes = append(n.nodes, d.newNode(n, c))
	}
	return n
}

func (d *Document) attach(p Parent, target entityParent, nodes *[]*Node, e *model.Entity, index int) (*Node, error) {
	if e == nil {
		return nil, ErrKindMismatch
	}
	if !target.CanAttach(e, index) {
		if want, ok := p.ChildKind(); !ok || want != e.Kind() {
			return nil, ErrKindMismatch
		}
		return nil, ErrIndexOutOfRange
	}
	if err := d.ids.ValidateAndRegister(e); err != nil {
		return nil, err
	}
	if !target.AddSubItem(e, index) {
		// CanAttach already agreed; this only guards against a broken entity parent.
		return nil, ErrKindMismatch
	}
	n := d.newNode(p, e)
	if index == model.Append {
		*nodes = append(*nodes, n)
	} else {
		*nodes = slices.Insert(*nodes, index, n)
	}
	d.emit(Event{Type: Added, Node: n, Parent: p})
	return n, nil
}

func (d *Document) detach(p Parent, target entityParent, nodes *[]*Node, n *Node) bool {
	if n == nil {
		return false
	}
	i := slices.Index(*nodes, n)
	if i < 0 {
		return false
	}
	if !target.RemoveSubItem(n.entity) {
		return false
	}
	*nodes = slices.Delete(*nodes, i, i+1)
	n.parent = nil
	d.emit(Event{Type: Removed, Node: n, Parent: p})
	return true
}
