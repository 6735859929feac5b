package document

import (
	"slices"

	"stationtree/internal/model"
)

// Root is the attachment point for stations. It has no id or name.
type Root struct {
	doc   *Document
	nodes []*Node
}

func (r *Root) CreateChild(id, name string) *model.Entity {
	return r.doc.stations.CreateChild(id, name)
}

func (r *Root) AddSubItem(e *model.Entity, index int) (*Node, error) {
	return r.doc.attach(r, r.doc.stations, &r.nodes, e, index)
}

func (r *Root) RemoveSubItem(n *Node) bool {
	return r.doc.detach(r, r.doc.stations, &r.nodes, n)
}

func (r *Root) Nodes() []*Node { return r.nodes }

func (r *Root) IndexOf(n *Node) int { return slices.Index(r.nodes, n) }

func (r *Root) ChildKind() (model.Kind, bool) { return model.RootChildKind, true }

// Node wraps an entity at depth >= 1 and mirrors its display name.
type Node struct {
	doc    *Document
	entity *model.Entity
	label  string
	parent Parent
	nodes  []*Node
}

func (n *Node) Entity() *model.Entity { return n.entity }

func (n *Node) ID() string { return n.entity.ID() }

func (n *Node) Kind() model.Kind { return n.entity.Kind() }

// Label is the display name mirrored from the entity.
func (n *Node) Label() string { return n.label }

// Parent returns the owning node or root; nil once the node has been removed.
func (n *Node) Parent() Parent { return n.parent }

func (n *Node) CreateChild(id, name string) *model.Entity {
	return n.entity.CreateChild(id, name)
}

func (n *Node) AddSubItem(e *model.Entity, index int) (*Node, error) {
	return n.doc.attach(n, n.entity, &n.nodes, e, index)
}

func (n *Node) RemoveSubItem(c *Node) bool {
	return n.doc.detach(n, n.entity, &n.nodes, c)
}

func (n *Node) Nodes() []*Node { return n.nodes }

func (n *Node) IndexOf(c *Node) int { return slices.Index(n.nodes, c) }

func (n *Node) ChildKind() (model.Kind, bool) { return n.entity.Kind().ChildKind() }

// Rename sets the entity name and the mirrored label together.
// Names are not identifiers, so the registry is not consulted.
func (n *Node) Rename(name string) {
	if n.parent == nil {
		return
	}
	n.entity.Name = name
	n.label = name
	n.doc.emit(Event{Type: Renamed, Node: n, Parent: n.parent})
}

// Remove detaches n from its parent.
func (n *Node) Remove() bool {
	if n.parent == nil {
		return false
	}
	return n.parent.RemoveSubItem(n)
}

// Depth is 0 for stations.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; {
		pn, ok := p.(*Node)
		if !ok {
			break
		}
		d++
		p = pn.parent
	}
	return d
}

// Path returns the labels from the station down to n.
func (n *Node) Path() []string {
	var out []string
	for cur := n; cur != nil; {
		out = append(out, cur.label)
		pn, ok := cur.parent.(*Node)
		if !ok {
			break
		}
		cur = pn
	}
	slices.Reverse(out)
	return out
}
