package document

import "stationtree/internal/model"

// Snapshot is a detached copy of a subtree: names and structure, no identifiers.
// Fresh identifiers are minted when it is pasted.
type Snapshot struct {
	Name  string     `json:"name"`
	Items []Snapshot `json:"items,omitempty"`
}

// TakeSnapshot copies e and its descendants by value.
func TakeSnapshot(e *model.Entity) Snapshot {
	s := Snapshot{Name: e.Name}
	for c := range e.Children() {
		s.Items = append(s.Items, TakeSnapshot(c))
	}
	return s
}

// Size is the number of entities in the snapshot.
func (s Snapshot) Size() int {
	n := 1
	for _, c := range s.Items {
		n += c.Size()
	}
	return n
}

// Depth is 1 for a snapshot without children.
func (s Snapshot) Depth() int {
	d := 0
	for _, c := range s.Items {
		d = max(d, c.Depth())
	}
	return d + 1
}

// PasteStatus reports how much of a snapshot was attached.
type PasteStatus int

const (
	FullyAdded PasteStatus = iota
	PartiallyAdded
	NotAdded
)

func (s PasteStatus) String() string {
	switch s {
	case FullyAdded:
		return "fully-added"
	case PartiallyAdded:
		return "partially-added"
	default:
		return "not-added"
	}
}

func (s PasteStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Paste replays the snapshot under dest at index (model.Append to append).
// Children are always appended to the node created for their parent.
func (d *Document) Paste(s Snapshot, dest Parent, index int) (PasteStatus, *Node) {
	e := dest.CreateChild(d.ids.GenerateUniqueID(), s.Name)
	if e == nil {
		return NotAdded, nil
	}
	n, err := dest.AddSubItem(e, index)
	if err != nil {
		return NotAdded, nil
	}
	full := true
	for _, c := range s.Items {
		// Every child is attempted even after a failure.
		if st, _ := d.Paste(c, n, model.Append); st != FullyAdded {
			full = false
		}
	}
	if full {
		return FullyAdded, n
	}
	return PartiallyAdded, n
}

// PasteAt pastes relative to target; a nil target pastes a station at the root.
func (d *Document) PasteAt(s Snapshot, target *Node, pos Position) (PasteStatus, *Node) {
	parent, idx, err := d.Resolve(target, pos)
	if err != nil {
		return NotAdded, nil
	}
	return d.Paste(s, parent, idx)
}
