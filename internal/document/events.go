package document

// EventType identifies a tree change.
type EventType int

const (
	Added EventType = iota + 1
	Removed
	Renamed
	// Replaced means the whole document was swapped (open or new). Node and
	// Parent are nil.
	Replaced
)

func (t EventType) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Renamed:
		return "renamed"
	case Replaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to subscribers after the change is applied.
type Event struct {
	Type EventType
	Node *Node
	// Parent is the parent at the time of the change (the former parent for Removed).
	Parent Parent
}
