package document

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"stationtree/internal/model"
)

// DuplicateReason tells why an identifier was rejected.
type DuplicateReason int

const (
	// InUse means the id already exists somewhere in the document.
	InUse DuplicateReason = iota
	// Repeated means the id occurs more than once inside the subtree being attached.
	Repeated
)

// DuplicateIDError is returned when a subtree would break identifier uniqueness.
type DuplicateIDError struct {
	ID     string
	Reason DuplicateReason
}

func (e *DuplicateIDError) Error() string {
	if e.Reason == Repeated {
		return fmt.Sprintf("Id %q is used more than once!", e.ID)
	}
	return fmt.Sprintf("Id %q is already used!", e.ID)
}

// Registry is the set of identifiers in use anywhere in a document.
// Identifiers are never released, even after the owning entity is removed.
type Registry struct {
	ids    map[string]struct{}
	random func() uint64
}

func NewRegistry() *Registry {
	return &Registry{ids: map[string]struct{}{}, random: rand.Uint64}
}

func (r *Registry) Contains(id string) bool {
	_, ok := r.ids[id]
	return ok
}

func (r *Registry) Len() int { return len(r.ids) }

// IDs returns the registered identifiers sorted.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.ids))
	for id := range r.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Check walks the subtree and returns the ids it would add, without registering them.
func (r *Registry) Check(subtree *model.Entity) (map[string]struct{}, error) {
	candidates := map[string]struct{}{}
	var dup *DuplicateIDError
	subtree.Walk(func(e *model.Entity) bool {
		id := e.ID()
		if r.Contains(id) {
			dup = &DuplicateIDError{ID: id, Reason: InUse}
			return false
		}
		if _, seen := candidates[id]; seen {
			dup = &DuplicateIDError{ID: id, Reason: Repeated}
			return false
		}
		candidates[id] = struct{}{}
		return true
	})
	if dup != nil {
		return nil, dup
	}
	return candidates, nil
}

// ValidateAndRegister registers every id of the subtree, or none of them.
func (r *Registry) ValidateAndRegister(subtree *model.Entity) error {
	candidates, err := r.Check(subtree)
	if err != nil {
		return err
	}
	for id := range candidates {
		r.ids[id] = struct{}{}
	}
	return nil
}

// GenerateUniqueID draws random numeric ids until one is not in use.
func (r *Registry) GenerateUniqueID() string {
	for {
		id := strconv.FormatUint(r.random(), 10)
		if !r.Contains(id) {
			return id
		}
	}
}
