package editor

import (
	"errors"

	"stationtree/internal/document"
)

// Find returns the node with id. An empty id means the root and returns nil, nil.
func (s *Session) Find(id string) (*document.Node, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	if id == "" {
		return nil, nil
	}
	n, ok := s.doc.Find(id)
	if !ok {
		return nil, ErrNotFound
	}
	return n, nil
}

// Create adds a new entity relative to the node targetID ("" for the root).
// An empty id is replaced by a generated one.
func (s *Session) Create(targetID string, pos document.Position, id, name string) (*document.Node, error) {
	const action = "create the element"
	target, err := s.Find(targetID)
	if err != nil {
		return nil, userError(action, err)
	}
	if id == "" {
		id = s.doc.GenerateUniqueID()
	}
	n, err := s.doc.Create(target, pos, id, name)
	if err != nil {
		s.log.Debug("create rejected", "target", targetID, "position", pos.String(), "id", id, "error", err)
		return nil, userError(action, err)
	}
	s.log.Debug("created", "id", n.ID(), "kind", n.Kind().String())
	return n, nil
}

func (s *Session) Rename(id, name string) error {
	n, err := s.Find(id)
	if err == nil && n == nil {
		err = ErrNotFound
	}
	if err != nil {
		return userError("rename the element", err)
	}
	n.Rename(name)
	return nil
}

// Remove detaches the entity and its subtree. Its ids stay reserved.
func (s *Session) Remove(id string) error {
	n, err := s.Find(id)
	if err == nil && n == nil {
		err = ErrNotFound
	}
	if err != nil {
		return userError("remove the element", err)
	}
	n.Remove()
	s.log.Debug("removed", "id", id)
	return nil
}

// Copy puts a snapshot of the entity on the clipboard.
func (s *Session) Copy(id string) error {
	n, err := s.Find(id)
	if err == nil && n == nil {
		err = ErrNotFound
	}
	if err != nil {
		return userError("copy the element", err)
	}
	snap := document.TakeSnapshot(n.Entity())
	s.copied = &snap
	s.log.Debug("copied", "id", id, "entities", snap.Size())
	return nil
}

// Cut copies the entity and removes it.
func (s *Session) Cut(id string) error {
	if err := s.Copy(id); err != nil {
		var ue *UserError
		if errors.As(err, &ue) {
			ue.Action = "cut the element"
		}
		return err
	}
	n, _ := s.Find(id)
	n.Remove()
	s.log.Debug("cut", "id", id)
	return nil
}

// Paste replays the clipboard relative to targetID ("" for the root).
func (s *Session) Paste(targetID string, pos document.Position) (document.PasteStatus, *document.Node, error) {
	const action = "paste the element"
	if s.copied == nil {
		return document.NotAdded, nil, userError(action, ErrNothingCopied)
	}
	target, err := s.Find(targetID)
	if err != nil {
		return document.NotAdded, nil, userError(action, err)
	}
	status, n := s.doc.PasteAt(*s.copied, target, pos)
	s.log.Debug("pasted", "target", targetID, "position", pos.String(), "status", status.String())
	return status, n, nil
}
