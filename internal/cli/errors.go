package cli

import (
	"errors"
	"fmt"

	"stationtree/internal/editor"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// lookupErr turns the session's not-found error into a message naming the id.
func lookupErr(id string, err error) error {
	if errors.Is(err, editor.ErrNotFound) {
		return errNotFound("element", id)
	}
	return err
}

type notAddedError struct {
	target string
}

func (e notAddedError) Error() string {
	if e.target == "" {
		return "nothing was pasted"
	}
	return fmt.Sprintf("nothing was pasted: %s cannot hold children", e.target)
}
