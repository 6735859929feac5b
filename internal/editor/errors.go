package editor

import (
	"errors"
	"fmt"

	"stationtree/internal/document"
	"stationtree/internal/store"
)

var (
	// ErrNoDocument is returned by saves before any document was opened or created.
	ErrNoDocument = errors.New("no opened files")
	// ErrNoPath is returned by Save when the document was never saved to a file.
	ErrNoPath = errors.New("document has no file name")
	// ErrNothingCopied is returned by Paste with an empty clipboard.
	ErrNothingCopied = errors.New("nothing copied")
	// ErrNotFound is returned for unknown entity ids.
	ErrNotFound = errors.New("element not found")
)

// UserError is an action failure phrased for the message box or stderr.
type UserError struct {
	// Action completes "Cannot <action>!", e.g. "open the file".
	Action  string
	Message string
	Err     error
}

func (e *UserError) Error() string {
	s := fmt.Sprintf("Cannot %s!: %s", e.Action, e.Message)
	if e.Err == nil {
		return s
	}
	if inner := innerMessage(e.Err); inner != "" && inner != e.Message && !isSentinel(e.Err) {
		s += "\n" + inner
	}
	return s
}

func (e *UserError) Unwrap() error { return e.Err }

// isSentinel reports errors whose text is already covered by Message.
func isSentinel(err error) bool {
	for _, s := range []error{ErrNoDocument, ErrNoPath, ErrNothingCopied, ErrNotFound} {
		if err == s {
			return true
		}
	}
	return false
}

// innerMessage is the cause below a store error, which already carries its
// own user-facing text in Message.
func innerMessage(err error) string {
	var ioErr *store.IOError
	if errors.As(err, &ioErr) && ioErr.Err != nil {
		return ioErr.Err.Error()
	}
	var fmtErr *store.FormatError
	if errors.As(err, &fmtErr) && fmtErr.Err != nil {
		return fmtErr.Err.Error()
	}
	return err.Error()
}

func userError(action string, err error) error {
	if err == nil {
		return nil
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return err
	}
	return &UserError{Action: action, Message: userMessage(err), Err: err}
}

func userMessage(err error) string {
	var (
		ioErr  *store.IOError
		fmtErr *store.FormatError
		dupErr *document.DuplicateIDError
	)
	switch {
	case errors.As(err, &ioErr):
		return ioErr.Error()
	case errors.As(err, &fmtErr):
		return fmtErr.Error()
	case errors.As(err, &dupErr):
		return dupErr.Error()
	case errors.Is(err, ErrNoDocument):
		return "No opened files"
	case errors.Is(err, ErrNoPath):
		return "The document has no file name yet"
	case errors.Is(err, ErrNothingCopied):
		return "Nothing to paste"
	case errors.Is(err, ErrNotFound):
		return "No element with this id"
	case errors.Is(err, document.ErrKindMismatch):
		return "This element cannot hold an element of that type."
	case errors.Is(err, document.ErrIndexOutOfRange):
		return "Position is out of range."
	case errors.Is(err, document.ErrNoParent):
		return "Only stations can be placed at the top level."
	}
	return err.Error()
}
