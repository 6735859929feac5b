// Package editor holds the state an editing shell works on: the open document,
// its file path, the copied snapshot and the last saved encoding.
package editor

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"stationtree/internal/document"
	"stationtree/internal/logging"
	"stationtree/internal/model"
	"stationtree/internal/store"
)

// History records saved revisions. *store.Store satisfies it.
type History interface {
	RecordRevision(ctx context.Context, path string, body []byte, keep int) (store.Revision, bool, error)
	GetRevision(ctx context.Context, id int64) (store.Revision, error)
}

type Options struct {
	Logger *slog.Logger
	// History is optional; nil disables revision recording.
	History     History
	HistoryKeep int
	// Pretty indents written files.
	Pretty bool
}

// Session is single-threaded; shells call it from one goroutine.
type Session struct {
	doc    *document.Document
	path   string
	saved  []byte
	copied *document.Snapshot

	log         *slog.Logger
	history     History
	historyKeep int
	pretty      bool

	subs    map[int]func(document.Event)
	nextSub int
	unsub   func()
}

func NewSession(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logging.NewNop()
	}
	return &Session{
		log:         log,
		history:     opts.History,
		historyKeep: opts.HistoryKeep,
		pretty:      opts.Pretty,
		subs:        map[int]func(document.Event){},
	}
}

// SetLogger replaces the session logger. A nil logger discards output.
func (s *Session) SetLogger(l *slog.Logger) {
	if l == nil {
		l = logging.NewNop()
	}
	s.log = l
}

// Document is nil until New, Open or Restore succeeds.
func (s *Session) Document() *document.Document { return s.doc }

// Path is the file the document was last opened from or saved to.
func (s *Session) Path() string { return s.path }

// Copied returns the clipboard contents.
func (s *Session) Copied() (document.Snapshot, bool) {
	if s.copied == nil {
		return document.Snapshot{}, false
	}
	return *s.copied, true
}

// Subscribe registers fn for tree events of the current document and for
// Replaced when another document is swapped in.
func (s *Session) Subscribe(fn func(document.Event)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Session) emit(ev document.Event) {
	keys := make([]int, 0, len(s.subs))
	for k := range s.subs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if fn, ok := s.subs[k]; ok {
			fn(ev)
		}
	}
}

// replace swaps doc in. Nothing is touched before this point, so a failed
// open keeps the previous document, path and saved state.
func (s *Session) replace(doc *document.Document, path string, saved []byte) {
	if s.unsub != nil {
		s.unsub()
	}
	s.doc = doc
	s.path = path
	s.saved = saved
	s.unsub = doc.Subscribe(s.emit)
	s.emit(document.Event{Type: document.Replaced})
}

// New starts an empty unsaved document.
func (s *Session) New() {
	doc := document.New()
	s.replace(doc, "", s.encode(doc))
	s.log.Debug("new document")
}

// Open reads path and swaps the loaded document in on success.
func (s *Session) Open(path string) error {
	stations, _, err := store.ReadDocument(path)
	if err != nil {
		s.log.Debug("open failed", "path", path, "error", err)
		return userError("open the file", err)
	}
	doc, err := document.Load(stations)
	if err != nil {
		s.log.Debug("open rejected", "path", path, "error", err)
		return &UserError{Action: "open the file", Message: "Invalid JSON file.", Err: err}
	}
	s.replace(doc, path, s.encode(doc))
	s.log.Debug("opened", "path", path, "entities", doc.Registry().Len())
	return nil
}

// Restore loads a stored revision into the session. The path becomes the
// revision's document and the result counts as unsaved.
func (s *Session) Restore(ctx context.Context, id int64) error {
	if s.history == nil {
		return &UserError{Action: "restore the revision", Message: "History is disabled."}
	}
	rev, err := s.history.GetRevision(ctx, id)
	if err != nil {
		return userError("restore the revision", err)
	}
	stations, err := model.DecodeStations(rev.Body)
	if err != nil {
		return &UserError{Action: "restore the revision", Message: "Invalid JSON file.", Err: err}
	}
	doc, err := document.Load(stations)
	if err != nil {
		return &UserError{Action: "restore the revision", Message: "Invalid JSON file.", Err: err}
	}
	saved := s.saved
	if s.path != rev.Path {
		saved = nil
	}
	s.replace(doc, rev.Path, saved)
	s.log.Debug("restored", "revision", id, "path", rev.Path)
	return nil
}

// Save writes the document to its current path.
func (s *Session) Save(ctx context.Context) error {
	if s.doc == nil {
		return userError("save the file", ErrNoDocument)
	}
	if s.path == "" {
		return userError("save the file", ErrNoPath)
	}
	return s.write(ctx, "save the file", s.path)
}

// SaveAs writes the document to path and makes it the current path.
func (s *Session) SaveAs(ctx context.Context, path string) error {
	if s.doc == nil {
		return userError("save as the new file", ErrNoDocument)
	}
	return s.write(ctx, "save as the new file", path)
}

func (s *Session) write(ctx context.Context, action, path string) error {
	body, err := store.WriteDocument(path, s.doc.Stations(), s.pretty)
	if err != nil {
		s.log.Debug("save failed", "path", path, "error", err)
		return userError(action, err)
	}
	s.path = path
	s.saved = s.encode(s.doc)
	s.log.Debug("saved", "path", path, "bytes", len(body))

	if s.history != nil {
		if rev, added, err := s.history.RecordRevision(ctx, path, body, s.historyKeep); err != nil {
			s.log.Warn("record revision failed", "path", path, "error", err)
		} else if added {
			s.log.Debug("revision recorded", "id", rev.ID, "sha256", rev.SHA256)
		}
	}
	return nil
}

// Dirty reports whether the document differs from what was last opened or saved.
func (s *Session) Dirty() bool {
	if s.doc == nil {
		return false
	}
	return !bytes.Equal(s.saved, s.encode(s.doc))
}

func (s *Session) encode(doc *document.Document) []byte {
	b, err := json.Marshal(doc.Stations())
	if err != nil {
		return nil
	}
	return b
}
