package tui

import (
	"log/slog"

	"stationtree/internal/document"
	"stationtree/internal/editor"
	"stationtree/internal/logging"
	"stationtree/internal/model"
	"stationtree/internal/publish"
	"stationtree/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalOpen
	modalSaveAs
	modalCreateID
	modalCreate
	modalRename
	modalPaste
	modalConfirmDiscard
	modalHelp
)

// pendingAction runs after the user agrees to drop unsaved changes.
type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingNew
	pendingOpen
	pendingQuit
)

// eventQueue collects session events between two updates. The model is
// copied by value on every update, so the queue lives behind a pointer.
type eventQueue struct {
	events []document.Event
}

func (q *eventQueue) push(ev document.Event) { q.events = append(q.events, ev) }

func (q *eventQueue) drain() []document.Event {
	out := q.events
	q.events = nil
	return out
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusError
)

type appModel struct {
	session *editor.Session
	store   store.Store
	cfg     *store.GlobalConfig
	log     *slog.Logger
	// persist writes config and UI state; tests leave it off.
	persist bool

	width  int
	height int

	tree      list.Model
	glyphs    glyphs
	collapsed map[string]bool
	queue     *eventQueue

	// detail is the rendered selection panel for detailID at detailWidth.
	detail      string
	detailID    string
	detailWidth int

	modal    modalKind
	input    textinput.Model
	position document.Position
	pending  pendingAction
	// createID is the id entered in the first create step; empty generates one.
	createID string

	status     string
	statusKind statusKind

	quitting bool
}

func newAppModel(s *editor.Session, st store.Store, cfg *store.GlobalConfig, log *slog.Logger) appModel {
	if cfg == nil {
		cfg = &store.GlobalConfig{}
	}
	if log == nil {
		log = logging.NewNop()
	}
	glyphName := ""
	if cfg.TUI != nil {
		glyphName = cfg.TUI.Glyphs
	}

	m := appModel{
		session:   s,
		store:     st,
		cfg:       cfg,
		log:       log,
		glyphs:    glyphSet(glyphName),
		collapsed: map[string]bool{},
		queue:     &eventQueue{},
		input:     textinput.New(),
	}
	m.tree = newList("Stations", []list.Item{}, newTreeDelegate(m.glyphs))
	s.Subscribe(m.queue.push)
	m.refreshRows("")
	return m
}

// selectedNode is the node under the cursor, or nil.
func (m appModel) selectedNode() *document.Node {
	if row, ok := m.tree.SelectedItem().(treeRow); ok {
		return row.node
	}
	return nil
}

func (m appModel) selectedID() string {
	if n := m.selectedNode(); n != nil {
		return n.ID()
	}
	return ""
}

// refreshRows rebuilds the visible rows and moves the cursor to selectID when
// it is visible. An empty selectID keeps the current index.
func (m *appModel) refreshRows(selectID string) {
	idx := m.tree.Index()
	m.tree.SetItems(flattenRows(m.session.Document(), m.collapsed))
	if selectID != "" {
		for i, it := range m.tree.Items() {
			if row, ok := it.(treeRow); ok && row.node.ID() == selectID {
				idx = i
				break
			}
		}
	}
	if n := len(m.tree.Items()); idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	m.tree.Select(idx)
}

// applyEvents folds queued session events into the view.
func (m *appModel) applyEvents() {
	events := m.queue.drain()
	if len(events) == 0 {
		return
	}
	rebuild := false
	selectID := ""
	for _, ev := range events {
		switch ev.Type {
		case document.Replaced:
			m.collapsed = map[string]bool{}
			m.tree.Select(0)
			rebuild = true
		case document.Added:
			if p, ok := ev.Parent.(*document.Node); ok {
				delete(m.collapsed, p.ID())
			}
			if selectID == "" {
				selectID = ev.Node.ID()
			}
			rebuild = true
		case document.Removed:
			rebuild = true
		}
		m.log.Debug("tree event", "type", ev.Type.String())
	}
	if rebuild {
		m.refreshRows(selectID)
	}
	// Names and child counts in the selection panel may be stale.
	m.detailID = ""
}

// refreshDetail re-renders the selection panel when the selection or width changed.
func (m *appModel) refreshDetail(width int) {
	n := m.selectedNode()
	if n == nil || width <= 0 {
		m.detail = ""
		m.detailID = ""
		return
	}
	if n.ID() == m.detailID && width == m.detailWidth {
		return
	}
	md := publish.RenderEntityMarkdown(n.Entity(), publish.RenderOptions{})
	if path := n.Path(); len(path) > 1 {
		md += "\n---\n\n" + joinPath(path)
	}
	m.detail = renderMarkdown(md, width)
	m.detailID = n.ID()
	m.detailWidth = width
}

func joinPath(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += " › "
		}
		if p == "" {
			p = "(unnamed)"
		}
		out += p
	}
	return out
}

func (m *appModel) setStatus(kind statusKind, msg string) {
	m.status = msg
	m.statusKind = kind
	if kind == statusError {
		m.log.Debug("action failed", "message", msg)
	}
}

// rememberFile records path in the recent files list.
func (m *appModel) rememberFile(path string) {
	if !m.persist || path == "" {
		return
	}
	m.cfg.AddRecentFile(path)
	if err := store.SaveConfig(m.cfg); err != nil {
		m.log.Warn("save config failed", "error", err)
	}
}

// childKindLabel names what `a` creates as a child of the selection.
func (m appModel) childKindLabel() string {
	n := m.selectedNode()
	if n == nil {
		return model.RootChildKind.String()
	}
	if k, ok := n.ChildKind(); ok {
		return k.String()
	}
	return ""
}
