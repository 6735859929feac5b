package tui

import (
	"context"
	"strings"

	"stationtree/internal/document"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshDetail(m.detailWidthFor())
		return m, nil

	case tea.KeyMsg:
		m.log.Debug("key", "key", msg.String(), "modal", int(m.modal))
		var cmd tea.Cmd
		if m.modal != modalNone {
			m, cmd = m.updateModal(msg)
		} else {
			m, cmd = m.updateTree(msg)
		}
		m.applyEvents()
		m.refreshDetail(m.detailWidthFor())
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateTree(msg tea.KeyMsg) (appModel, tea.Cmd) {
	// Any key clears the previous status line.
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+q":
		return m.guardDiscard(pendingQuit)
	case "ctrl+n":
		return m.guardDiscard(pendingNew)
	case "ctrl+o":
		return m.guardDiscard(pendingOpen)
	case "ctrl+s":
		m.save()
		return m, nil
	case "ctrl+w":
		m.openInput(modalSaveAs, m.session.Path())
		return m, nil
	case "?":
		m.modal = modalHelp
		return m, nil
	}

	if m.session.Document() == nil {
		return m, nil
	}

	switch msg.String() {
	case "a":
		if m.selectedNode() != nil && m.childKindLabel() == "" {
			m.position = document.After
		} else {
			m.position = document.AsChild
		}
		m.createID = ""
		m.openInput(modalCreateID, "")
		return m, nil
	case "r":
		n := m.selectedNode()
		if n == nil {
			return m, nil
		}
		m.openInput(modalRename, n.Label())
		return m, nil
	case "d", "delete":
		if id := m.selectedID(); id != "" {
			m.report(m.session.Remove(id), "Removed "+id)
		}
		return m, nil
	case "ctrl+c":
		if id := m.selectedID(); id != "" {
			m.report(m.session.Copy(id), "Copied "+id)
		}
		return m, nil
	case "ctrl+x":
		if id := m.selectedID(); id != "" {
			m.report(m.session.Cut(id), "Cut "+id)
		}
		return m, nil
	case "y", "Y":
		m.yank(msg.String() == "Y")
		return m, nil
	case "ctrl+v":
		if _, ok := m.session.Copied(); !ok {
			m.setStatus(statusError, "Nothing to paste")
			return m, nil
		}
		m.position = document.AsChild
		m.modal = modalPaste
		return m, nil
	case " ", "space", "enter", "right", "left":
		m.toggle(msg.String())
		return m, nil
	}

	var cmd tea.Cmd
	m.tree, cmd = m.tree.Update(msg)
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (appModel, tea.Cmd) {
	key := msg.String()
	if key == "esc" || key == "ctrl+g" {
		m.closeModal()
		return m, nil
	}

	switch m.modal {
	case modalHelp:
		m.closeModal()
		return m, nil

	case modalConfirmDiscard:
		switch key {
		case "y", "enter":
			p := m.pending
			m.closeModal()
			return m.runPending(p)
		case "n":
			m.closeModal()
		}
		return m, nil

	case modalPaste:
		switch key {
		case "tab":
			m.position = nextPosition(m.position)
		case "enter":
			m.paste()
			m.closeModal()
		}
		return m, nil

	case modalCreateID, modalCreate:
		if key == "tab" {
			m.position = nextPosition(m.position)
			return m, nil
		}
		if key == "enter" && m.modal == modalCreateID {
			m.createID = strings.TrimSpace(m.input.Value())
			m.openInput(modalCreate, "")
			return m, nil
		}
	}

	if key == "enter" {
		value := strings.TrimSpace(m.input.Value())
		mod := m.modal
		m.closeModal()
		m.submit(mod, value)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) submit(mod modalKind, value string) {
	switch mod {
	case modalOpen:
		if value == "" {
			return
		}
		if m.report(m.session.Open(value), "Opened "+value) {
			m.rememberFile(m.session.Path())
		}
	case modalSaveAs:
		if value == "" {
			return
		}
		if m.report(m.session.SaveAs(context.Background(), value), "Saved "+value) {
			m.rememberFile(m.session.Path())
		}
	case modalCreate:
		n, err := m.session.Create(m.selectedID(), m.position, m.createID, value)
		if m.report(err, "") {
			m.setStatus(statusInfo, "Created "+n.Kind().String()+" "+n.ID())
		}
	case modalRename:
		if id := m.selectedID(); id != "" {
			m.report(m.session.Rename(id, value), "Renamed "+id)
		}
	}
}

func (m *appModel) paste() {
	status, n, err := m.session.Paste(m.selectedID(), m.position)
	if !m.report(err, "") {
		return
	}
	switch status {
	case document.FullyAdded:
		m.setStatus(statusInfo, "Pasted "+n.ID())
	case document.PartiallyAdded:
		m.setStatus(statusError, "Pasted "+n.ID()+" partially; some elements do not fit here")
	default:
		m.setStatus(statusError, "Cannot paste here")
	}
}

func (m *appModel) save() {
	if m.session.Document() == nil {
		m.setStatus(statusError, "No opened files")
		return
	}
	if m.session.Path() == "" {
		m.openInput(modalSaveAs, "")
		return
	}
	if m.report(m.session.Save(context.Background()), "Saved "+m.session.Path()) {
		m.rememberFile(m.session.Path())
	}
}

// report shows err, or ok when err is nil and ok is not empty.
func (m *appModel) report(err error, ok string) bool {
	if err != nil {
		m.setStatus(statusError, err.Error())
		return false
	}
	if ok != "" {
		m.setStatus(statusInfo, ok)
	}
	return true
}

// guardDiscard asks before an action that would drop unsaved changes.
func (m appModel) guardDiscard(p pendingAction) (appModel, tea.Cmd) {
	if m.session.Dirty() {
		m.pending = p
		m.modal = modalConfirmDiscard
		return m, nil
	}
	return m.runPending(p)
}

func (m appModel) runPending(p pendingAction) (appModel, tea.Cmd) {
	switch p {
	case pendingQuit:
		m.quitting = true
		return m, tea.Quit
	case pendingNew:
		m.session.New()
		m.setStatus(statusInfo, "New document")
	case pendingOpen:
		m.openInput(modalOpen, "")
	}
	return m, nil
}

func (m *appModel) toggle(key string) {
	row, ok := m.tree.SelectedItem().(treeRow)
	if !ok || !row.hasChildren {
		return
	}
	id := row.node.ID()
	switch key {
	case "right":
		delete(m.collapsed, id)
	case "left":
		m.collapsed[id] = true
	default:
		if m.collapsed[id] {
			delete(m.collapsed, id)
		} else {
			m.collapsed[id] = true
		}
	}
	m.refreshRows(id)
}

func (m *appModel) openInput(mod modalKind, value string) {
	m.modal = mod
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Placeholder = modalPlaceholder(mod)
	m.input.Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.pending = pendingNone
	m.input.Blur()
}

func (m *appModel) resize() {
	// Header, status line and footer.
	h := m.height - 4
	if h < 3 {
		h = 3
	}
	m.tree.SetSize(m.treeWidth(), h)
	m.detailID = ""
}

func (m appModel) treeWidth() int {
	w := m.width
	if w >= 80 {
		return w / 2
	}
	if w < 20 {
		return 20
	}
	return w
}

func nextPosition(p document.Position) document.Position {
	switch p {
	case document.AsChild:
		return document.Before
	case document.Before:
		return document.After
	default:
		return document.AsChild
	}
}

func modalPlaceholder(mod modalKind) string {
	switch mod {
	case modalOpen, modalSaveAs:
		return "path/to/stations.json"
	case modalCreateID:
		return "id (empty to generate)"
	case modalCreate, modalRename:
		return "name"
	}
	return ""
}
