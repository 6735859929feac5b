package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"stationtree/internal/document"
	"stationtree/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.quitting {
		return ""
	}
	if m.modal != modalNone {
		return m.viewModal()
	}
	footer := styleMuted().Render("a add  r rename  d remove  ^c/^x/^v copy/cut/paste  ^s save  ^o open  ? help  q quit")
	return strings.Join([]string{m.viewHeader(), m.viewBody(), m.viewStatus(), footer}, "\n")
}

func (m appModel) viewHeader() string {
	title := "untitled"
	if p := m.session.Path(); p != "" {
		title = filepath.Base(p)
	}
	if m.session.Document() == nil {
		title = "no document"
	}
	if m.session.Dirty() {
		title += " " + m.glyphs.dirty
	}
	st := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	out := st.Render("stationtree") + "  " + title
	if doc := m.session.Document(); doc != nil {
		c := doc.Stations().Count()
		out += styleMuted().Render(fmt.Sprintf("  %d stations, %d arms, %d devices",
			c[model.KindStation], c[model.KindArm], c[model.KindDevice]))
	}
	return out
}

func (m appModel) viewBody() string {
	if m.session.Document() == nil {
		return styleMuted().Render("Press ctrl+n for a new document or ctrl+o to open one.")
	}
	if len(m.tree.Items()) == 0 {
		return styleMuted().Render("Empty document. Press a to add a station.")
	}
	left := m.tree.View()
	if m.width < 80 {
		return left
	}
	right := lipgloss.NewStyle().
		Width(m.detailWidthFor()).
		PaddingLeft(1).
		BorderLeft(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		Render(m.detail)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m appModel) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusKind == statusError {
		return lipgloss.NewStyle().Foreground(colorError).Render(m.status)
	}
	return m.status
}

func (m appModel) viewModal() string {
	var title, body string
	switch m.modal {
	case modalOpen:
		title, body = "Open", m.input.View()
	case modalSaveAs:
		title, body = "Save as", m.input.View()
	case modalCreateID:
		title = "New " + m.createKindLabel()
		body = m.input.View() + "\n\n" + positionLine(m.position.String())
	case modalCreate:
		title = "New " + m.createKindLabel()
		if m.createID != "" {
			title += " " + m.createID
		}
		body = m.input.View() + "\n\n" + positionLine(m.position.String())
	case modalRename:
		title, body = "Rename", m.input.View()
	case modalPaste:
		title = "Paste"
		body = "Paste the copied element relative to the selection.\n\n" + positionLine(m.position.String())
	case modalConfirmDiscard:
		title = "Unsaved changes"
		body = "Discard the changes to the current document? (y/n)"
	case modalHelp:
		title, body = "Keys", helpText
	}
	return m.placeModal(renderModalBox(m.width, title, body))
}

// createKindLabel names the kind the create modal will add.
func (m appModel) createKindLabel() string {
	if m.position == document.AsChild {
		return m.childKindLabel()
	}
	if n := m.selectedNode(); n != nil {
		return n.Kind().String()
	}
	return "element"
}

func (m appModel) detailWidthFor() int {
	if m.width < 80 {
		return 0
	}
	return m.width - m.treeWidth() - 2
}

func positionLine(pos string) string {
	return styleMuted().Render("position: ") + pos + styleMuted().Render("   (tab to change)")
}

func (m appModel) placeModal(box string) string {
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 64 {
		w = 64
	}
	if w < 24 {
		w = 24
	}
	return w
}

func renderModalBox(width int, title, content string) string {
	bodyW := modalBodyWidth(width)
	head := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(title)
	help := styleMuted().Width(bodyW).Render("enter: confirm   esc: cancel")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(1, 2).
		Width(bodyW + 4).
		Render(strings.Join([]string{head, "", content, "", help}, "\n"))
}

const helpText = `ctrl+n   new document
ctrl+o   open a file
ctrl+s   save
ctrl+w   save as
a        add an element
r        rename
d        remove
ctrl+c   copy
ctrl+x   cut
ctrl+v   paste
y        copy JSON to the system clipboard
Y        copy id to the system clipboard
space    expand or collapse
q        quit`
