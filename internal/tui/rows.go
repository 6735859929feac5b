package tui

import (
	"strings"

	"stationtree/internal/document"
	"stationtree/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

// treeRow is one visible node of the flattened document.
type treeRow struct {
	node        *document.Node
	depth       int
	hasChildren bool
	collapsed   bool
}

func (r treeRow) FilterValue() string { return r.node.Label() + " " + r.node.ID() }
func (r treeRow) Title() string       { return r.node.Label() }

// flattenRows lists the nodes of doc depth-first, skipping the descendants of
// collapsed nodes.
func flattenRows(doc *document.Document, collapsed map[string]bool) []list.Item {
	if doc == nil {
		return []list.Item{}
	}
	items := make([]list.Item, 0, doc.Registry().Len())
	var walk func(nodes []*document.Node, depth int)
	walk = func(nodes []*document.Node, depth int) {
		for _, n := range nodes {
			row := treeRow{
				node:        n,
				depth:       depth,
				hasChildren: len(n.Nodes()) > 0,
				collapsed:   collapsed[n.ID()],
			}
			items = append(items, row)
			if row.hasChildren && !row.collapsed {
				walk(n.Nodes(), depth+1)
			}
		}
	}
	walk(doc.Root().Nodes(), 0)
	return items
}

// glyphs is the character set used for tree chrome.
type glyphs struct {
	expanded  string
	collapsed string
	leaf      string
	dirty     string
}

func glyphSet(name string) glyphs {
	if strings.EqualFold(strings.TrimSpace(name), "ascii") {
		return glyphs{expanded: "-", collapsed: "+", leaf: " ", dirty: "*"}
	}
	return glyphs{expanded: "▾", collapsed: "▸", leaf: " ", dirty: "●"}
}

func kindBadge(k model.Kind) string {
	switch k {
	case model.KindStation:
		return "S"
	case model.KindArm:
		return "A"
	default:
		return "D"
	}
}

func newList(title string, items []list.Item, delegate list.ItemDelegate) list.Model {
	l := list.New(items, delegate, 0, 0)
	l.Title = title
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("element", "elements")
	// q and ctrl+c are editor actions.
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	// Add Emacs-style navigation aliases (common muscle memory).
	l.KeyMap.CursorUp.SetKeys(append(append([]string{}, l.KeyMap.CursorUp.Keys()...), "ctrl+p")...)
	l.KeyMap.GoToStart.SetKeys(append(append([]string{}, l.KeyMap.GoToStart.Keys()...), "<")...)
	l.KeyMap.GoToEnd.SetKeys(append(append([]string{}, l.KeyMap.GoToEnd.Keys()...), ">")...)
	return l
}
