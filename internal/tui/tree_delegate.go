package tui

import (
	"fmt"
	"io"
	"strings"

	"stationtree/internal/model"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type treeDelegate struct {
	glyphs   glyphs
	normal   lipgloss.Style
	selected lipgloss.Style
}

func newTreeDelegate(g glyphs) treeDelegate {
	return treeDelegate{
		glyphs: g,
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d treeDelegate) Height() int                             { return 1 }
func (d treeDelegate) Spacing() int                            { return 0 }
func (d treeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d treeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	width := m.Width()
	if width < 4 {
		return
	}
	row, ok := item.(treeRow)
	if !ok {
		fmt.Fprint(w, d.renderRow(width, d.normal, fmt.Sprint(item)))
		return
	}

	base := d.normal
	if index == m.Index() {
		base = d.selected
	}

	twisty := d.glyphs.leaf
	if row.hasChildren {
		twisty = d.glyphs.expanded
		if row.collapsed {
			twisty = d.glyphs.collapsed
		}
	}

	// Each segment is rendered separately so the badge's own reset doesn't
	// wipe the focused-row background for the rest of the line.
	lead := base.Render(strings.Repeat("  ", row.depth) + twisty + " ")
	badge := base.Foreground(kindColor(row.node.Kind())).Render(kindBadge(row.node.Kind()))
	name := row.node.Label()
	if strings.TrimSpace(name) == "" {
		name = "(unnamed)"
	}
	main := base.Render(" " + name)
	id := base.Foreground(colorMuted).Render("  " + row.node.ID())

	out := lead + badge + main + id
	curW := xansi.StringWidth(out)
	if curW < width {
		out += base.Render(strings.Repeat(" ", width-curW))
	} else if curW > width {
		out = xansi.Cut(out, 0, width)
	}
	fmt.Fprint(w, out)
}

func (d treeDelegate) renderRow(width int, style lipgloss.Style, line string) string {
	plainW := xansi.StringWidth(line)
	if plainW < width {
		line += strings.Repeat(" ", width-plainW)
	} else if plainW > width {
		line = xansi.Cut(line, 0, width)
	}
	return style.Render(line)
}

func kindColor(k model.Kind) lipgloss.TerminalColor {
	switch k {
	case model.KindStation:
		return colorStation
	case model.KindArm:
		return colorArm
	default:
		return colorDevice
	}
}
