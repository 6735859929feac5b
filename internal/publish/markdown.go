package publish

import (
	"bytes"
	"fmt"
	"strings"

	"stationtree/internal/model"
)

type RenderOptions struct {
	// IncludeIDs appends entity ids to headings and list entries.
	IncludeIDs bool
}

// RenderDocumentMarkdown renders the whole document as an outline.
func RenderDocumentMarkdown(title string, stations *model.Stations, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = "Stations"
	}
	writeLn("# " + title)
	writeLn("")

	counts := stations.Count()
	writeLn(fmt.Sprintf("%d stations, %d arms, %d devices", counts[model.KindStation], counts[model.KindArm], counts[model.KindDevice]))

	for st := range stations.Children() {
		writeLn("")
		writeLn("## " + label(st, opt))
		for arm := range st.Children() {
			writeLn("")
			writeLn("### " + label(arm, opt))
			if arm.Len() == 0 {
				continue
			}
			writeLn("")
			for dev := range arm.Children() {
				writeLn("- " + label(dev, opt))
			}
		}
	}
	return buf.String()
}

// RenderEntityMarkdown renders one entity with its subtree, for detail panes
// and single-station pages.
func RenderEntityMarkdown(e *model.Entity, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + displayName(e.Name))
	writeLn("")
	writeLn("- Type: " + e.Type())
	writeLn("- ID: " + e.ID())
	if kind, ok := e.Kind().ChildKind(); ok {
		writeLn(fmt.Sprintf("- %s: %d", plural(kind), e.Len()))
	}

	if e.Len() > 0 {
		writeLn("")
		writeLn("## Contents")
		writeLn("")
		for c := range e.Children() {
			renderEntityLine(&buf, c, 0, opt)
		}
	}
	return buf.String()
}

func renderEntityLine(buf *bytes.Buffer, e *model.Entity, depth int, opt RenderOptions) {
	prefix := strings.Repeat("  ", depth)
	fmt.Fprintf(buf, "%s- %s\n", prefix, label(e, opt))
	for c := range e.Children() {
		renderEntityLine(buf, c, depth+1, opt)
	}
}

func label(e *model.Entity, opt RenderOptions) string {
	name := displayName(e.Name)
	if opt.IncludeIDs {
		return name + " (" + e.Type() + " `" + e.ID() + "`)"
	}
	return name
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return strings.TrimSpace(name)
}

func plural(k model.Kind) string {
	switch k {
	case model.KindArm:
		return "Arms"
	case model.KindDevice:
		return "Devices"
	default:
		return "Stations"
	}
}
