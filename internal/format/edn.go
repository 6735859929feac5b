package format

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// WriteEDN writes a strict EDN representation.
//
// Implementation note: we target a safe subset that covers our CLI payloads
// (maps, vectors, strings, numbers, booleans, nil). Values go through their
// JSON encoding first, so json tags apply and map keys keep their order.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	n, err := orderedTree(v)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := ednEncoder{pretty: pretty, indent: 2}
	enc.writeNode(&buf, n, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednEncoder struct {
	pretty bool
	indent int
}

func (e ednEncoder) writeNode(buf *bytes.Buffer, n *yaml.Node, level int) {
	switch n.Kind {
	case yaml.SequenceNode:
		e.writeVec(buf, n.Content, level)
	case yaml.MappingNode:
		e.writeMap(buf, n.Content, level)
	case yaml.ScalarNode:
		e.writeScalar(buf, n)
	case yaml.AliasNode:
		e.writeNode(buf, n.Alias, level)
	default:
		buf.WriteString("nil")
	}
}

func (e ednEncoder) writeScalar(buf *bytes.Buffer, n *yaml.Node) {
	switch n.ShortTag() {
	case "!!null":
		buf.WriteString("nil")
	case "!!bool", "!!int":
		buf.WriteString(n.Value)
	case "!!float":
		// JSON numbers like 1e3 are valid EDN floats as well.
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			buf.WriteString(strconv.FormatFloat(f, 'f', -1, 64))
			return
		}
		buf.WriteString(strconv.Quote(n.Value))
	default:
		buf.WriteString(strconv.Quote(n.Value))
	}
}

func (e ednEncoder) writeVec(buf *bytes.Buffer, xs []*yaml.Node, level int) {
	buf.WriteByte('[')
	if len(xs) == 0 {
		buf.WriteByte(']')
		return
	}
	if e.pretty {
		buf.WriteByte('\n')
	}
	for i, it := range xs {
		if e.pretty {
			buf.WriteString(strings.Repeat(" ", (level+1)*e.indent))
		}
		e.writeNode(buf, it, level+1)
		if i != len(xs)-1 {
			if e.pretty {
				buf.WriteByte('\n')
			} else {
				buf.WriteByte(' ')
			}
		}
	}
	if e.pretty {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(" ", level*e.indent))
	}
	buf.WriteByte(']')
}

// writeMap takes the flattened key/value pairs of a mapping node.
func (e ednEncoder) writeMap(buf *bytes.Buffer, kv []*yaml.Node, level int) {
	buf.WriteByte('{')
	if len(kv) == 0 {
		buf.WriteByte('}')
		return
	}
	if e.pretty {
		buf.WriteByte('\n')
	}
	for i := 0; i+1 < len(kv); i += 2 {
		if e.pretty {
			buf.WriteString(strings.Repeat(" ", (level+1)*e.indent))
		}
		// Represent JSON keys as EDN keywords.
		buf.WriteByte(':')
		buf.WriteString(ednKeyword(kv[i].Value))
		buf.WriteByte(' ')
		e.writeNode(buf, kv[i+1], level+1)
		if i+2 < len(kv) {
			if e.pretty {
				buf.WriteByte('\n')
			} else {
				buf.WriteByte(' ')
			}
		}
	}
	if e.pretty {
		buf.WriteByte('\n')
		buf.WriteString(strings.Repeat(" ", level*e.indent))
	}
	buf.WriteByte('}')
}

func ednKeyword(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "-")
	return s
}
