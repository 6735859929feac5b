package format

import (
	"bytes"
	"strings"
	"testing"
)

type envelope struct {
	Data any `json:"data"`
}

type station struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []any  `json:"items"`
}

func TestWrite_KeyOrderIsKept(t *testing.T) {
	v := envelope{Data: []station{{ID: "1", Name: "Cell A", Items: []any{}}}}

	cases := []struct {
		format string
		pretty bool
		want   string
	}{
		{"json", false, `{"data":[{"id":"1","name":"Cell A","items":[]}]}` + "\n"},
		{"edn", false, `{:data [{:id "1" :name "Cell A" :items []}]}` + "\n"},
		{"yaml", false, "data:\n  - id: \"1\"\n    name: Cell A\n    items: []\n"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		if err := Write(&buf, v, tc.format, tc.pretty); err != nil {
			t.Fatalf("%s: %v", tc.format, err)
		}
		if buf.String() != tc.want {
			t.Fatalf("%s mismatch:\nwant %q\ngot  %q", tc.format, tc.want, buf.String())
		}
	}
}

func TestWriteEDN_Scalars(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{"n": 3, "f": 1.5, "ok": true, "none": nil, "s": `say "hi"`}
	if err := WriteEDN(&buf, v, false); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	out := buf.String()
	for _, want := range []string{":n 3", ":f 1.5", ":ok true", ":none nil", `:s "say \"hi\""`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"a": []int{1, 2}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :a [\n    1\n    2\n  ]\n}\n"
	if buf.String() != want {
		t.Fatalf("want %q, got %q", want, buf.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "xml", false); err == nil {
		t.Fatalf("expected error")
	}
}
