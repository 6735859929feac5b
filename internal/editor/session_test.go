package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stationtree/internal/document"
	"stationtree/internal/store"

	"github.com/lithammer/dedent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var plant = strings.TrimSpace(dedent.Dedent(`
	[
	  {"id": "1", "name": "Cell A", "items": [
	    {"id": "2", "name": "Left", "items": [
	      {"id": "3", "name": "Gripper"},
	      {"id": "4", "name": "Camera"}
	    ]}
	  ]},
	  {"id": "5", "name": "Cell B", "items": []}
	]
`))

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func openPlant(t *testing.T) (*Session, string) {
	t.Helper()
	s := NewSession(Options{})
	path := writeFile(t, "plant.json", plant)
	require.NoError(t, s.Open(path))
	return s, path
}

func TestOpen_LoadsAndIsClean(t *testing.T) {
	s, path := openPlant(t)
	assert.Equal(t, path, s.Path())
	assert.False(t, s.Dirty())
	assert.Equal(t, 5, s.Document().Registry().Len())
	assert.Len(t, s.Document().Root().Nodes(), 2)
}

func TestOpen_FailureKeepsPreviousDocument(t *testing.T) {
	cases := []struct {
		name    string
		path    func(t *testing.T) string
		message string
	}{
		{
			name:    "missing file",
			path:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") },
			message: "Cannot open the file!: Cannot read this file.",
		},
		{
			name:    "malformed json",
			path:    func(t *testing.T) string { return writeFile(t, "bad.json", `[{"id": "1", "name": `) },
			message: "Cannot open the file!: Invalid JSON file.",
		},
		{
			name:    "duplicate ids",
			path:    func(t *testing.T) string { return writeFile(t, "dup.json", `[{"id":"7","name":"a"},{"id":"7","name":"b"}]`) },
			message: "Cannot open the file!: Invalid JSON file.\nId \"7\" is already used!",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, path := openPlant(t)
			_, err := s.Create("5", document.AsChild, "", "new arm")
			require.NoError(t, err)
			doc := s.Document()
			reg := doc.Registry().Len()

			err = s.Open(tc.path(t))
			require.Error(t, err)
			var ue *UserError
			require.True(t, errors.As(err, &ue))
			assert.True(t, strings.HasPrefix(err.Error(), tc.message), err.Error())

			assert.Same(t, doc, s.Document())
			assert.Equal(t, path, s.Path())
			assert.Equal(t, reg, s.Document().Registry().Len())
			assert.True(t, s.Dirty())
		})
	}
}

func TestSave_NoDocument(t *testing.T) {
	s := NewSession(Options{})
	err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.Equal(t, "Cannot save the file!: No opened files", err.Error())

	err = s.SaveAs(context.Background(), filepath.Join(t.TempDir(), "x.json"))
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.False(t, s.Dirty())
}

func TestUserError_SentinelMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNoDocument, "Cannot paste!: No opened files"},
		{ErrNoPath, "Cannot paste!: The document has no file name yet"},
		{ErrNothingCopied, "Cannot paste!: Nothing to paste"},
		{ErrNotFound, "Cannot paste!: No element with this id"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			msg := tt.err.Error()
			assert.Equal(t, strings.ToLower(msg[:1]), msg[:1])

			err := userError("paste", tt.err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestNew_SaveAsThenSave(t *testing.T) {
	ctx := context.Background()
	s := NewSession(Options{})
	s.New()
	assert.False(t, s.Dirty())
	assert.ErrorIs(t, s.Save(ctx), ErrNoPath)

	st, err := s.Create("", document.AsChild, "10", "Cell")
	require.NoError(t, err)
	assert.True(t, s.Dirty())

	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, s.SaveAs(ctx, path))
	assert.False(t, s.Dirty())
	assert.Equal(t, path, s.Path())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"10","name":"Cell","items":[]}]`, string(b))

	require.NoError(t, s.Rename(st.ID(), "Cell 1"))
	assert.True(t, s.Dirty())
	require.NoError(t, s.Save(ctx))
	assert.False(t, s.Dirty())
}

func TestSave_UnwritablePath(t *testing.T) {
	s, path := openPlant(t)
	blocker := writeFile(t, "file", "")
	err := s.SaveAs(context.Background(), filepath.Join(blocker, "doc.json"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Cannot save as the new file!: Cannot write to this file."))
	assert.Equal(t, path, s.Path())
}

func TestCreate_ErrorsAreUserErrors(t *testing.T) {
	s, _ := openPlant(t)

	_, err := s.Create("1", document.AsChild, "3", "dup")
	assert.Equal(t, `Cannot create the element!: Id "3" is already used!`, err.Error())

	_, err = s.Create("3", document.AsChild, "", "x")
	assert.ErrorIs(t, err, document.ErrKindMismatch)

	_, err = s.Create("missing", document.AsChild, "", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Create("", document.After, "", "x")
	assert.ErrorIs(t, err, document.ErrNoParent)

	n, err := s.Create("3", document.Before, "", "Lidar")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID())
	arm, _ := s.Find("2")
	assert.Equal(t, 0, arm.IndexOf(n))
}

func TestCopyPasteAndCut(t *testing.T) {
	s, _ := openPlant(t)

	_, _, err := s.Paste("", document.AsChild)
	assert.ErrorIs(t, err, ErrNothingCopied)

	require.NoError(t, s.Copy("2"))
	snap, ok := s.Copied()
	require.True(t, ok)
	assert.Equal(t, 3, snap.Size())

	status, n, err := s.Paste("5", document.AsChild)
	require.NoError(t, err)
	assert.Equal(t, document.FullyAdded, status)
	assert.Len(t, n.Nodes(), 2)

	status, _, err = s.Paste("3", document.AsChild)
	require.NoError(t, err)
	assert.Equal(t, document.NotAdded, status)

	require.NoError(t, s.Cut("1"))
	_, err = s.Find("1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.True(t, s.Document().Registry().Contains("1"))

	status, n, err = s.Paste("", document.AsChild)
	require.NoError(t, err)
	assert.Equal(t, document.FullyAdded, status)
	assert.Equal(t, "Cell A", n.Label())
	assert.NotEqual(t, "1", n.ID())

	err = s.Cut("nope")
	assert.True(t, strings.HasPrefix(err.Error(), "Cannot cut the element!"), err.Error())
}

func TestSubscribe_FollowsCurrentDocument(t *testing.T) {
	s := NewSession(Options{})
	var got []document.EventType
	unsub := s.Subscribe(func(ev document.Event) { got = append(got, ev.Type) })

	s.New()
	old := s.Document()
	_, err := s.Create("", document.AsChild, "1", "a")
	require.NoError(t, err)

	path := writeFile(t, "plant.json", plant)
	require.NoError(t, s.Open(path))

	// Changes to the replaced document are no longer forwarded.
	_, err = old.Create(nil, document.AsChild, "2", "b")
	require.NoError(t, err)

	require.NoError(t, s.Rename("1", "renamed"))
	assert.Equal(t, []document.EventType{document.Replaced, document.Added, document.Replaced, document.Renamed}, got)

	unsub()
	require.NoError(t, s.Remove("1"))
	assert.Len(t, got, 4)
}

func TestHistory_RecordAndRestore(t *testing.T) {
	ctx := context.Background()
	hist := store.Store{Dir: t.TempDir()}
	s := NewSession(Options{History: hist, HistoryKeep: 5})
	path := writeFile(t, "plant.json", plant)
	require.NoError(t, s.Open(path))

	require.NoError(t, s.Save(ctx))
	revs, err := hist.ListRevisions(ctx, path, 0)
	require.NoError(t, err)
	require.Len(t, revs, 1)
	first := revs[0].ID

	require.NoError(t, s.Remove("1"))
	require.NoError(t, s.Save(ctx))
	_, err = s.Find("1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Restore(ctx, first))
	n, err := s.Find("1")
	require.NoError(t, err)
	assert.Equal(t, "Cell A", n.Label())
	assert.True(t, s.Dirty())

	err = s.Restore(ctx, 999)
	assert.ErrorIs(t, err, store.ErrRevisionNotFound)
}
