package cli

import (
	"errors"
	"os"

	"stationtree/internal/document"
	"stationtree/internal/model"
	"stationtree/internal/store"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Write an empty document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, errors.New("file exists (use --force): "+path))
			}
			s, _ := newSession(app)
			s.New()
			if err := s.SaveAs(cmd.Context(), path); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path}})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Print the document or one subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if id == "" {
				return writeOut(cmd, app, map[string]any{"data": s.Document().Stations()})
			}
			n, err := s.Find(id)
			if err != nil {
				return writeErr(cmd, lookupErr(id, err))
			}
			return writeOut(cmd, app, map[string]any{
				"data": n.Entity(),
				"meta": map[string]any{"type": n.Kind().String(), "path": n.Path()},
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Only print the element with this id")
	return cmd
}

func newTreeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <file>",
		Short: "Print the document as a text tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stations, _, err := store.ReadDocument(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := writeTree(cmd, args[0], stations); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}
}

// writeTree labels every node with its id; ids are unique, so gtree never
// merges two siblings that share a name.
func writeTree(cmd *cobra.Command, title string, stations *model.Stations) error {
	root := gtree.NewRoot(title)
	var add func(parent *gtree.Node, e *model.Entity)
	add = func(parent *gtree.Node, e *model.Entity) {
		node := parent.Add(e.Name + " [" + e.ID() + "]")
		for c := range e.Children() {
			add(node, c)
		}
	}
	for st := range stations.Children() {
		add(root, st)
	}
	return gtree.OutputFromRoot(cmd.OutOrStdout(), root)
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a file loads and report its size",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stations, _, err := store.ReadDocument(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			doc, err := document.Load(stations)
			if err != nil {
				return writeErr(cmd, err)
			}
			counts := stations.Count()
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":     args[0],
				"valid":    true,
				"stations": counts[model.KindStation],
				"arms":     counts[model.KindArm],
				"devices":  counts[model.KindDevice],
				"ids":      doc.Registry().Len(),
			}})
		},
	}
}
