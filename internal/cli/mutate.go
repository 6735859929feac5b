package cli

import (
	"errors"

	"stationtree/internal/document"
	"stationtree/internal/model"

	"github.com/spf13/cobra"
)

// placement holds the mutually exclusive --parent/--to, --before and --after flags.
type placement struct {
	child  string
	before string
	after  string
}

func (p *placement) register(cmd *cobra.Command, childFlag, childHelp string) {
	cmd.Flags().StringVar(&p.child, childFlag, "", childHelp)
	cmd.Flags().StringVar(&p.before, "before", "", "Insert before the element with this id")
	cmd.Flags().StringVar(&p.after, "after", "", "Insert after the element with this id")
	cmd.MarkFlagsMutuallyExclusive(childFlag, "before", "after")
}

// resolve returns the target id ("" for the root) and position.
func (p placement) resolve() (string, document.Position) {
	switch {
	case p.before != "":
		return p.before, document.Before
	case p.after != "":
		return p.after, document.After
	default:
		return p.child, document.AsChild
	}
}

func nodeData(n *document.Node) map[string]any {
	out := map[string]any{
		"id":   n.ID(),
		"type": n.Kind().String(),
		"name": n.Label(),
	}
	if p, ok := n.Parent().(*document.Node); ok {
		out["parentId"] = p.ID()
	}
	return out
}

func newCreateCmd(app *App) *cobra.Command {
	var (
		id    string
		name  string
		where placement
	)

	cmd := &cobra.Command{
		Use:   "create <file>",
		Short: "Create an element (a station at the top level, otherwise the next kind down)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			target, pos := where.resolve()
			n, err := s.Create(target, pos, id, name)
			if err != nil {
				return writeErr(cmd, lookupErr(target, err))
			}
			if err := save(cmd, s); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": nodeData(n)})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Identifier (default: random unused id)")
	cmd.Flags().StringVar(&name, "name", "", "Name")
	where.register(cmd, "parent", "Create as the last child of this id (default: top level)")
	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file> <id> <name>",
		Short: "Rename an element",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.Rename(args[1], args[2]); err != nil {
				return writeErr(cmd, lookupErr(args[1], err))
			}
			if err := save(cmd, s); err != nil {
				return writeErr(cmd, err)
			}
			n, _ := s.Find(args[1])
			return writeOut(cmd, app, map[string]any{"data": nodeData(n)})
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <file> <id>",
		Short: "Remove an element and everything below it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			n, err := s.Find(args[1])
			if err != nil {
				return writeErr(cmd, lookupErr(args[1], err))
			}
			removed := 0
			n.Entity().Walk(func(*model.Entity) bool {
				removed++
				return true
			})
			if err := s.Remove(args[1]); err != nil {
				return writeErr(cmd, lookupErr(args[1], err))
			}
			if err := save(cmd, s); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": args[1], "removed": removed}})
		},
	}
}

func newPasteCmd(app *App) *cobra.Command {
	var (
		from  string
		cut   bool
		where placement
	)

	cmd := &cobra.Command{
		Use:   "paste <file>",
		Short: "Copy (or move with --cut) a subtree; pasted elements get fresh ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" {
				return writeErr(cmd, errors.New("missing --from"))
			}
			s, err := openSession(app, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			take := s.Copy
			if cut {
				take = s.Cut
			}
			if err := take(from); err != nil {
				return writeErr(cmd, lookupErr(from, err))
			}
			target, pos := where.resolve()
			status, n, err := s.Paste(target, pos)
			if err != nil {
				return writeErr(cmd, lookupErr(target, err))
			}
			if status == document.NotAdded {
				return writeErr(cmd, notAddedError{target: target})
			}
			if err := save(cmd, s); err != nil {
				return writeErr(cmd, err)
			}
			data := nodeData(n)
			data["status"] = status
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Id of the element to copy")
	cmd.Flags().BoolVar(&cut, "cut", false, "Move instead of copy (the source is removed first)")
	where.register(cmd, "to", "Paste as the last child of this id (default: top level)")
	return cmd
}
