package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"stationtree/internal/store"

	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or restore saved revisions of a document",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List revisions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.DefaultStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			revs, err := st.ListRevisions(cmd.Context(), args[0], limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": revs})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of revisions (0 = all)")

	restoreCmd := &cobra.Command{
		Use:   "restore <file> <revision>",
		Short: "Write a revision back (the current file is kept as <file>.bak)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid revision: %q", args[1]))
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}

			s, _ := newSession(app)
			// The current file may be the reason for restoring; a broken one is fine.
			if err := s.Open(path); err != nil {
				logger(app).Debug("restoring over unreadable file", "path", path, "error", err)
				s.New()
			}
			if err := s.Restore(cmd.Context(), id); err != nil {
				return writeErr(cmd, err)
			}
			if s.Path() != path {
				return writeErr(cmd, errors.New("revision "+args[1]+" belongs to "+s.Path()))
			}
			bak, err := store.BackupFile(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := save(cmd, s); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"path":     path,
				"revision": id,
				"backup":   bak,
			}})
		},
	}

	cmd.AddCommand(listCmd, restoreCmd)
	return cmd
}
