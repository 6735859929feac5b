package cli

import (
	"stationtree/internal/store"
	"stationtree/internal/tui"

	"github.com/spf13/cobra"
)

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runTUI(app, path)
		},
	}
}

func runTUI(app *App, path string) error {
	s, cfg := newSession(app)
	st, err := store.DefaultStore()
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Session: s,
		Store:   st,
		Config:  cfg,
		Path:    path,
		Logger:  logger(app),
	})
}
