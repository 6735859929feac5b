package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"stationtree/internal/editor"
	"stationtree/internal/format"
	"stationtree/internal/logging"
	"stationtree/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	PrettyJSON bool
	Format     string
	Debug      bool
	// Indent writes document files indented (also config prettyJson).
	Indent    bool
	NoHistory bool

	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "stationtree",
		Short:        "Edit Station → Arm → Device JSON documents",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  stationtree
  stationtree plant.json

  # Scriptable commands
  stationtree show plant.json
  stationtree create plant.json --parent 1 --name "Left arm"
  stationtree paste plant.json --from 2 --to 5
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive editor.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app, "")
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		app.log = logging.New(logging.Level(app.Debug))
		return nil
	}

	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("STATIONTREE_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", envOr("STATIONTREE_DEBUG", "") != "", "Debug logging to stderr")
	cmd.PersistentFlags().BoolVar(&app.Indent, "indent", false, "Write document files indented")
	cmd.PersistentFlags().BoolVar(&app.NoHistory, "no-history", false, "Do not record saves in the history database")

	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newNewCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newTreeCmd(app))
	cmd.AddCommand(newValidateCmd(app))
	cmd.AddCommand(newCreateCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newPasteCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func logger(app *App) *slog.Logger {
	if app.log == nil {
		return logging.NewNop()
	}
	return app.log
}

// newSession builds an editor session from the global config. A broken
// config is logged and ignored.
func newSession(app *App) (*editor.Session, *store.GlobalConfig) {
	log := logger(app)
	cfg, err := store.LoadConfig()
	if err != nil {
		log.Warn("ignoring unreadable config", "error", err)
		cfg = &store.GlobalConfig{}
	}
	opts := editor.Options{
		Logger: log,
		Pretty: app.Indent || cfg.PrettyJSON,
	}
	if cfg.HistoryEnabled() && !app.NoHistory {
		if st, err := store.DefaultStore(); err == nil {
			opts.History = st
			opts.HistoryKeep = cfg.HistoryKeep()
		} else {
			log.Warn("history disabled", "error", err)
		}
	}
	return editor.NewSession(opts), cfg
}

// openSession opens path in a fresh session.
func openSession(app *App, path string) (*editor.Session, error) {
	s, _ := newSession(app)
	if err := s.Open(path); err != nil {
		return nil, err
	}
	return s, nil
}

// save writes the session back to its file.
func save(cmd *cobra.Command, s *editor.Session) error {
	return s.Save(cmd.Context())
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
