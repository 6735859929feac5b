// Package tui is the interactive tree editor.
package tui

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"stationtree/internal/editor"
	"stationtree/internal/logging"
	"stationtree/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Session *editor.Session
	Store   store.Store
	Config  *store.GlobalConfig
	// Path is opened on start. Empty reopens the last document, if any.
	Path string
	// Logger receives warnings before the editor takes over the terminal.
	Logger *slog.Logger
}

func Run(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = &store.GlobalConfig{}
	}
	theme := ""
	if cfg.TUI != nil {
		theme = cfg.TUI.Theme
	}
	applyThemePreference(theme)
	applyColorProfilePreference()

	// The alternate screen owns stderr, so logs go to a file or nowhere.
	log := logging.NewNop()
	if p := strings.TrimSpace(os.Getenv("STATIONTREE_TUI_DEBUG_LOG")); p != "" {
		l, closer, err := logging.OpenFile(p)
		if err != nil {
			if opts.Logger != nil {
				opts.Logger.Warn("open debug log failed", "path", p, "error", err)
			}
		} else {
			defer closer.Close()
			log = l
		}
	}
	opts.Session.SetLogger(log)

	state, err := opts.Store.LoadTUIState()
	if err != nil || state == nil {
		state = &store.TUIState{Version: 1}
	}

	m := newAppModel(opts.Session, opts.Store, cfg, log)
	m.persist = true
	m.start(opts.Path, state)

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(appModel); ok {
		if err := opts.Store.SaveTUIState(fm.uiState(state)); err != nil && opts.Logger != nil {
			opts.Logger.Warn("save editor state failed", "error", err)
		}
	}
	return nil
}

// start opens path, or the last document with its collapsed nodes and
// selection. Without either it begins a new document.
func (m *appModel) start(path string, state *store.TUIState) {
	restore := false
	if path == "" && state.LastPath != "" {
		if _, err := os.Stat(state.LastPath); err == nil {
			path = state.LastPath
			restore = true
		}
	}
	if path == "" {
		m.session.New()
		m.applyEvents()
		return
	}
	if err := m.session.Open(path); err != nil {
		m.session.New()
		m.applyEvents()
		m.setStatus(statusError, err.Error())
		return
	}
	m.rememberFile(m.session.Path())
	m.applyEvents()
	if restore {
		for _, id := range state.Collapsed[absPath(m.session.Path())] {
			m.collapsed[id] = true
		}
		m.refreshRows(state.SelectedID)
	}
}

// uiState records what start needs to resume the session.
func (m appModel) uiState(prev *store.TUIState) *store.TUIState {
	st := &store.TUIState{Version: 1, Collapsed: map[string][]string{}}
	for p, ids := range prev.Collapsed {
		st.Collapsed[p] = ids
	}
	if m.session.Path() == "" {
		return st
	}
	path := absPath(m.session.Path())
	st.LastPath = path
	st.SelectedID = m.selectedID()
	ids := make([]string, 0, len(m.collapsed))
	for id, ok := range m.collapsed {
		if ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if len(ids) == 0 {
		delete(st.Collapsed, path)
	} else {
		st.Collapsed[path] = ids
	}
	return st
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
