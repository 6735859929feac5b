package tui

import (
	"encoding/json"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"stationtree/internal/document"
)

// writeSystemClipboard is swapped out in tests.
var writeSystemClipboard = copyToClipboard

func copyToClipboard(s string) error {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	switch runtime.GOOS {
	case "darwin":
		return runClipboardCmd("pbcopy", nil, s)
	case "windows":
		if err := runClipboardCmd("cmd", []string{"/c", "clip"}, s); err == nil {
			return nil
		}
		return runClipboardCmd("powershell", []string{"-NoProfile", "-Command", "Set-Clipboard"}, s)
	default:
		// Wayland first, then X11.
		if err := runClipboardCmd("wl-copy", nil, s); err == nil {
			return nil
		}
		if err := runClipboardCmd("xclip", []string{"-selection", "clipboard"}, s); err == nil {
			return nil
		}
		return runClipboardCmd("xsel", []string{"--clipboard", "--input"}, s)
	}
}

func runClipboardCmd(name string, args []string, stdin string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if err := cmd.Run(); err != nil {
		return errors.New(name + ": " + err.Error())
	}
	return nil
}

// clipboardJSON is the element as it appears in a saved file.
func clipboardJSON(n *document.Node) (string, error) {
	b, err := json.MarshalIndent(n.Entity(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// yank puts the selected element's JSON (or only its id) on the system clipboard.
func (m *appModel) yank(idOnly bool) {
	n := m.selectedNode()
	if n == nil {
		return
	}
	txt := n.ID()
	if !idOnly {
		var err error
		if txt, err = clipboardJSON(n); err != nil {
			m.setStatus(statusError, "Clipboard error: "+err.Error())
			return
		}
	}
	if err := writeSystemClipboard(txt); err != nil {
		m.setStatus(statusError, "Clipboard error: "+err.Error())
		return
	}
	if idOnly {
		m.setStatus(statusInfo, "Copied id: "+txt)
	} else {
		m.setStatus(statusInfo, "Copied JSON of "+n.ID())
	}
}
