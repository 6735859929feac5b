package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestApplyThemePreference_EnvBeatsConfig(t *testing.T) {
	prev := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(prev) })
	t.Setenv("COLORFGBG", "")

	t.Setenv("STATIONTREE_TUI_THEME", "light")
	applyThemePreference("dark")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}

	t.Setenv("STATIONTREE_TUI_THEME", "")
	applyThemePreference("dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark from config; got %q", got)
	}

	t.Setenv("COLORFGBG", "0;15")
	applyThemePreference("")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light from COLORFGBG; got %q", got)
	}
}

func TestMarkdownStyleConfig_DoesNotOverrideLinkStyles(t *testing.T) {
	t.Run("dark", func(t *testing.T) {
		got := markdownStyleConfig("dark")
		want := styles.DarkStyleConfig
		assertStylePrimitiveEqual(t, got.Link, want.Link)
		assertStylePrimitiveEqual(t, got.LinkText, want.LinkText)
	})

	t.Run("light", func(t *testing.T) {
		got := markdownStyleConfig("light")
		want := styles.LightStyleConfig
		assertStylePrimitiveEqual(t, got.Link, want.Link)
		assertStylePrimitiveEqual(t, got.LinkText, want.LinkText)
	})
}

func TestRenderMarkdown_WrapsToWidth(t *testing.T) {
	out := xansi.Strip(renderMarkdown("# Cell A\n\n- Type: station\n- ID: 1", 30))
	for _, want := range []string{"Cell A", "station"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered output missing %q:\n%s", want, out)
		}
	}
	if renderMarkdown("   ", 30) != "" {
		t.Fatalf("blank markdown should render empty")
	}
}

func assertStylePrimitiveEqual(t *testing.T, got ansi.StylePrimitive, want ansi.StylePrimitive) {
	t.Helper()

	if strPtrValue(got.Color) != strPtrValue(want.Color) {
		t.Fatalf("Color: got %q want %q", strPtrValue(got.Color), strPtrValue(want.Color))
	}
	if strPtrValue(got.BackgroundColor) != strPtrValue(want.BackgroundColor) {
		t.Fatalf("BackgroundColor: got %q want %q", strPtrValue(got.BackgroundColor), strPtrValue(want.BackgroundColor))
	}
	if boolPtrValue(got.Underline) != boolPtrValue(want.Underline) {
		t.Fatalf("Underline: got %v want %v", boolPtrValue(got.Underline), boolPtrValue(want.Underline))
	}
}

func strPtrValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func boolPtrValue(p *bool) bool {
	return p != nil && *p
}
