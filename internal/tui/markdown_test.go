package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

func TestIsDarkTheme_EnvOverride(t *testing.T) {
	t.Setenv("KANBAN_TUI_THEME", "light")
	if isDarkTheme() {
		t.Fatalf("expected light")
	}
	t.Setenv("KANBAN_TUI_THEME", "dark")
	if !isDarkTheme() {
		t.Fatalf("expected dark")
	}
}

func TestMarkdownStyleConfig_ZeroMarginAndThemeText(t *testing.T) {
	t.Parallel()
	for _, dark := range []bool{false, true} {
		cfg := markdownStyleConfig(dark)
		if cfg.Document.Margin == nil || *cfg.Document.Margin != 0 {
			t.Fatalf("dark=%v: expected zero document margin", dark)
		}
		want := colorSurfaceFg.Light
		if dark {
			want = colorSurfaceFg.Dark
		}
		assertColor(t, cfg.Text, want)
	}
	// The shared style configs must not be mutated.
	if m := styles.DarkStyleConfig.Document.Margin; m != nil && *m == 0 {
		t.Fatalf("DarkStyleConfig margin was mutated")
	}
}

func assertColor(t *testing.T, p ansi.StylePrimitive, want string) {
	t.Helper()
	if p.Color == nil || *p.Color != want {
		t.Fatalf("color = %v, want %q", p.Color, want)
	}
}

func TestRenderMarkdown_PlainTextSurvives(t *testing.T) {
	t.Parallel()
	out := renderMarkdown("Fix the **login** redirect", 40)
	if !strings.Contains(out, "login") || !strings.Contains(out, "redirect") {
		t.Fatalf("unexpected render: %q", out)
	}
	if renderMarkdown("   ", 40) != "" {
		t.Fatalf("blank markdown should render empty")
	}
}
