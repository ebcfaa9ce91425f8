package tui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. WithAutoStyle can block on terminal queries, so a fixed
	// style is chosen up front and the renderer reused.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// MarkdownText renders markdown for non-interactive output.
func MarkdownText(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	return renderMarkdown(md, width)
}

// renderMarkdown renders a card description. On any renderer error the raw text is returned.
func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}
	dark := isDarkTheme()
	key := strconv.FormatBool(dark) + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	r := mdRenderers[key]
	if r == nil {
		cfg := markdownStyleConfig(dark)
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

func markdownStyleConfig(dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	text, accent := colorSurfaceFg.Light, colorAccent.Light
	if dark {
		cfg = styles.DarkStyleConfig
		text, accent = colorSurfaceFg.Dark, colorAccent.Dark
	}
	zero := uint(0)
	cfg.Document.Margin = &zero
	cfg.Text.Color = &text
	cfg.Heading.Color = &text
	cfg.H1.Color = &text
	cfg.Link.Color = &accent
	cfg.LinkText.Color = &accent
	return cfg
}
