package tui

import (
	"strings"
	"sync"

	"kanban-cli/internal/calendar"
)

// Some fonts render box-drawing and emoji poorly, so every decoration has an ASCII twin.

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

func applyGlyphPreference(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ascii":
		setGlyphs(glyphSetASCII)
	default:
		setGlyphs(glyphSetUnicode)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	defer glyphsMu.RUnlock()
	return currentGlyphs
}

func glyphCursor() string {
	if glyphs() == glyphSetASCII {
		return ">"
	}
	return "▸"
}

func glyphSep() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "·"
}

func glyphHRule() string {
	if glyphs() == glyphSetASCII {
		return "-"
	}
	return "─"
}

// glyphIcon swaps emoji icons for short ASCII tags.
func glyphIcon(emoji, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return emoji
}

// glyphBlock returns the lead, fill and tail drawn for one day of a calendar bar, so
// consecutive days read as one continuous bar.
func glyphBlock(pos calendar.Position) (lead, fill, tail string) {
	ascii := glyphs() == glyphSetASCII
	switch pos {
	case calendar.PosStart:
		if ascii {
			return "[", "=", ""
		}
		return "▐", "━", ""
	case calendar.PosSpan:
		if ascii {
			return "", "=", ""
		}
		return "", "━", ""
	case calendar.PosEnd:
		if ascii {
			return "", "=", "]"
		}
		return "", "━", "▌"
	default:
		if ascii {
			return "*", "", ""
		}
		return "●", "", ""
	}
}

func glyphVRule() string {
	if glyphs() == glyphSetASCII {
		return "|"
	}
	return "│"
}
