package tui

import (
	"testing"

	"kanban-cli/internal/calendar"
)

func TestGlyphs_Preference(t *testing.T) {
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })

	applyGlyphPreference("")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("expected unicode glyphs by default; got %v", got)
	}
	applyGlyphPreference(" ASCII ")
	if got := glyphs(); got != glyphSetASCII {
		t.Fatalf("expected ascii glyphs; got %v", got)
	}
	if got := glyphIcon("🐞", "[bug]"); got != "[bug]" {
		t.Fatalf("ascii icon = %q", got)
	}
	applyGlyphPreference("bogus")
	if got := glyphs(); got != glyphSetUnicode {
		t.Fatalf("unknown value should fall back to unicode; got %v", got)
	}
}

func TestGlyphBlock_EndsCapTheBar(t *testing.T) {
	t.Cleanup(func() { setGlyphs(glyphSetUnicode) })
	setGlyphs(glyphSetASCII)

	tests := []struct {
		pos              calendar.Position
		lead, fill, tail string
	}{
		{calendar.PosStart, "[", "=", ""},
		{calendar.PosSpan, "", "=", ""},
		{calendar.PosEnd, "", "=", "]"},
		{calendar.PosSingle, "*", "", ""},
	}
	for _, tt := range tests {
		lead, fill, tail := glyphBlock(tt.pos)
		if lead != tt.lead || fill != tt.fill || tail != tt.tail {
			t.Fatalf("%s: got (%q,%q,%q)", tt.pos, lead, fill, tail)
		}
	}
}
