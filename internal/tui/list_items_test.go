package tui

import "testing"

func TestNewList_DoesNotQuitOnEsc(t *testing.T) {
	t.Parallel()
	l := newList("t", nil)

	for _, k := range l.KeyMap.Quit.Keys() {
		if k == "esc" {
			t.Fatalf("expected list quit binding not to include esc; got %v", l.KeyMap.Quit.Keys())
		}
	}
	has := func(keys []string, want string) bool {
		for _, k := range keys {
			if k == want {
				return true
			}
		}
		return false
	}
	if !has(l.KeyMap.CursorDown.Keys(), "ctrl+n") || !has(l.KeyMap.CursorDown.Keys(), "j") {
		t.Fatalf("expected CursorDown to keep j and add ctrl+n; got %v", l.KeyMap.CursorDown.Keys())
	}
	if l.FilteringEnabled() {
		t.Fatalf("lists should not filter; / belongs to the board")
	}
}
