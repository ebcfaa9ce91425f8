package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectCardLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"kanban"},
			want: []string{"kanban"},
		},
		{
			name: "direct card id first token",
			in:   []string{"kanban", "42"},
			want: []string{"kanban", "cards", "show", "42"},
		},
		{
			name: "hash prefixed id",
			in:   []string{"kanban", "#42"},
			want: []string{"kanban", "cards", "show", "#42"},
		},
		{
			name: "direct card id after value flag",
			in:   []string{"kanban", "--format", "text", "42"},
			want: []string{"kanban", "--format", "text", "cards", "show", "42"},
		},
		{
			name: "direct card id after equals flag",
			in:   []string{"kanban", "--session=ci", "42"},
			want: []string{"kanban", "--session=ci", "cards", "show", "42"},
		},
		{
			name: "direct card id after bool flag",
			in:   []string{"kanban", "-v", "42"},
			want: []string{"kanban", "-v", "cards", "show", "42"},
		},
		{
			name: "direct card id after double dash",
			in:   []string{"kanban", "--pretty", "--", "42"},
			want: []string{"kanban", "--pretty", "cards", "show", "--", "42"},
		},
		{
			name: "double dash first",
			in:   []string{"kanban", "--", "42"},
			want: []string{"kanban", "cards", "show", "--", "42"},
		},
		{
			name: "double dash before non-id",
			in:   []string{"kanban", "--", "wat"},
			want: []string{"kanban", "--", "wat"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"kanban", "cards", "show", "42"},
			want: []string{"kanban", "cards", "show", "42"},
		},
		{
			name: "subcommand argument not rewritten",
			in:   []string{"kanban", "cards", "move", "42", "done"},
			want: []string{"kanban", "cards", "move", "42", "done"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"kanban", "wat"},
			want: []string{"kanban", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectCardLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectCardLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
