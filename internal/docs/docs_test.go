package docs

import (
	"reflect"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	want := []string{"cards", "config", "keys", "sessions"}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic string
		ok    bool
	}{
		{"keys", true},
		{" Config ", true},
		{"", false},
		{"nope", false},
		{"../docs", false},
	}
	for _, tt := range tests {
		body, ok := Get(tt.topic)
		if ok != tt.ok {
			t.Fatalf("Get(%q) ok = %v, want %v", tt.topic, ok, tt.ok)
		}
		if ok && body == "" {
			t.Fatalf("Get(%q) returned empty body", tt.topic)
		}
	}
}
