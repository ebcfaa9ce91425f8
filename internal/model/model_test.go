package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"kanban-cli/internal/dates"
)

func TestNormalizeColumn_OnlyRemapsInProgress(t *testing.T) {
	t.Parallel()

	cases := map[string]Column{
		"in_progress": ColumnInProgress,
		"inprogress":  ColumnInProgress,
		"todo":        ColumnTodo,
		"done":        ColumnDone,
		"archive":     ColumnArchive,
		"In_Progress": Column("In_Progress"),
		"in-progress": Column("in-progress"),
	}
	for in, want := range cases {
		if got := NormalizeColumn(in); got != want {
			t.Fatalf("NormalizeColumn(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProjectID_AcceptsNumberOrString(t *testing.T) {
	t.Parallel()

	var ps []Project
	if err := json.Unmarshal([]byte(`[{"id":7,"name":"Seven"},{"id":"Alpha","name":"Alpha"}]`), &ps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ps[0].ID != "7" || ps[1].ID != "Alpha" {
		t.Fatalf("unexpected ids: %#v", ps)
	}

	b, _ := json.Marshal(map[string]any{"a": ProjectID("7"), "b": ProjectID("Alpha")})
	if string(b) != `{"a":7,"b":"Alpha"}` {
		t.Fatalf("marshal: got %s", b)
	}
}

func TestCardFields_OmitsBlankOptionalFields(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(CardFields{Title: "Fix bug", IssueType: IssueBug, Priority: PriorityHigh, Column: ColumnTodo})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(b)
	for _, absent := range []string{"start_date", "end_date", "description", "label", "null"} {
		if strings.Contains(got, absent) {
			t.Fatalf("expected %q to be omitted, got %s", absent, got)
		}
	}
	if got != `{"title":"Fix bug","issue_type":"bug","priority":"high","column_name":"todo"}` {
		t.Fatalf("unexpected body: %s", got)
	}
}

func TestCard_UnmarshalNormalizesAndParsesDates(t *testing.T) {
	t.Parallel()

	var c Card
	raw := `{"id":3,"title":"T","issue_type":"task","priority":"low","column_name":"in_progress","start_date":"2024-01-01","end_date":"2024-01-03T00:00:00","project_id":1}`
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	c = c.Normalized()
	if c.Column != ColumnInProgress {
		t.Fatalf("column = %q", c.Column)
	}
	if !c.HasSpan() || c.EndDate.String() != "2024-01-03" {
		t.Fatalf("dates: %v %v", c.StartDate, c.EndDate)
	}
	if c.ProjectID != "1" {
		t.Fatalf("project id = %q", c.ProjectID)
	}
}

func TestPriorityRank_Ordered(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(Priorities); i++ {
		if Priorities[i-1].Rank() >= Priorities[i].Rank() {
			t.Fatalf("priority order broken at %s", Priorities[i])
		}
	}
	if Priority("nope").Rank() != len(Priorities) {
		t.Fatalf("unknown priority should rank last")
	}
}

func TestValidateFields(t *testing.T) {
	t.Parallel()

	ok := CardFields{Title: "Fix bug", IssueType: IssueBug, Priority: PriorityHigh, Column: ColumnTodo}
	d := func(s string) *dates.Date { x := dates.MustParse(s); return &x }

	tests := []struct {
		name      string
		mutate    func(f *CardFields)
		wantField string
	}{
		{name: "valid", mutate: func(f *CardFields) {}},
		{name: "blank title", mutate: func(f *CardFields) { f.Title = "" }, wantField: "title"},
		{name: "whitespace title", mutate: func(f *CardFields) { f.Title = "   " }, wantField: "title"},
		{name: "bad issue type", mutate: func(f *CardFields) { f.IssueType = "epic" }, wantField: "issue_type"},
		{name: "missing priority", mutate: func(f *CardFields) { f.Priority = "" }, wantField: "priority"},
		{name: "archive column on create", mutate: func(f *CardFields) { f.Column = ColumnArchive }, wantField: "column_name"},
		{name: "inverted dates", mutate: func(f *CardFields) { f.StartDate, f.EndDate = d("2024-01-05"), d("2024-01-01") }, wantField: "end_date"},
		{name: "single day span", mutate: func(f *CardFields) { f.StartDate, f.EndDate = d("2024-01-05"), d("2024-01-05") }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := ok
			tt.mutate(&f)
			err := ValidateFields(f)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Field != tt.wantField {
				t.Fatalf("field = %q, want %q (%v)", fe.Field, tt.wantField, fe)
			}
		})
	}
}

func TestValidatePatch(t *testing.T) {
	t.Parallel()

	if err := ValidatePatch(CardPatch{}); err == nil {
		t.Fatalf("expected empty patch to be rejected")
	}
	if err := ValidatePatch(MoveTo(ColumnDone)); err != nil {
		t.Fatalf("move patch: %v", err)
	}
	bad := Column("limbo")
	var fe *FieldError
	if err := ValidatePatch(CardPatch{Column: &bad}); !errors.As(err, &fe) || fe.Field != "column_name" {
		t.Fatalf("expected column_name field error, got %v", err)
	}
}

func TestCardPatch_Apply(t *testing.T) {
	t.Parallel()

	title := "New"
	c := CardPatch{Title: &title, Column: func() *Column { c := ColumnDone; return &c }()}.Apply(Card{ID: 1, Title: "Old", Column: ColumnTodo, Assignee: "kim"})
	if c.Title != "New" || c.Column != ColumnDone || c.Assignee != "kim" {
		t.Fatalf("unexpected card: %#v", c)
	}
}
