package model

import (
	"encoding/json"
	"strconv"
	"strings"

	"kanban-cli/internal/dates"
)

// ProjectID identifies a project. Backends send it either as a JSON number or a string.
type ProjectID string

func (p *ProjectID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*p = ProjectID(strings.TrimSpace(v))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*p = ProjectID(n.String())
	return nil
}

func (p ProjectID) MarshalJSON() ([]byte, error) {
	// Keep numeric ids numeric on the wire.
	if _, err := strconv.ParseInt(string(p), 10, 64); err == nil {
		return []byte(p), nil
	}
	return json.Marshal(string(p))
}

func (p ProjectID) String() string { return string(p) }

type Project struct {
	ID   ProjectID `json:"id"`
	Name string    `json:"name"`
}

type Column string

const (
	ColumnTodo       Column = "todo"
	ColumnInProgress Column = "inprogress"
	ColumnDone       Column = "done"
	ColumnArchive    Column = "archive"
)

// BoardColumns is the left-to-right order of visible board lanes. Archive is never a lane.
var BoardColumns = []Column{ColumnTodo, ColumnInProgress, ColumnDone}

// NormalizeColumn maps the backend's "in_progress" spelling onto the board bucket
// "inprogress". No other name is remapped.
func NormalizeColumn(s string) Column {
	if s == "in_progress" {
		return ColumnInProgress
	}
	return Column(s)
}

func (c Column) Label() string {
	switch c {
	case ColumnTodo:
		return "To Do"
	case ColumnInProgress:
		return "In Progress"
	case ColumnDone:
		return "Done"
	case ColumnArchive:
		return "Archive"
	default:
		return string(c)
	}
}

func (c Column) Valid() bool {
	switch c {
	case ColumnTodo, ColumnInProgress, ColumnDone, ColumnArchive:
		return true
	}
	return false
}

type IssueType string

const (
	IssueStory IssueType = "story"
	IssueTask  IssueType = "task"
	IssueBug   IssueType = "bug"
)

var IssueTypes = []IssueType{IssueStory, IssueTask, IssueBug}

func (t IssueType) Icon() string {
	switch t {
	case IssueStory:
		return "📖"
	case IssueTask:
		return "✅"
	case IssueBug:
		return "🐛"
	default:
		return "•"
	}
}

type Priority string

const (
	PriorityHighest Priority = "highest"
	PriorityHigh    Priority = "high"
	PriorityMedium  Priority = "medium"
	PriorityLow     Priority = "low"
	PriorityLowest  Priority = "lowest"
)

// Priorities is ordered from most to least urgent.
var Priorities = []Priority{PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow, PriorityLowest}

// Rank orders priorities; highest is 0. Unknown values sort last.
func (p Priority) Rank() int {
	for i, q := range Priorities {
		if q == p {
			return i
		}
	}
	return len(Priorities)
}

func (p Priority) Icon() string {
	switch p {
	case PriorityHighest:
		return "🔴"
	case PriorityHigh:
		return "🟠"
	case PriorityMedium:
		return "🟡"
	case PriorityLow:
		return "🟢"
	case PriorityLowest:
		return "🔵"
	default:
		return "⚪"
	}
}

// Card is the client's transient copy of a backend work item.
type Card struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	IssueType   IssueType   `json:"issue_type"`
	Priority    Priority    `json:"priority"`
	Assignee    string      `json:"assignee,omitempty"`
	Label       string      `json:"label,omitempty"`
	GitIssue    string      `json:"git_issue,omitempty"`
	Column      Column      `json:"column_name"`
	StartDate   *dates.Date `json:"start_date,omitempty"`
	EndDate     *dates.Date `json:"end_date,omitempty"`
	ProjectID   ProjectID   `json:"project_id,omitempty"`
}

// Normalized returns c with its column bucket normalised.
func (c Card) Normalized() Card {
	c.Column = NormalizeColumn(string(c.Column))
	return c
}

func (c Card) Archived() bool { return NormalizeColumn(string(c.Column)) == ColumnArchive }

// HasSpan reports whether the card carries both dates, the condition for calendar placement.
func (c Card) HasSpan() bool {
	return c.StartDate != nil && !c.StartDate.IsZero() && c.EndDate != nil && !c.EndDate.IsZero()
}

// CardFields is the create payload. Blank optional fields are omitted from the JSON body
// rather than sent as null.
type CardFields struct {
	Title       string      `json:"title"`
	IssueType   IssueType   `json:"issue_type"`
	Priority    Priority    `json:"priority"`
	Column      Column      `json:"column_name"`
	Description string      `json:"description,omitempty"`
	Assignee    string      `json:"assignee,omitempty"`
	Label       string      `json:"label,omitempty"`
	GitIssue    string      `json:"git_issue,omitempty"`
	StartDate   *dates.Date `json:"start_date,omitempty"`
	EndDate     *dates.Date `json:"end_date,omitempty"`
	ProjectID   ProjectID   `json:"project_id,omitempty"`
}

// Trimmed returns f with surrounding whitespace removed from every text field.
func (f CardFields) Trimmed() CardFields {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Assignee = strings.TrimSpace(f.Assignee)
	f.Label = strings.TrimSpace(f.Label)
	f.GitIssue = strings.TrimSpace(f.GitIssue)
	return f
}

// CardPatch is a partial update; nil fields are not sent.
type CardPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	IssueType   *IssueType  `json:"issue_type,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	Assignee    *string     `json:"assignee,omitempty"`
	Label       *string     `json:"label,omitempty"`
	GitIssue    *string     `json:"git_issue,omitempty"`
	Column      *Column     `json:"column_name,omitempty"`
	StartDate   *dates.Date `json:"start_date,omitempty"`
	EndDate     *dates.Date `json:"end_date,omitempty"`
}

// MoveTo is the patch sent when a card is dropped onto another column.
func MoveTo(c Column) CardPatch { return CardPatch{Column: &c} }

func (p CardPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.IssueType == nil && p.Priority == nil &&
		p.Assignee == nil && p.Label == nil && p.GitIssue == nil && p.Column == nil &&
		p.StartDate == nil && p.EndDate == nil
}

// Apply returns c with p's fields applied. Used by test backends and for previews; the
// client never patches its cache locally.
func (p CardPatch) Apply(c Card) Card {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.IssueType != nil {
		c.IssueType = *p.IssueType
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.Assignee != nil {
		c.Assignee = *p.Assignee
	}
	if p.Label != nil {
		c.Label = *p.Label
	}
	if p.GitIssue != nil {
		c.GitIssue = *p.GitIssue
	}
	if p.Column != nil {
		c.Column = *p.Column
	}
	if p.StartDate != nil {
		d := *p.StartDate
		c.StartDate = &d
	}
	if p.EndDate != nil {
		d := *p.EndDate
		c.EndDate = &d
	}
	return c
}
