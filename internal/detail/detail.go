// Package detail builds the card detail panel and the create/edit form.
package detail

import (
	"strings"

	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"
	"kanban-cli/internal/statusutil"
)

// NoDescription replaces an empty description.
const NoDescription = "No description."

type Action string

const (
	ActionEdit    Action = "edit"
	ActionArchive Action = "archive"
	ActionDelete  Action = "delete"
)

type View struct {
	ID          int64
	Title       string
	Icon        string
	IssueType   model.IssueType
	Badge       string
	Priority    model.Priority
	Column      model.Column
	ColumnLabel string
	Assignee    string
	Label       string
	GitIssue    string
	DateRange   string
	Urgency     dates.Urgency
	// Description is the raw markdown, or NoDescription.
	Description    string
	HasDescription bool
	Actions        []Action
}

// Detail renders c for the side panel. Archive is only offered for done cards.
func Detail(c model.Card, today dates.Date) View {
	col := model.NormalizeColumn(string(c.Column))
	v := View{
		ID:          c.ID,
		Title:       c.Title,
		Icon:        c.IssueType.Icon(),
		IssueType:   c.IssueType,
		Badge:       c.Priority.Icon(),
		Priority:    c.Priority,
		Column:      col,
		ColumnLabel: col.Label(),
		Assignee:    strings.TrimSpace(c.Assignee),
		Label:       strings.TrimSpace(c.Label),
		GitIssue:    strings.TrimSpace(c.GitIssue),
		DateRange:   dates.RangeLabel(c.StartDate, c.EndDate),
		Urgency:     dates.Classify(c.EndDate, today),
		Description: strings.TrimSpace(c.Description),
	}
	v.HasDescription = v.Description != ""
	if !v.HasDescription {
		v.Description = NoDescription
	}
	v.Actions = []Action{ActionEdit}
	if statusutil.IsEndState(col) {
		v.Actions = append(v.Actions, ActionArchive)
	}
	v.Actions = append(v.Actions, ActionDelete)
	return v
}

func (v View) Can(a Action) bool {
	for _, x := range v.Actions {
		if x == a {
			return true
		}
	}
	return false
}
