package detail

import (
	"fmt"
	"strings"

	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"
	"kanban-cli/internal/statusutil"
)

// Field names match the JSON keys so errors line up with schema FieldErrors.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldIssueType   = "issue_type"
	FieldPriority    = "priority"
	FieldAssignee    = "assignee"
	FieldLabel       = "label"
	FieldGitIssue    = "git_issue"
	FieldColumn      = "column_name"
	FieldStartDate   = "start_date"
	FieldEndDate     = "end_date"
)

// FormFields is the tab order of the form.
var FormFields = []string{
	FieldTitle, FieldIssueType, FieldPriority, FieldColumn, FieldAssignee,
	FieldLabel, FieldGitIssue, FieldStartDate, FieldEndDate, FieldDescription,
}

// Form holds the raw text of the create/edit inputs. ID is zero when creating.
type Form struct {
	ID          int64
	Title       string
	Description string
	IssueType   string
	Priority    string
	Assignee    string
	Label       string
	GitIssue    string
	Column      string
	StartDate   string
	EndDate     string
}

// NewForm returns an empty create form with the usual defaults.
func NewForm(col model.Column) Form {
	if col == "" || col == model.ColumnArchive {
		col = model.ColumnTodo
	}
	return Form{
		IssueType: string(model.IssueTask),
		Priority:  string(model.PriorityMedium),
		Column:    string(model.NormalizeColumn(string(col))),
	}
}

// FormFromCard pre-fills the edit form.
func FormFromCard(c model.Card) Form {
	f := Form{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		IssueType:   string(c.IssueType),
		Priority:    string(c.Priority),
		Assignee:    c.Assignee,
		Label:       c.Label,
		GitIssue:    c.GitIssue,
		Column:      string(model.NormalizeColumn(string(c.Column))),
	}
	if c.StartDate != nil && !c.StartDate.IsZero() {
		f.StartDate = c.StartDate.String()
	}
	if c.EndDate != nil && !c.EndDate.IsZero() {
		f.EndDate = c.EndDate.String()
	}
	return f
}

func (f Form) Editing() bool { return f.ID != 0 }

// Get and Set address inputs by field name.
func (f Form) Get(field string) string {
	if p := f.ptr(field); p != nil {
		return *p
	}
	return ""
}

func (f *Form) Set(field, v string) {
	if p := f.ptr(field); p != nil {
		*p = v
	}
}

func (f *Form) ptr(field string) *string {
	switch field {
	case FieldTitle:
		return &f.Title
	case FieldDescription:
		return &f.Description
	case FieldIssueType:
		return &f.IssueType
	case FieldPriority:
		return &f.Priority
	case FieldAssignee:
		return &f.Assignee
	case FieldLabel:
		return &f.Label
	case FieldGitIssue:
		return &f.GitIssue
	case FieldColumn:
		return &f.Column
	case FieldStartDate:
		return &f.StartDate
	case FieldEndDate:
		return &f.EndDate
	}
	return nil
}

// Fields parses the form into a create payload. Blank optional inputs stay empty and are
// omitted on the wire.
func (f Form) Fields() (model.CardFields, error) {
	out := model.CardFields{
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		Assignee:    strings.TrimSpace(f.Assignee),
		Label:       strings.TrimSpace(f.Label),
		GitIssue:    strings.TrimSpace(f.GitIssue),
	}
	var err error
	if out.IssueType, err = statusutil.ParseIssueType(f.IssueType); err != nil {
		return model.CardFields{}, &model.FieldError{Field: FieldIssueType, Message: err.Error()}
	}
	if out.Priority, err = statusutil.ParsePriority(f.Priority); err != nil {
		return model.CardFields{}, &model.FieldError{Field: FieldPriority, Message: err.Error()}
	}
	if out.Column, err = statusutil.ParseBoardColumn(f.Column); err != nil {
		return model.CardFields{}, &model.FieldError{Field: FieldColumn, Message: err.Error()}
	}
	if out.StartDate, err = optionalDate(FieldStartDate, f.StartDate); err != nil {
		return model.CardFields{}, err
	}
	if out.EndDate, err = optionalDate(FieldEndDate, f.EndDate); err != nil {
		return model.CardFields{}, err
	}
	if err := model.ValidateFields(out); err != nil {
		return model.CardFields{}, err
	}
	return out, nil
}

// Patch builds the partial update for an edit. Every text input the form shows is sent (so a
// cleared description clears it) except label, which is only sent when non-empty. Blank dates
// are omitted.
func (f Form) Patch() (model.CardPatch, error) {
	fields, err := f.Fields()
	if err != nil {
		return model.CardPatch{}, err
	}
	p := model.CardPatch{
		Title:       &fields.Title,
		Description: &fields.Description,
		IssueType:   &fields.IssueType,
		Priority:    &fields.Priority,
		Assignee:    &fields.Assignee,
		GitIssue:    &fields.GitIssue,
		Column:      &fields.Column,
		StartDate:   fields.StartDate,
		EndDate:     fields.EndDate,
	}
	if fields.Label != "" {
		p.Label = &fields.Label
	}
	return p, nil
}

func optionalDate(field, s string) (*dates.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := dates.ParseDate(s)
	if err != nil {
		return nil, &model.FieldError{Field: field, Message: fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", s)}
	}
	return &d, nil
}
