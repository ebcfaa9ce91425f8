package tui

import (
	"errors"
	"strings"

	"kanban-cli/internal/detail"
	"kanban-cli/internal/model"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var formLabels = map[string]string{
	detail.FieldTitle:       "Title",
	detail.FieldDescription: "Description",
	detail.FieldIssueType:   "Type",
	detail.FieldPriority:    "Priority",
	detail.FieldAssignee:    "Assignee",
	detail.FieldLabel:       "Label",
	detail.FieldGitIssue:    "Git issue",
	detail.FieldColumn:      "Column",
	detail.FieldStartDate:   "Start",
	detail.FieldEndDate:     "End",
}

var formHints = map[string]string{
	detail.FieldIssueType: "story|task|bug",
	detail.FieldPriority:  "highest|high|medium|low|lowest",
	detail.FieldColumn:    "todo|inprogress|done",
	detail.FieldStartDate: "YYYY-MM-DD",
	detail.FieldEndDate:   "YYYY-MM-DD",
}

// formModal is the create/edit form. Inputs follow detail.FormFields; the description uses a
// textarea, every other field a single-line input.
type formModal struct {
	id     int64
	inputs map[string]*textinput.Model
	desc   textarea.Model
	focus  int

	errField string
	errMsg   string
	saving   bool
}

func newFormModal(f detail.Form) formModal {
	fm := formModal{id: f.ID, inputs: map[string]*textinput.Model{}}
	for _, field := range detail.FormFields {
		if field == detail.FieldDescription {
			ta := textarea.New()
			ta.ShowLineNumbers = false
			ta.Placeholder = "Markdown"
			ta.SetHeight(4)
			ta.Cursor.SetMode(cursor.CursorStatic)
			ta.SetValue(f.Description)
			fm.desc = ta
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = formHints[field]
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(f.Get(field))
		fm.inputs[field] = &ti
	}
	fm.setFocus(0)
	return fm
}

func (fm formModal) editing() bool { return fm.id != 0 }

func (fm formModal) focusedField() string { return detail.FormFields[fm.focus] }

func (fm *formModal) setFocus(i int) {
	n := len(detail.FormFields)
	fm.focus = ((i % n) + n) % n
	for field, ti := range fm.inputs {
		if field == fm.focusedField() {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
	if fm.focusedField() == detail.FieldDescription {
		fm.desc.Focus()
	} else {
		fm.desc.Blur()
	}
}

func (fm *formModal) resize(termW int) {
	w := modalBodyWidth(termW) - 13
	if w < 10 {
		w = 10
	}
	for _, ti := range fm.inputs {
		ti.Width = w
	}
	fm.desc.SetWidth(modalBodyWidth(termW))
}

// form reads the inputs back into a detail.Form.
func (fm formModal) form() detail.Form {
	f := detail.Form{ID: fm.id}
	for field, ti := range fm.inputs {
		f.Set(field, ti.Value())
	}
	f.Description = fm.desc.Value()
	return f
}

// setError shows err inline, under its field when it names one.
func (fm *formModal) setError(err error) {
	fm.saving = false
	var fe *model.FieldError
	if errors.As(err, &fe) {
		fm.errField, fm.errMsg = fe.Field, fe.Message
		for i, field := range detail.FormFields {
			if field == fe.Field {
				fm.setFocus(i)
				break
			}
		}
		return
	}
	fm.errField, fm.errMsg = "", err.Error()
}

// submitted is what a ctrl+s produced: exactly one of fields or patch is meaningful.
type submitted struct {
	ok     bool
	create model.CardFields
	patch  model.CardPatch
}

func (fm *formModal) update(msg tea.KeyMsg) (submitted, tea.Cmd) {
	if fm.saving {
		return submitted{}, nil
	}
	switch msg.String() {
	case "tab", "down":
		if msg.String() == "down" && fm.focusedField() == detail.FieldDescription {
			break
		}
		fm.setFocus(fm.focus + 1)
		return submitted{}, nil
	case "shift+tab", "up":
		if msg.String() == "up" && fm.focusedField() == detail.FieldDescription {
			break
		}
		fm.setFocus(fm.focus - 1)
		return submitted{}, nil
	case "ctrl+s":
		return fm.submit(), nil
	case "enter":
		if fm.focusedField() != detail.FieldDescription {
			return fm.submit(), nil
		}
	}

	var cmd tea.Cmd
	if fm.focusedField() == detail.FieldDescription {
		fm.desc, cmd = fm.desc.Update(msg)
		return submitted{}, cmd
	}
	ti := fm.inputs[fm.focusedField()]
	*ti, cmd = ti.Update(msg)
	return submitted{}, cmd
}

func (fm *formModal) submit() submitted {
	f := fm.form()
	fm.errField, fm.errMsg = "", ""
	if fm.editing() {
		p, err := f.Patch()
		if err != nil {
			fm.setError(err)
			return submitted{}
		}
		fm.saving = true
		return submitted{ok: true, patch: p}
	}
	fields, err := f.Fields()
	if err != nil {
		fm.setError(err)
		return submitted{}
	}
	fm.saving = true
	return submitted{ok: true, create: fields}
}

func (fm formModal) view(termW int) string {
	labelSt := styleMuted().Width(12)
	focusSt := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Width(12)

	var rows []string
	for i, field := range detail.FormFields {
		ls := labelSt
		if i == fm.focus {
			ls = focusSt
		}
		label := ls.Render(formLabels[field])
		if field == detail.FieldDescription {
			rows = append(rows, label, fm.desc.View())
		} else {
			rows = append(rows, label+" "+fm.inputs[field].View())
		}
		if fm.errField == field && fm.errMsg != "" {
			rows = append(rows, styleError().Render(strings.Repeat(" ", 13)+fm.errMsg))
		}
	}
	if fm.errField == "" && fm.errMsg != "" {
		rows = append(rows, "", styleError().Render(fm.errMsg))
	}
	if fm.saving {
		rows = append(rows, "", styleMuted().Render("Saving…"))
	}
	rows = append(rows, "", styleMuted().Width(modalBodyWidth(termW)).Render("tab/shift+tab: field   enter/ctrl+s: save   esc: cancel"))

	title := "New card"
	if fm.editing() {
		title = "Edit card"
	}
	return renderModalBox(termW, title, strings.Join(rows, "\n"))
}
