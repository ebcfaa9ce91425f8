package tui

import (
	"errors"
	"strings"

	"kanban-cli/internal/gate"
	"kanban-cli/internal/model"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type gateStep int

const (
	gateStepPick gateStep = iota
	gateStepPIN
)

// gateModal picks a project and unlocks it with its PIN. It cannot be dismissed: without a
// project there is nothing to show.
type gateModal struct {
	list    list.Model
	pin     textinput.Model
	step    gateStep
	target  model.Project
	err     string
	loading bool
	busy    bool
	// switching reloads through Gate.Switch so the stored project is cleared first.
	switching bool
}

func newGateModal() gateModal {
	pin := textinput.New()
	pin.Placeholder = "0000"
	pin.CharLimit = 4
	pin.Prompt = "PIN: "
	pin.EchoMode = textinput.EchoPassword
	pin.EchoCharacter = '•'
	pin.Cursor.SetMode(cursor.CursorStatic)
	return gateModal{
		list:    newList("Projects", nil),
		pin:     pin,
		loading: true,
	}
}

func (g *gateModal) setProjects(ps []model.Project, err error) {
	g.loading = false
	g.step = gateStepPick
	if err != nil {
		g.err = "Could not load projects: " + err.Error()
		return
	}
	g.err = ""
	g.list.SetItems(projectItems(ps))
	g.list.ResetSelected()
}

func (g *gateModal) resize(termW, termH int) {
	h := termH - 14
	if h < 4 {
		h = 4
	}
	if h > 12 {
		h = 12
	}
	g.list.SetSize(modalBodyWidth(termW), h)
	g.pin.Width = modalBodyWidth(termW) - len(g.pin.Prompt) - 1
}

// verifyResult applies a verify answer. It reports whether the gate can close.
func (g *gateModal) verifyResult(err error) bool {
	g.busy = false
	if err == nil {
		g.err = ""
		return true
	}
	g.pin.SetValue("")
	switch {
	case errors.Is(err, gate.ErrPINMismatch):
		g.err = gate.ErrPINMismatch.Error()
	case errors.Is(err, gate.ErrInvalidPIN):
		g.err = err.Error()
	default:
		g.err = "Verification failed: " + err.Error()
	}
	return false
}

// update handles a key. The returned project id and pin are set when a verify should be sent.
func (g *gateModal) update(msg tea.KeyMsg) (model.ProjectID, string, tea.Cmd) {
	if g.busy || g.loading {
		return "", "", nil
	}
	switch g.step {
	case gateStepPick:
		if msg.String() == "enter" {
			it, ok := g.list.SelectedItem().(projectItem)
			if !ok {
				return "", "", nil
			}
			g.target = it.project
			g.step = gateStepPIN
			g.err = ""
			g.pin.SetValue("")
			g.pin.Focus()
			return "", "", nil
		}
		var cmd tea.Cmd
		g.list, cmd = g.list.Update(msg)
		return "", "", cmd

	case gateStepPIN:
		switch msg.String() {
		case "esc":
			g.step = gateStepPick
			g.err = ""
			g.pin.Blur()
			return "", "", nil
		case "enter":
			pin := strings.TrimSpace(g.pin.Value())
			if err := gate.ValidatePIN(pin); err != nil {
				g.err = err.Error()
				return "", "", nil
			}
			g.busy = true
			g.err = ""
			return g.target.ID, pin, nil
		}
		var cmd tea.Cmd
		g.pin, cmd = g.pin.Update(msg)
		return "", "", cmd
	}
	return "", "", nil
}

func (g gateModal) view(termW int) string {
	var b strings.Builder
	switch {
	case g.loading:
		b.WriteString(styleMuted().Render("Loading projects…"))
	case g.step == gateStepPIN:
		b.WriteString(styleHeader().Render(g.target.Name))
		b.WriteString("\n\n")
		b.WriteString(g.pin.View())
	default:
		if len(g.list.Items()) == 0 && g.err == "" {
			b.WriteString(styleMuted().Render("No projects."))
		} else {
			b.WriteString(g.list.View())
		}
	}
	if g.err != "" {
		b.WriteString("\n\n")
		b.WriteString(styleError().Render(g.err))
	}
	if g.busy {
		b.WriteString("\n\n")
		b.WriteString(styleMuted().Render("Verifying…"))
	}
	help := "j/k: move   enter: choose   r: reload   q: quit"
	if g.step == gateStepPIN {
		help = "enter: unlock   esc: back"
	}
	b.WriteString("\n\n")
	b.WriteString(styleMuted().Width(modalBodyWidth(termW)).Render(help))
	return renderModalBox(termW, "Select project", b.String())
}
