package tui

import (
	"errors"
	"fmt"

	"kanban-cli/internal/calendar"
	"kanban-cli/internal/detail"
	"kanban-cli/internal/model"
	"kanban-cli/internal/statusutil"
	"kanban-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return m, nil

	case resumeMsg:
		if msg.err != nil {
			m.log.Warn("resume session", "err", msg.err)
		}
		if msg.ok {
			m.modal = modalNone
			return m, m.activate(msg.project)
		}
		return m, m.openGate(false)

	case projectsLoadedMsg:
		m.gateModal.setProjects(msg.projects, msg.err)
		return m, nil

	case verifiedMsg:
		if !m.gateModal.verifyResult(msg.err) {
			return m, nil
		}
		m.modal = modalNone
		cmd := m.activate(msg.project)
		return m, tea.Batch(cmd, m.setFlash("Project: "+msg.project.Name, false))

	case cardsLoadedMsg:
		if errors.Is(msg.err, store.ErrStaleLoad) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			return m, m.setFlash("Load failed: "+msg.err.Error(), true)
		}
		m.refreshBoard()
		return m, nil

	case mutationDoneMsg:
		m.refreshBoard()
		var cmds []tea.Cmd
		if msg.err != nil {
			cmds = append(cmds, m.setFlash(msg.err.Error(), true))
		} else {
			cmds = append(cmds, m.setFlash(msg.notice, false))
		}
		if msg.archive && m.view == viewArchive {
			m.archive.loading = true
			cmds = append(cmds, loadArchivedCmd(m.store))
		}
		if msg.err == nil {
			cmds = append(cmds, m.refetchDetail())
		}
		return m, tea.Batch(cmds...)

	case cardFetchedMsg:
		if msg.id != m.fetchID || msg.edit != m.fetchEdit {
			return m, nil
		}
		m.fetchID = 0
		if msg.err != nil {
			return m, m.setFlash("Load card failed: "+msg.err.Error(), true)
		}
		if m.detailOpen && m.detailID == msg.id {
			m.detailCard = msg.card
		}
		if msg.edit {
			if m.modal != modalNone {
				return m, nil
			}
			return m.openForm(detail.FormFromCard(msg.card))
		}
		if m.modal != modalNone || m.view == viewArchive {
			return m, nil
		}
		m.detailOpen = true
		m.detailID = msg.id
		m.detailCard = msg.card
		return m, nil

	case formSavedMsg:
		if msg.err != nil {
			m.form.setError(msg.err)
			return m, nil
		}
		m.modal = modalNone
		m.refreshBoard()
		return m, tea.Batch(m.setFlash(msg.notice, false), m.refetchDetail())

	case archivedLoadedMsg:
		m.archive.setCards(msg.cards, msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.modal {
	case modalGate:
		return m.updateGate(msg)
	case modalForm:
		return m.updateForm(msg)
	case modalConfirm:
		return m.updateConfirm(msg)
	}

	if m.filtering {
		return m.updateFilter(msg)
	}

	// Global keys.
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		switch m.view {
		case viewBoard:
			m.view = viewCalendar
		default:
			m.view = viewBoard
		}
		m.detailOpen = false
		return m, nil
	case "a":
		if m.view == viewArchive {
			m.view = viewBoard
			return m, nil
		}
		m.view = viewArchive
		m.detailOpen = false
		m.archive.loading = true
		return m, loadArchivedCmd(m.store)
	case "p":
		m.active = false
		m.detailOpen = false
		m.store.SetProject(nil)
		m.refreshBoard()
		return m, m.openGate(true)
	case "r":
		// r restores in the archive view.
		if m.view == viewArchive {
			break
		}
		m.loading = true
		return m, loadCardsCmd(m.store)
	case "n":
		if m.view == viewArchive {
			return m, nil
		}
		col := model.ColumnTodo
		if m.view == viewBoard && m.sel.Col >= 0 && m.sel.Col < len(m.shown.Columns) {
			col = m.shown.Columns[m.sel.Col].Column
		}
		return m.openForm(detail.NewForm(col))
	}

	if m.detailOpen {
		return m.updateDetail(msg)
	}
	switch m.view {
	case viewCalendar:
		return m.updateCalendar(msg)
	case viewArchive:
		return m.updateArchive(msg)
	default:
		return m.updateBoard(msg)
	}
}

func (m appModel) updateGate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.gateModal.step == gateStepPick {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "r":
			if m.gateModal.loading || m.gateModal.busy {
				return m, nil
			}
			m.gateModal.loading = true
			m.gateModal.err = ""
			return m, loadProjectsCmd(m.gate, m.gateModal.switching)
		}
	}
	id, pin, cmd := m.gateModal.update(msg)
	if id != "" {
		return m, verifyCmd(m.gate, id, pin)
	}
	return m, cmd
}

func (m appModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filter.Blur()
		m.filter.SetValue("")
		m.applyFilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m appModel) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.sel = m.shown.MoveFocus(m.sel, -1, 0)
	case "l", "right":
		m.sel = m.shown.MoveFocus(m.sel, 1, 0)
	case "k", "up":
		m.sel = m.shown.MoveFocus(m.sel, 0, -1)
	case "j", "down":
		m.sel = m.shown.MoveFocus(m.sel, 0, 1)
	case "H", "shift+left":
		return m.moveSelected(-1)
	case "L", "shift+right":
		return m.moveSelected(1)
	case "/":
		m.filtering = true
		m.filter.Focus()
	case "esc":
		if m.filter.Value() != "" {
			m.filter.SetValue("")
			m.applyFilter()
		}
	case "enter":
		c, ok := m.selectedCard()
		if !ok {
			return m, nil
		}
		return m, m.fetchCard(c.ID, false)
	}
	return m, nil
}

// moveSelected is the keyboard drop: the selected card lands one lane over.
func (m appModel) moveSelected(dir int) (tea.Model, tea.Cmd) {
	c, ok := m.selectedCard()
	if !ok {
		return m, nil
	}
	dest := statusutil.Neighbor(c.Column, dir)
	if dest == c.Column {
		return m, nil
	}
	m.sel.CardID = c.ID
	return m, moveCmd(m.store, c.ID, dest)
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.detailCard
	v := detail.Detail(c, m.today())
	switch msg.String() {
	case "esc", "enter":
		m.detailOpen = false
		m.fetchID = 0
	case "e":
		return m, m.fetchCard(c.ID, true)
	case "A":
		if !v.Can(detail.ActionArchive) {
			return m, m.setFlash("Only done cards can be archived", true)
		}
		m.openConfirm(confirmState{
			action: confirmArchive, cardID: c.ID, title: "Archive card",
			body: fmt.Sprintf("Archive %q?", c.Title), label: "Archive",
		})
	case "D":
		m.openConfirm(confirmState{
			action: confirmDelete, cardID: c.ID, title: "Delete card",
			body: fmt.Sprintf("Delete %q permanently?", c.Title), label: "Delete",
		})
	}
	return m, nil
}

func (m appModel) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.cal = m.cal.Prev()
	case "l", "right":
		m.cal = m.cal.Next()
	case "m":
		m.cal = m.cal.WithView(calendar.ViewMonth)
	case "w":
		m.cal = m.cal.WithView(calendar.ViewWeek)
	case "v":
		m.cal = m.cal.Toggle()
	case "t":
		m.cal.Anchor = m.today()
	}
	return m, nil
}

func (m appModel) updateArchive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewBoard
		return m, nil
	case "r":
		if c, ok := m.archive.selected(); ok {
			m.openConfirm(confirmState{
				action: confirmRestore, cardID: c.ID, title: "Restore card",
				body: fmt.Sprintf("Restore %q to Done?", c.Title), label: "Restore",
			})
		}
		return m, nil
	case "d":
		if c, ok := m.archive.selected(); ok {
			m.openConfirm(confirmState{
				action: confirmDelete, cardID: c.ID, title: "Delete card",
				body: fmt.Sprintf("Delete %q permanently?", c.Title), label: "Delete",
			})
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.archive.list, cmd = m.archive.list.Update(msg)
	return m, cmd
}

func (m *appModel) openConfirm(c confirmState) {
	c.focus = confirmFocusConfirm
	m.confirm = c
	m.modal = modalConfirm
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
		m.confirm = confirmState{}
		return m, nil
	case "tab", "shift+tab", "h", "l", "left", "right":
		if m.confirm.focus == confirmFocusConfirm {
			m.confirm.focus = confirmFocusCancel
		} else {
			m.confirm.focus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.runConfirm()
	case "enter":
		if m.confirm.focus == confirmFocusCancel {
			m.modal = modalNone
			m.confirm = confirmState{}
			return m, nil
		}
		return m.runConfirm()
	}
	return m, nil
}

func (m appModel) runConfirm() (tea.Model, tea.Cmd) {
	c := m.confirm
	m.modal = modalNone
	m.confirm = confirmState{}
	switch c.action {
	case confirmArchive:
		m.detailOpen = false
		return m, archiveCmd(m.store, c.cardID)
	case confirmRestore:
		return m, restoreCmd(m.store, c.cardID)
	case confirmDelete:
		m.detailOpen = false
		return m, deleteCmd(m.store, c.cardID, m.view == viewArchive)
	}
	return m, nil
}

func (m appModel) openForm(f detail.Form) (tea.Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}
	m.form = newFormModal(f)
	m.form.resize(m.width)
	m.modal = modalForm
	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.modal = modalNone
		return m, nil
	}
	sub, cmd := m.form.update(msg)
	if !sub.ok {
		return m, cmd
	}
	if m.form.editing() {
		return m, updateCmd(m.store, m.form.id, sub.patch)
	}
	return m, createCmd(m.store, sub.create)
}
