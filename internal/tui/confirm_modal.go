package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// confirmAction is what a confirmed modal runs.
type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDelete
	confirmArchive
	confirmRestore
)

type confirmState struct {
	action confirmAction
	cardID int64
	title  string
	body   string
	label  string
	focus  confirmModalFocus
}

func renderConfirmModal(width int, c confirmState) string {
	btnBase := lipgloss.NewStyle().Padding(0, 1).Foreground(colorSurfaceFg).Background(colorControlBg)
	btnActive := btnBase.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)

	confirm, cancel := btnBase.Render(c.label), btnBase.Render("Cancel")
	if c.focus == confirmFocusConfirm {
		confirm = btnActive.Render(c.label)
	} else {
		cancel = btnActive.Render("Cancel")
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, " ", cancel)
	help := styleMuted().Width(modalBodyWidth(width)).Render("tab: focus   enter: select   y/n   esc: cancel")

	return renderModalBox(width, c.title, strings.Join([]string{c.body, "", controls, "", help}, "\n"))
}
