package tui

import (
	"kanban-cli/internal/model"
)

type view int

const (
	viewBoard view = iota
	viewCalendar
	viewArchive
)

func (v view) String() string {
	switch v {
	case viewCalendar:
		return "Calendar"
	case viewArchive:
		return "Archive"
	default:
		return "Board"
	}
}

type modalKind int

const (
	modalNone modalKind = iota
	modalGate
	modalForm
	modalConfirm
)

// Messages returned by commands. Each carries its own error so the update loop decides how to
// surface it.

type resumeMsg struct {
	project model.Project
	ok      bool
	err     error
}

type projectsLoadedMsg struct {
	projects []model.Project
	err      error
}

type verifiedMsg struct {
	project model.Project
	err     error
}

type cardsLoadedMsg struct {
	err error
}

type mutationDoneMsg struct {
	notice string
	err    error
	// archive is set when the mutation came from the archive view, which then refreshes its list.
	archive bool
}

type cardFetchedMsg struct {
	id   int64
	card model.Card
	edit bool
	err  error
}

type formSavedMsg struct {
	notice string
	err    error
}

type archivedLoadedMsg struct {
	cards []model.Card
	err   error
}

type flashDoneMsg struct{ seq int }
