package tui

import (
	"io"
	"time"

	"kanban-cli/internal/board"
	"kanban-cli/internal/calendar"
	"kanban-cli/internal/dates"
	"kanban-cli/internal/gate"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const defaultFlashTTL = 2500 * time.Millisecond

// Options wires the app to its collaborators.
type Options struct {
	Store *store.Store
	Gate  *gate.Gate
	Clock dates.Clock
	// CalendarView is the initial calendar mode (month when empty).
	CalendarView calendar.View
	Glyphs       string
	Logger       *log.Logger
	// Session is ended when the program exits.
	Session SessionEnder
}

type appModel struct {
	store *store.Store
	gate  *gate.Gate
	clock dates.Clock
	log   *log.Logger

	width  int
	height int

	view    view
	modal   modalKind
	project model.Project
	active  bool

	// board is the full projection; shown is board after the filter.
	board     board.Board
	shown     board.Board
	sel       board.Selection
	filter    textinput.Model
	filtering bool
	loading   bool

	cal calendar.State

	detailOpen bool
	detailID   int64
	detailCard model.Card

	// fetchID is the card whose fresh copy is in flight; replies for any other card are dropped.
	fetchID   int64
	fetchEdit bool

	gateModal gateModal
	form      formModal
	confirm   confirmState
	archive   archiveView

	flash    string
	flashErr bool
	flashSeq int
	flashTTL time.Duration
}

func newAppModel(opts Options) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	clock := opts.Clock
	cv := opts.CalendarView
	if cv == "" {
		cv = calendar.ViewMonth
	}
	filter := textinput.New()
	filter.Prompt = "/"
	filter.Placeholder = "filter by title"
	filter.Cursor.SetMode(cursor.CursorStatic)

	m := appModel{
		store:     opts.Store,
		gate:      opts.Gate,
		clock:     clock,
		log:       logger,
		width:     100,
		height:    30,
		modal:     modalGate,
		filter:    filter,
		cal:       calendar.State{View: cv, Anchor: clock.Today()},
		gateModal: newGateModal(),
		archive:   newArchiveView(),
		flashTTL:  defaultFlashTTL,
	}
	m.resize()
	return m
}

// Init resumes a stored project; the gate opens only when there is none.
func (m appModel) Init() tea.Cmd {
	return resumeCmd(m.gate)
}

func (m appModel) today() dates.Date { return m.clock.Today() }

// refreshBoard rebuilds the projections from the store cache and keeps the selection on the
// same card when it still exists.
func (m *appModel) refreshBoard() {
	m.board = board.Build(m.store.Cards(), m.today())
	m.applyFilter()
	if m.detailOpen {
		if _, ok := m.store.Card(m.detailID); !ok {
			m.detailOpen = false
			m.detailID = 0
		}
	}
}

func (m *appModel) applyFilter() {
	m.shown = m.board.Filter(m.filter.Value())
	m.sel = m.shown.Clamp(m.sel)
}

func (m appModel) selectedCard() (model.Card, bool) {
	cv, ok := m.shown.Selected(m.sel)
	if !ok {
		return model.Card{}, false
	}
	return m.store.Card(cv.ID)
}

// fetchCard asks the backend for the current copy of a card. The reply opens the detail panel,
// or the edit form when edit is set.
func (m *appModel) fetchCard(id int64, edit bool) tea.Cmd {
	m.fetchID = id
	m.fetchEdit = edit
	return getCardCmd(m.store, id, edit)
}

func (m *appModel) refetchDetail() tea.Cmd {
	if !m.detailOpen {
		return nil
	}
	return m.fetchCard(m.detailID, false)
}

func (m *appModel) setFlash(text string, isErr bool) tea.Cmd {
	m.flashSeq++
	m.flash = text
	m.flashErr = isErr
	return flashCmd(m.flashSeq, m.flashTTL)
}

func (m *appModel) openGate(switching bool) tea.Cmd {
	m.modal = modalGate
	m.gateModal = newGateModal()
	m.gateModal.switching = switching
	m.gateModal.resize(m.width, m.height)
	return loadProjectsCmd(m.gate, switching)
}

// activate makes p the working project and starts a card load.
func (m *appModel) activate(p model.Project) tea.Cmd {
	m.project = p
	m.active = true
	m.store.SetProject(&p)
	m.view = viewBoard
	m.detailOpen = false
	m.sel = board.Selection{}
	m.filter.SetValue("")
	m.filtering = false
	m.refreshBoard()
	m.loading = true
	return loadCardsCmd(m.store)
}

func (m *appModel) resize() {
	m.gateModal.resize(m.width, m.height)
	if m.modal == modalForm {
		m.form.resize(m.width)
	}
	m.archive.list.SetSize(m.width, m.bodyHeight())
	m.filter.Width = m.width / 2
}

// bodyHeight is what remains after the header, footer and flash lines.
func (m appModel) bodyHeight() int {
	h := m.height - 4
	if h < 6 {
		h = 6
	}
	return h
}
