// Package calendar projects dual-dated cards onto month and week grids.
package calendar

import (
	"fmt"
	"sort"
	"strings"

	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"
)

type View string

const (
	ViewMonth View = "month"
	ViewWeek  View = "week"
)

func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewMonth, "":
		return ViewMonth, nil
	case ViewWeek:
		return ViewWeek, nil
	default:
		return "", fmt.Errorf("invalid calendar view: %q (want month|week)", s)
	}
}

// State is the calendar's view mode and anchor day.
type State struct {
	View   View       `json:"view"`
	Anchor dates.Date `json:"anchor"`
}

// Next moves forward one month (day clamped to the month length) or seven days.
func (s State) Next() State { return s.shift(1) }

func (s State) Prev() State { return s.shift(-1) }

func (s State) shift(dir int) State {
	if s.View == ViewWeek {
		s.Anchor = s.Anchor.AddDays(7 * dir)
		return s
	}
	s.Anchor = s.Anchor.AddMonths(dir)
	return s
}

// WithView switches mode and keeps the anchor, so only the displayed range changes.
func (s State) WithView(v View) State {
	s.View = v
	return s
}

// Toggle flips between month and week.
func (s State) Toggle() State {
	if s.View == ViewWeek {
		return s.WithView(ViewMonth)
	}
	return s.WithView(ViewWeek)
}

func (s State) Label() string {
	if s.View == ViewWeek {
		return dates.WeekLabel(s.Anchor)
	}
	return dates.MonthLabel(s.Anchor)
}

// Position tags a card's block within a multi-day bar.
type Position string

const (
	PosSingle Position = "single"
	PosStart  Position = "start"
	PosEnd    Position = "end"
	PosSpan   Position = "span"
)

type Block struct {
	CardID   int64         `json:"card_id"`
	Title    string        `json:"title"`
	Icon     string        `json:"icon"`
	Badge    string        `json:"badge"`
	Column   model.Column  `json:"column"`
	Position Position      `json:"position"`
	Urgency  dates.Urgency `json:"urgency"`
}

type Day struct {
	Date    dates.Date `json:"date"`
	Key     string     `json:"key"`
	InMonth bool       `json:"in_month"`
	Today   bool       `json:"today"`
	Blocks  []Block    `json:"blocks"`
}

type Grid struct {
	View    View     `json:"view"`
	Label   string   `json:"label"`
	Headers []string `json:"headers"`
	Days    []Day    `json:"days"`
}

// Weeks splits the grid into Sunday-first rows.
func (g Grid) Weeks() [][]Day {
	var out [][]Day
	for i := 0; i < len(g.Days); i += dates.WeekCells {
		end := i + dates.WeekCells
		if end > len(g.Days) {
			end = len(g.Days)
		}
		out = append(out, g.Days[i:end])
	}
	return out
}

// Build renders s into a grid: 42 days for month view, 7 for week view.
func Build(s State, cards []model.Card, today dates.Date) Grid {
	var cells []dates.Cell
	if s.View == ViewWeek {
		cells = dates.WeekGrid(s.Anchor)
	} else {
		cells = dates.MonthGrid(s.Anchor)
	}
	placed := map[string][]Block{}
	if len(cells) > 0 {
		placed = Place(cards, today, cells[0].Date, cells[len(cells)-1].Date)
	}
	g := Grid{View: s.View, Label: s.Label(), Headers: dates.WeekdayHeaders(), Days: make([]Day, 0, len(cells))}
	if g.View == "" {
		g.View = ViewMonth
	}
	for _, c := range cells {
		key := c.Date.Key()
		g.Days = append(g.Days, Day{
			Date:    c.Date,
			Key:     key,
			InMonth: c.InMonth,
			Today:   c.Date.Equal(today),
			Blocks:  placed[key],
		})
	}
	return g
}

// Place buckets a block for every day in [start, end] of each dual-dated card that falls inside
// the window [first, last]. Cards with only one date are skipped; an inverted range is placed
// once, as single, on its start day. Positions are relative to the card's own range, so a bar
// cut by the window edge keeps its span tag.
func Place(cards []model.Card, today, first, last dates.Date) map[string][]Block {
	spanning := make([]model.Card, 0, len(cards))
	for _, c := range cards {
		if c.HasSpan() && !c.Archived() {
			spanning = append(spanning, c)
		}
	}
	// Earlier bars first so multi-day runs line up across cells.
	sort.SliceStable(spanning, func(i, j int) bool {
		if cmp := spanning[i].StartDate.Compare(*spanning[j].StartDate); cmp != 0 {
			return cmp < 0
		}
		return spanning[i].ID < spanning[j].ID
	})

	out := map[string][]Block{}
	for _, c := range spanning {
		start, end := *c.StartDate, *c.EndDate
		urgency := dates.Classify(c.EndDate, today)
		for _, d := range dates.DaysWithin(start, end, first, last) {
			out[d.Key()] = append(out[d.Key()], Block{
				CardID:   c.ID,
				Title:    c.Title,
				Icon:     c.IssueType.Icon(),
				Badge:    c.Priority.Icon(),
				Column:   model.NormalizeColumn(string(c.Column)),
				Position: PositionOf(d, start, end),
				Urgency:  urgency,
			})
		}
	}
	return out
}

// PositionOf tags day within [start, end].
func PositionOf(day, start, end dates.Date) Position {
	switch {
	case !end.After(start):
		return PosSingle
	case day.Equal(start):
		return PosStart
	case day.Equal(end):
		return PosEnd
	default:
		return PosSpan
	}
}
