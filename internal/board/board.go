// Package board projects the card cache into the three visible lanes.
package board

import (
	"context"
	"strings"
	"unicode/utf8"

	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	"github.com/sahilm/fuzzy"
)

// ExcerptRunes caps the description shown on a board card.
const ExcerptRunes = 80

// MovedNotice is the notification shown after a successful drop.
const MovedNotice = "Card moved"

// CardView is everything a lane needs to draw one card.
type CardView struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Column    model.Column    `json:"column"`
	IssueType model.IssueType `json:"issue_type"`
	Icon      string          `json:"icon"`
	Priority  model.Priority  `json:"priority"`
	Badge     string          `json:"badge"`
	Excerpt   string          `json:"excerpt"`
	Assignee  string          `json:"assignee"`
	GitIssue  string          `json:"git_issue"`
	DateLabel string          `json:"date_label"`
	Urgency   dates.Urgency   `json:"urgency"`
}

type Column struct {
	Column model.Column `json:"column"`
	Label  string       `json:"label"`
	Cards  []CardView   `json:"cards"`
}

type Board struct {
	Columns []Column `json:"columns"`
}

// Build lays cards out into todo / inprogress / done. Archived cards never appear.
func Build(cards []model.Card, today dates.Date) Board {
	groups := store.GroupByColumn(cards)
	b := Board{Columns: make([]Column, 0, len(model.BoardColumns))}
	for _, col := range model.BoardColumns {
		c := Column{Column: col, Label: col.Label()}
		for _, card := range groups[col] {
			c.Cards = append(c.Cards, NewCardView(card, today))
		}
		b.Columns = append(b.Columns, c)
	}
	return b
}

func NewCardView(c model.Card, today dates.Date) CardView {
	return CardView{
		ID:        c.ID,
		Title:     c.Title,
		Column:    model.NormalizeColumn(string(c.Column)),
		IssueType: c.IssueType,
		Icon:      c.IssueType.Icon(),
		Priority:  c.Priority,
		Badge:     c.Priority.Icon(),
		Excerpt:   Excerpt(c.Description, ExcerptRunes),
		Assignee:  strings.TrimSpace(c.Assignee),
		GitIssue:  strings.TrimSpace(c.GitIssue),
		DateLabel: dates.RangeLabel(c.StartDate, c.EndDate),
		Urgency:   dates.Classify(c.EndDate, today),
	}
}

// Excerpt flattens whitespace and truncates s to n runes, marking the cut with an ellipsis.
func Excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimRight(string(r[:n]), " ") + "…"
}

func (b Board) Count() int {
	n := 0
	for _, c := range b.Columns {
		n += len(c.Cards)
	}
	return n
}

// Find returns the lane and row of card id.
func (b Board) Find(id int64) (int, int, bool) {
	for ci := range b.Columns {
		for ri := range b.Columns[ci].Cards {
			if b.Columns[ci].Cards[ri].ID == id {
				return ci, ri, true
			}
		}
	}
	return 0, 0, false
}

// Filter keeps cards whose title fuzzy-matches query. Lanes keep their order; an empty query
// returns b unchanged.
func (b Board) Filter(query string) Board {
	query = strings.TrimSpace(query)
	if query == "" {
		return b
	}
	out := Board{Columns: make([]Column, len(b.Columns))}
	for i, col := range b.Columns {
		out.Columns[i] = Column{Column: col.Column, Label: col.Label}
		titles := make([]string, len(col.Cards))
		for j, c := range col.Cards {
			titles[j] = c.Title
		}
		keep := make([]bool, len(col.Cards))
		for _, m := range fuzzy.Find(query, titles) {
			keep[m.Index] = true
		}
		for j, c := range col.Cards {
			if keep[j] {
				out.Columns[i].Cards = append(out.Columns[i].Cards, c)
			}
		}
	}
	return out
}

// Mover is the store operation a drop needs.
type Mover interface {
	Move(ctx context.Context, id int64, to model.Column) error
}

// Drop handles a card landing on dest: it issues the column update (the store reloads) and
// returns the notification text.
func Drop(ctx context.Context, m Mover, id int64, dest model.Column) (string, error) {
	if err := m.Move(ctx, id, dest); err != nil {
		return "", err
	}
	return MovedNotice, nil
}
