package store

import (
	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"
)

// GroupByColumn buckets cards into the board columns, keeping their incoming order. Archived
// cards and unknown columns are dropped.
func GroupByColumn(cards []model.Card) map[model.Column][]model.Card {
	out := make(map[model.Column][]model.Card, len(model.BoardColumns))
	for _, col := range model.BoardColumns {
		out[col] = nil
	}
	for _, c := range cards {
		col := model.NormalizeColumn(string(c.Column))
		if _, ok := out[col]; !ok {
			continue
		}
		out[col] = append(out[col], c)
	}
	return out
}

// GroupByDay indexes dual-dated cards by bucket key for every day in [start, end]. Cards with
// only one date are not placed.
func GroupByDay(cards []model.Card) map[string][]model.Card {
	out := map[string][]model.Card{}
	for _, c := range cards {
		if !c.HasSpan() {
			continue
		}
		for _, d := range dates.DaysBetween(*c.StartDate, *c.EndDate) {
			out[d.Key()] = append(out[d.Key()], c)
		}
	}
	return out
}
