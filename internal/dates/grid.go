package dates

import (
	"fmt"
	"time"
)

const (
	// MonthCells is the fixed 6x7 month grid size.
	MonthCells = 42
	WeekCells  = 7
)

// Cell is one day slot of a calendar grid.
type Cell struct {
	Date Date
	// InMonth is false for leading/trailing days borrowed from adjacent months.
	InMonth bool
}

// StartOfWeek returns the Sunday on or before d.
func StartOfWeek(d Date) Date {
	return d.AddDays(-int(d.Weekday()))
}

// MonthGrid returns the 42 Sunday-first cells covering anchor's month.
func MonthGrid(anchor Date) []Cell {
	first := Date{Year: anchor.Year, Month: anchor.Month, Day: 1}
	start := StartOfWeek(first)
	cells := make([]Cell, 0, MonthCells)
	for i := 0; i < MonthCells; i++ {
		d := start.AddDays(i)
		cells = append(cells, Cell{Date: d, InMonth: d.Year == anchor.Year && d.Month == anchor.Month})
	}
	return cells
}

// WeekGrid returns the 7 Sunday-first days of the week containing anchor.
func WeekGrid(anchor Date) []Cell {
	start := StartOfWeek(anchor)
	cells := make([]Cell, 0, WeekCells)
	for i := 0; i < WeekCells; i++ {
		cells = append(cells, Cell{Date: start.AddDays(i), InMonth: true})
	}
	return cells
}

// DaysBetween lists every day in [start, end]. An inverted range yields just start.
func DaysBetween(start, end Date) []Date {
	if end.Before(start) {
		return []Date{start}
	}
	n := start.DaysUntil(end)
	out := make([]Date, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, start.AddDays(i))
	}
	return out
}

// DaysWithin is DaysBetween(start, end) clipped to [lo, hi]. An inverted range counts as its
// start day. Work is bounded by the window, not by the length of the range.
func DaysWithin(start, end, lo, hi Date) []Date {
	if end.Before(start) {
		end = start
	}
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	if end.Before(start) {
		return nil
	}
	return DaysBetween(start, end)
}

// MonthLabel renders "January 2024".
func MonthLabel(d Date) string {
	return fmt.Sprintf("%s %d", d.Month, d.Year)
}

// WeekLabel renders the range of a Sunday-first week, collapsing the month name when
// the week stays inside one month:
//
//	Jan 7 – 13, 2024
//	Jan 28 – Feb 3, 2024
//	Dec 31, 2023 – Jan 6, 2024
func WeekLabel(anchor Date) string {
	start := StartOfWeek(anchor)
	end := start.AddDays(WeekCells - 1)
	switch {
	case start.Year != end.Year:
		return fmt.Sprintf("%s, %d – %s, %d", start.Short(), start.Year, end.Short(), end.Year)
	case start.Month != end.Month:
		return fmt.Sprintf("%s – %s, %d", start.Short(), end.Short(), end.Year)
	default:
		return fmt.Sprintf("%s – %d, %d", start.Short(), end.Day, end.Year)
	}
}

// WeekdayHeaders returns Sunday-first short day names.
func WeekdayHeaders() []string {
	out := make([]string, 0, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		out = append(out, wd.String()[:3])
	}
	return out
}

// RangeLabel formats a card's date span for board and detail views.
func RangeLabel(start, end *Date) string {
	hasStart := start != nil && !start.IsZero()
	hasEnd := end != nil && !end.IsZero()
	switch {
	case hasStart && hasEnd && start.Equal(*end):
		return start.Short()
	case hasStart && hasEnd:
		if start.Year != end.Year {
			return fmt.Sprintf("%s, %d – %s, %d", start.Short(), start.Year, end.Short(), end.Year)
		}
		return start.Short() + " – " + end.Short()
	case hasEnd:
		return "due " + end.Short()
	case hasStart:
		return "from " + start.Short()
	default:
		return ""
	}
}
