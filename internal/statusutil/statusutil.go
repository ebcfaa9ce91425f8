// Package statusutil parses user-typed column, issue type and priority names.
//
// Server data goes through model.NormalizeColumn, which only remaps in_progress. Input typed
// at a prompt or on the command line is more forgiving (case, separators, a few aliases).
package statusutil

import (
	"fmt"
	"strings"

	"kanban-cli/internal/model"
)

func ParseColumn(s string) (model.Column, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "todo":
		return model.ColumnTodo, nil
	case "inprogress", "doing", "wip":
		return model.ColumnInProgress, nil
	case "done":
		return model.ColumnDone, nil
	case "archive", "archived":
		return model.ColumnArchive, nil
	case "":
		return "", fmt.Errorf("invalid column: empty")
	default:
		return "", fmt.Errorf("invalid column: %q (want todo|inprogress|done)", strings.TrimSpace(s))
	}
}

// ParseBoardColumn is ParseColumn restricted to visible lanes (no archive).
func ParseBoardColumn(s string) (model.Column, error) {
	c, err := ParseColumn(s)
	if err != nil {
		return "", err
	}
	if c == model.ColumnArchive {
		return "", fmt.Errorf("invalid column: archive is not a board column (use archive commands)")
	}
	return c, nil
}

func ParseIssueType(s string) (model.IssueType, error) {
	v := model.IssueType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range model.IssueTypes {
		if t == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid issue type: %q (want story|task|bug)", strings.TrimSpace(s))
}

func ParsePriority(s string) (model.Priority, error) {
	v := model.Priority(strings.ToLower(strings.TrimSpace(s)))
	for _, p := range model.Priorities {
		if p == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid priority: %q (want highest|high|medium|low|lowest)", strings.TrimSpace(s))
}

// IsEndState reports whether c is the terminal workflow lane. Only cards here may be archived.
func IsEndState(c model.Column) bool {
	return model.NormalizeColumn(string(c)) == model.ColumnDone
}

// Neighbor returns the visible lane delta steps away from c, clamped to the board edges.
func Neighbor(c model.Column, delta int) model.Column {
	c = model.NormalizeColumn(string(c))
	idx := -1
	for i, col := range model.BoardColumns {
		if col == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		return c
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(model.BoardColumns) {
		idx = len(model.BoardColumns) - 1
	}
	return model.BoardColumns[idx]
}
