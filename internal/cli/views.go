package cli

import (
	"strings"

	"kanban-cli/internal/board"
	"kanban-cli/internal/calendar"
	"kanban-cli/internal/dates"
	"kanban-cli/internal/model"
	"kanban-cli/internal/store"
	"kanban-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var (
		filter string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Print the board of the unlocked project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				cards, err := s.Load(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				b := board.Build(cards, app.clock().Today()).Filter(filter)
				return writeOut(cmd, app, textResult{v: b, text: func() string { return tui.BoardText(b, width) }})
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only cards whose title fuzzy-matches")
	cmd.Flags().IntVar(&width, "width", 120, "Text output width")
	return cmd
}

func newCalendarCmd(app *App) *cobra.Command {
	var (
		view  string
		date  string
		width int
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the month or week calendar of dated cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("view") {
				view = app.cfg.Calendar.View
			}
			v, err := calendar.ParseView(view)
			if err != nil {
				return writeErr(cmd, err)
			}
			today := app.clock().Today()
			anchor := today
			if strings.TrimSpace(date) != "" {
				if anchor, err = dates.ParseDate(date); err != nil {
					return writeErr(cmd, err)
				}
			}
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				cards, err := s.Load(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				g := calendar.Build(calendar.State{View: v, Anchor: anchor}, cards, today)
				return writeOut(cmd, app, textResult{v: g, text: func() string { return tui.CalendarText(g, width) }})
			})
		},
	}
	cmd.Flags().StringVar(&view, "view", "month", "month|week (default from calendar.view)")
	cmd.Flags().StringVar(&date, "date", "", "Day inside the month/week to show (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&width, "width", 120, "Text output width")
	return cmd
}
