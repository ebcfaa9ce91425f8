package cli

import (
	"kanban-cli/internal/api"
	"kanban-cli/internal/calendar"
	"kanban-cli/internal/gate"
	"kanban-cli/internal/logging"
	"kanban-cli/internal/session"
	"kanban-cli/internal/store"
	"kanban-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

// runTUI starts the interactive client. It logs to the configured file and unlocks into a
// fresh session scope, so every run starts at the project gate.
func runTUI(cmd *cobra.Command, app *App) error {
	cfg := app.cfg
	logger, closer, err := logging.New(logging.Options{
		Level:           cfg.Log.Level,
		File:            cfg.Log.File,
		Prefix:          "tui",
		ReportTimestamp: true,
	})
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closer.Close()

	view, err := calendar.ParseView(cfg.Calendar.View)
	if err != nil {
		return writeErr(cmd, err)
	}

	db, err := session.Open(cmd.Context(), cfg.Session.Path)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer db.Close()
	scope := db.Scope(session.NewScopeID())

	client := api.New(api.Options{BaseURL: cfg.API.URL, Timeout: cfg.API.Timeout, Logger: logger})
	logger.Info("tui start", "api", cfg.API.URL, "scope", scope.ID())

	return tui.Run(tui.Options{
		Store:        store.New(client, logger),
		Gate:         gate.New(client, scope, logger),
		Clock:        app.clock(),
		CalendarView: view,
		Glyphs:       cfg.TUI.Glyphs,
		Logger:       logger,
		Session:      scope,
	})
}
