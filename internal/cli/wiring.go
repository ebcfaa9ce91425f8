package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"kanban-cli/internal/api"
	"kanban-cli/internal/dates"
	"kanban-cli/internal/gate"
	"kanban-cli/internal/model"
	"kanban-cli/internal/session"
	"kanban-cli/internal/store"
)

func (app *App) client() *api.Client {
	return api.New(api.Options{
		BaseURL: app.cfg.API.URL,
		Timeout: app.cfg.API.Timeout,
		Logger:  app.log,
	})
}

func (app *App) clock() dates.Clock { return dates.NewClock(app.cfg.Timezone) }

// withGate opens the session file for the duration of fn.
func (app *App) withGate(ctx context.Context, fn func(g *gate.Gate) error) error {
	db, err := session.Open(ctx, app.cfg.Session.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(gate.New(app.client(), db.Scope(app.Session), app.log))
}

// withStore resolves the unlocked project of the session and hands fn a store bound to it.
func (app *App) withStore(ctx context.Context, fn func(s *store.Store, p model.Project) error) error {
	return app.withGate(ctx, func(g *gate.Gate) error {
		p, ok, err := g.Resume(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return noProjectError{}
		}
		s := store.New(app.client(), app.log)
		s.SetProject(&p)
		return fn(s, p)
	})
}

func parseCardID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid card id: %q", s)
	}
	return id, nil
}
