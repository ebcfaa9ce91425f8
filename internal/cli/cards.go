package cli

import (
	"errors"
	"fmt"
	"strings"

	"kanban-cli/internal/dates"
	"kanban-cli/internal/detail"
	"kanban-cli/internal/model"
	"kanban-cli/internal/statusutil"
	"kanban-cli/internal/store"
	"kanban-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newCardsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cards",
		Aliases: []string{"card"},
		Short:   "Card commands (scoped to the unlocked project)",
	}
	cmd.AddCommand(newCardsListCmd(app))
	cmd.AddCommand(newCardsShowCmd(app))
	cmd.AddCommand(newCardsCreateCmd(app))
	cmd.AddCommand(newCardsUpdateCmd(app))
	cmd.AddCommand(newCardsMoveCmd(app))
	cmd.AddCommand(newCardsArchiveCmd(app))
	cmd.AddCommand(newCardsRestoreCmd(app))
	cmd.AddCommand(newCardsDeleteCmd(app))
	return cmd
}

func newCardsListCmd(app *App) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cards (archived cards only with --column archive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var col model.Column
			if strings.TrimSpace(column) != "" {
				c, err := statusutil.ParseColumn(column)
				if err != nil {
					return writeErr(cmd, err)
				}
				col = c
			}
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				var (
					cards []model.Card
					err   error
				)
				if col == model.ColumnArchive {
					cards, err = s.Archived(cmd.Context())
				} else {
					cards, err = s.Load(cmd.Context())
				}
				if err != nil {
					return writeErr(cmd, err)
				}
				if col != "" && col != model.ColumnArchive {
					cards = store.GroupByColumn(cards)[col]
				}
				return writeOut(cmd, app, cardsResult(cards))
			})
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "Only cards in this column (todo|inprogress|done|archive)")
	return cmd
}

func newCardsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <card-id>",
		Short: "Show one card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				c, err := s.Get(cmd.Context(), id)
				if err != nil {
					return writeErr(cmd, cardErr(id, err))
				}
				return writeOut(cmd, app, cardResult(c, app.clock().Today()))
			})
		},
	}
}

// cardFlags are the create/update inputs. Update only sends flags that were given.
type cardFlags struct {
	title, description, issueType, priority string
	assignee, label, gitIssue, column       string
	start, end                              string
}

func (f *cardFlags) register(cmd *cobra.Command, create bool) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Card title")
	fl.StringVar(&f.description, "description", "", "Description (markdown)")
	fl.StringVar(&f.assignee, "assignee", "", "Assignee")
	fl.StringVar(&f.label, "label", "", "Label")
	fl.StringVar(&f.gitIssue, "git-issue", "", "Linked git issue (e.g. #123)")
	fl.StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	fl.StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	if create {
		fl.StringVar(&f.issueType, "type", string(model.IssueTask), "Issue type (story|task|bug)")
		fl.StringVar(&f.priority, "priority", string(model.PriorityMedium), "Priority (highest|high|medium|low|lowest)")
		fl.StringVar(&f.column, "column", string(model.ColumnTodo), "Column (todo|inprogress|done)")
		return
	}
	fl.StringVar(&f.issueType, "type", "", "Issue type (story|task|bug)")
	fl.StringVar(&f.priority, "priority", "", "Priority (highest|high|medium|low|lowest)")
	fl.StringVar(&f.column, "column", "", "Column (todo|inprogress|done)")
}

func (f cardFlags) form() detail.Form {
	return detail.Form{
		Title:       f.title,
		Description: f.description,
		IssueType:   f.issueType,
		Priority:    f.priority,
		Assignee:    f.assignee,
		Label:       f.label,
		GitIssue:    f.gitIssue,
		Column:      f.column,
		StartDate:   f.start,
		EndDate:     f.end,
	}
}

// patch builds a CardPatch from the flags the user actually passed.
func (f cardFlags) patch(cmd *cobra.Command) (model.CardPatch, error) {
	var p model.CardPatch
	changed := cmd.Flags().Changed
	str := func(name, v string) *string {
		if !changed(name) {
			return nil
		}
		s := strings.TrimSpace(v)
		return &s
	}
	p.Title = str("title", f.title)
	p.Description = str("description", f.description)
	p.Assignee = str("assignee", f.assignee)
	p.Label = str("label", f.label)
	p.GitIssue = str("git-issue", f.gitIssue)

	if changed("type") {
		t, err := statusutil.ParseIssueType(f.issueType)
		if err != nil {
			return p, &model.FieldError{Field: detail.FieldIssueType, Message: err.Error()}
		}
		p.IssueType = &t
	}
	if changed("priority") {
		pr, err := statusutil.ParsePriority(f.priority)
		if err != nil {
			return p, &model.FieldError{Field: detail.FieldPriority, Message: err.Error()}
		}
		p.Priority = &pr
	}
	if changed("column") {
		c, err := statusutil.ParseBoardColumn(f.column)
		if err != nil {
			return p, &model.FieldError{Field: detail.FieldColumn, Message: err.Error()}
		}
		p.Column = &c
	}
	for _, d := range []struct {
		flag, field, v string
		dst            **dates.Date
	}{
		{"start", detail.FieldStartDate, f.start, &p.StartDate},
		{"end", detail.FieldEndDate, f.end, &p.EndDate},
	} {
		if !changed(d.flag) || strings.TrimSpace(d.v) == "" {
			continue
		}
		v, err := dates.ParseDate(d.v)
		if err != nil {
			return p, &model.FieldError{Field: d.field, Message: fmt.Sprintf("invalid date %q (want YYYY-MM-DD)", d.v)}
		}
		*d.dst = &v
	}
	return p, nil
}

func newCardsCreateCmd(app *App) *cobra.Command {
	var f cardFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := f.form().Fields()
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				c, err := s.Create(cmd.Context(), fields)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, cardResult(c, app.clock().Today()))
			})
		},
	}
	f.register(cmd, true)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newCardsUpdateCmd(app *App) *cobra.Command {
	var f cardFlags

	cmd := &cobra.Command{
		Use:   "update <card-id>",
		Short: "Update the given fields of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := f.patch(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				c, err := s.Update(cmd.Context(), id, p)
				if err != nil {
					return writeErr(cmd, cardErr(id, err))
				}
				return writeOut(cmd, app, cardResult(c, app.clock().Today()))
			})
		},
	}
	f.register(cmd, false)
	return cmd
}

func newCardsMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <card-id> <column>",
		Short: "Move a card to todo, inprogress or done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			col, err := statusutil.ParseBoardColumn(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				if err := s.Move(cmd.Context(), id, col); err != nil {
					return writeErr(cmd, cardErr(id, err))
				}
				c, ok := s.Card(id)
				if !ok {
					return writeErr(cmd, errNotFound("card", fmt.Sprint(id)))
				}
				return writeOut(cmd, app, cardResult(c, app.clock().Today()))
			})
		},
	}
}

func newCardsArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <card-id>",
		Short: "Archive a done card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				// Archive checks the cached column, so the cache has to be filled first.
				if _, err := s.Load(cmd.Context()); err != nil {
					return writeErr(cmd, err)
				}
				if err := s.Archive(cmd.Context(), id); err != nil {
					var nl store.CardNotLoadedError
					if errors.As(err, &nl) {
						return writeErr(cmd, errNotFound("card", fmt.Sprint(id)))
					}
					return writeErr(cmd, cardErr(id, err))
				}
				return app.writeCard(cmd, s, id)
			})
		},
	}
}

func newCardsRestoreCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <card-id>",
		Short: "Restore an archived card to done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.restoreCard(cmd, args[0])
		},
	}
}

func newCardsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.deleteCard(cmd, args[0], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	return cmd
}

func (app *App) restoreCard(cmd *cobra.Command, arg string) error {
	id, err := parseCardID(arg)
	if err != nil {
		return writeErr(cmd, err)
	}
	return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
		if err := s.Restore(cmd.Context(), id); err != nil {
			return writeErr(cmd, cardErr(id, err))
		}
		return app.writeCard(cmd, s, id)
	})
}

func (app *App) deleteCard(cmd *cobra.Command, arg string, yes bool) error {
	id, err := parseCardID(arg)
	if err != nil {
		return writeErr(cmd, err)
	}
	if !yes {
		return writeErr(cmd, confirmRequiredError{action: "delete", id: id})
	}
	return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
		if err := s.Delete(cmd.Context(), id); err != nil {
			return writeErr(cmd, cardErr(id, err))
		}
		return writeOut(cmd, app, map[string]any{"id": id, "deleted": true})
	})
}

// writeCard fetches id fresh and prints it.
func (app *App) writeCard(cmd *cobra.Command, s *store.Store, id int64) error {
	c, err := s.Get(cmd.Context(), id)
	if err != nil {
		return writeErr(cmd, cardErr(id, err))
	}
	return writeOut(cmd, app, cardResult(c, app.clock().Today()))
}

func cardResult(c model.Card, today dates.Date) textResult {
	return textResult{v: c, text: func() string { return tui.DetailText(detail.Detail(c, today), 80) }}
}

func cardsResult(cards []model.Card) textResult {
	if cards == nil {
		cards = []model.Card{}
	}
	return textResult{v: cards, text: func() string { return cardsText(cards) }}
}
