package cli

import (
	"kanban-cli/internal/gate"
	"kanban-cli/internal/model"

	"github.com/spf13/cobra"
)

func newProjectsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(newProjectsListCmd(app))
	cmd.AddCommand(newProjectsUseCmd(app))
	cmd.AddCommand(newProjectsCurrentCmd(app))
	cmd.AddCommand(newProjectsSwitchCmd(app))
	return cmd
}

func newProjectsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withGate(cmd.Context(), func(g *gate.Gate) error {
				ps, err := g.Projects(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, projectsResult(ps))
			})
		},
	}
}

func newProjectsUseCmd(app *App) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "use <project-id>",
		Short: "Unlock a project with its PIN and remember it for this session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withGate(cmd.Context(), func(g *gate.Gate) error {
				p, err := g.Verify(cmd.Context(), model.ProjectID(args[0]), pin)
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, p)
			})
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "4-digit project PIN")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func newProjectsCurrentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the project unlocked in this session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withGate(cmd.Context(), func(g *gate.Gate) error {
				p, ok, err := g.Resume(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				if !ok {
					return writeErr(cmd, noProjectError{})
				}
				return writeOut(cmd, app, p)
			})
		},
	}
}

func newProjectsSwitchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "switch",
		Short: "Forget the unlocked project and list projects to choose from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withGate(cmd.Context(), func(g *gate.Gate) error {
				ps, err := g.Switch(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, projectsResult(ps))
			})
		},
	}
}

func projectsResult(ps []model.Project) textResult {
	if ps == nil {
		ps = []model.Project{}
	}
	return textResult{v: ps, text: func() string { return projectsText(ps) }}
}
