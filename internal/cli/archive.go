package cli

import (
	"kanban-cli/internal/model"
	"kanban-cli/internal/store"

	"github.com/spf13/cobra"
)

func newArchiveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archived cards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List archived cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withStore(cmd.Context(), func(s *store.Store, _ model.Project) error {
				cards, err := s.Archived(cmd.Context())
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, cardsResult(cards))
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore <card-id>",
		Short: "Restore an archived card to done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.restoreCard(cmd, args[0])
		},
	})

	var yes bool
	del := &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete an archived card permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.deleteCard(cmd, args[0], yes)
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the deletion")
	cmd.AddCommand(del)

	return cmd
}
