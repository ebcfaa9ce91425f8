package cli

import (
	"path/filepath"
	"strings"

	"kanban-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Config file commands",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(app.ConfigFile)
			if path == "" {
				dir, err := config.Dir()
				if err != nil {
					return writeErr(cmd, err)
				}
				path = filepath.Join(dir, config.FileName)
			}
			cfg, err := config.Default()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := cfg.WriteFile(path, force); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"path": path})
		},
	}
	initCmd.Annotations = map[string]string{annotationConfigOptional: "true"}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			v := map[string]any{
				"path":     cfg.Path,
				"timezone": cfg.Timezone,
				"api": map[string]any{
					"url":     cfg.API.URL,
					"timeout": cfg.API.Timeout.String(),
				},
				"calendar": map[string]any{"view": cfg.Calendar.View},
				"session":  map[string]any{"path": cfg.Session.Path},
				"log":      map[string]any{"level": cfg.Log.Level, "file": cfg.Log.File},
				"tui":      map[string]any{"glyphs": cfg.TUI.Glyphs},
			}
			return writeOut(cmd, app, textResult{v: v, text: func() string {
				b, err := cfg.TOML()
				if err != nil {
					return err.Error()
				}
				return string(b)
			}})
		},
	})

	return cmd
}
