package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"kanban-cli/internal/config"
	"kanban-cli/internal/format"
	"kanban-cli/internal/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// annotationConfigOptional marks commands that run before the --config file exists.
const annotationConfigOptional = "kanban/config-optional"

type App struct {
	ConfigFile string
	Session    string
	APIURL     string
	PrettyJSON bool
	Format     string
	Verbose    bool

	cfg       *config.Config
	log       *log.Logger
	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "kanban",
		Short:        "Kanban board client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  kanban

  # Unlock a project for scripted use
  kanban projects use 3 --pin 1234

  # Print the board
  kanban board --format text

  # Direct card lookup (shortcut for: kanban cards show 42)
  kanban 42
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("KANBAN_CONFIG", ""), "Config file (default: ~/.kanban/config.toml)")
	cmd.PersistentFlags().StringVar(&app.Session, "session", envOr("KANBAN_SESSION", ""), "Session scope holding the unlocked project (default: 'default')")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api-url", "", "Backend base URL (overrides api.url)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("KANBAN_FORMAT", "json"), "Output format (json|edn|text)")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log at the configured log.level instead of warn")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newCardsCmd(app))
	cmd.AddCommand(newBoardCmd(app))
	cmd.AddCommand(newCalendarCmd(app))
	cmd.AddCommand(newArchiveCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newTUICmd(app))

	return cmd
}

// init loads the config and the stderr logger. It runs before every command.
func (app *App) init(cmd *cobra.Command) error {
	file := app.ConfigFile
	if cmd.Annotations[annotationConfigOptional] == "true" && file != "" {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			file = ""
		}
	}
	cfg, err := config.Load(config.LoadOptions{File: file})
	if err != nil {
		return writeErr(cmd, err)
	}
	if u := strings.TrimSpace(app.APIURL); u != "" {
		cfg.API.URL = strings.TrimRight(u, "/")
	}
	app.cfg = cfg

	level := "warn"
	if app.Verbose {
		level = cfg.Log.Level
	}
	logger, closer, err := logging.New(logging.Options{Level: level, W: cmd.ErrOrStderr(), Prefix: "kanban"})
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log, app.logCloser = logger, closer
	return nil
}

func (app *App) close() error {
	if app.logCloser != nil {
		err := app.logCloser.Close()
		app.logCloser = nil
		return err
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), format.Envelope{Data: v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
