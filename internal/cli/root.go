package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tododash/internal/api"
	"github.com/idilsaglam/tododash/internal/chart"
	"github.com/idilsaglam/tododash/internal/config"
	"github.com/idilsaglam/tododash/internal/logging"
	"github.com/idilsaglam/tododash/internal/state"
	"github.com/idilsaglam/tododash/internal/syncer"
	"github.com/idilsaglam/tododash/internal/tui"
	"github.com/idilsaglam/tododash/internal/ui"
)

// App carries root flags and the resolved configuration.
type App struct {
	ConfigPath string
	Server     string
	Timeout    time.Duration
	Theme      string
	LogLevel   string
	LogFile    string
	NoColor    bool

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Terminal dashboard for a todo service",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive dashboard
  todo

  # Scriptable commands
  todo ls
  todo add "Buy milk" --category Errand --priority 2
  todo toggle 6f1c2a4e-...
  todo stats
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.resolve(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: user config dir)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", config.DefaultServer, "Todo service base URL (env TODO_SERVER)")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", config.DefaultTimeout, "Per-request timeout (env TODO_TIMEOUT)")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", config.DefaultTheme, "Color theme (classic|neon|mono)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", "", "Log file used by the dashboard (default: todo.log in the temp dir)")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colors (env NO_COLOR)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newStatsCmd(app))

	return cmd
}

// resolve layers flags the user actually set over file and env config.
func (app *App) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.Server = app.Server
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.Duration{Duration: app.Timeout}
	}
	if flags.Changed("theme") {
		cfg.Theme = app.Theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = app.LogLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = app.LogFile
	}
	if flags.Changed("no-color") {
		cfg.NoColor = app.NoColor
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ui.SetTheme(cfg.Theme)
	ui.SetColor(!cfg.NoColor)
	app.cfg = cfg
	return nil
}

func (app *App) logger(w io.Writer) *log.Logger {
	opts := logging.DefaultOptions()
	opts.Level = app.cfg.LogLevel
	return logging.New(w, opts)
}

// controller wires client, store and chart board for one command run.
func (app *App) controller(logger *log.Logger, r chart.Renderer) (*syncer.Controller, *chart.Board, error) {
	client, err := api.New(app.cfg.Server, api.WithTimeout(app.cfg.Timeout.Duration))
	if err != nil {
		return nil, nil, err
	}
	var board *chart.Board
	var charts syncer.ChartRefresher
	if r != nil {
		board = chart.NewBoard(r)
		charts = board
	}
	return syncer.New(client, state.New(), charts, logger), board, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	f, err := logging.OpenFile(app.cfg.LogFile)
	if err != nil {
		return err
	}
	defer f.Close()

	term := chart.NewTerminal(40)
	ctrl, board, err := app.controller(app.logger(f), term)
	if err != nil {
		return err
	}
	defer board.Close()

	return tui.Run(cmd.Context(), ctrl, term)
}
