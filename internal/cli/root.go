package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/mithaq/internal/app"
	"github.com/sadopc/mithaq/internal/clock"
	"github.com/sadopc/mithaq/internal/config"
	"github.com/sadopc/mithaq/internal/logging"
	"github.com/sadopc/mithaq/internal/tui"
)

const Version = "0.3.0"

type options struct {
	configPath string
	dbPath     string
	logLevel   string

	// clock replaces the wall clock in tests.
	clock clock.Clock
}

func Execute() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, badStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "mithaq",
		Short:         "Weekly planner with a pomodoro timer",
		Long:          "mithaq plans the week Saturday to Friday, times focus sessions and keeps a score for every finished week.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/mithaq/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database file (overrides db_path)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (overrides log.level)")

	cmd.AddCommand(
		newTaskCmd(opts),
		newProgressCmd(opts),
		newScoresCmd(opts),
		newRolloverCmd(opts),
		newExportCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mithaq v%s\n", Version)
		},
	}
}

// session is one opened App plus the logger feeding it.
type session struct {
	*app.App
	log      *zap.SugaredLogger
	closeLog func()
}

func (s *session) Close() {
	if err := s.App.Close(); err != nil {
		s.log.Errorw("close app", "error", err)
	}
	s.closeLog()
}

// open loads config, applies flag overrides and builds the App. stderr,
// when set, receives warnings as well as the log file. One-shot sessions
// always use the durable marker since each command is its own process.
func open(opts *options, stderr io.Writer, oneShot bool) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if oneShot {
		cfg.Week.DurableMarker = true
	}

	log, closeLog, err := logging.New(cfg.Log, logging.Options{Stderr: stderr})
	if err != nil {
		return nil, err
	}

	core, err := app.New(cfg, log, app.Options{Clock: opts.clock})
	if err != nil {
		closeLog()
		return nil, err
	}
	return &session{App: core, log: log, closeLog: closeLog}, nil
}

func runTUI(opts *options) error {
	s, err := open(opts, nil, false)
	if err != nil {
		return err
	}
	defer s.Close()

	s.Start()
	s.log.Infow("tui started", "version", Version)

	ui := tui.NewApp(s.App)
	defer ui.Close()

	p := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
