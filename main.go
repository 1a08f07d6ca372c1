// pomodone is a terminal pomodoro timer with task tracking and productivity stats.
package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sadopc/pomodone/internal/config"
	"github.com/sadopc/pomodone/internal/logging"
	"github.com/sadopc/pomodone/internal/pomodoro"
	"github.com/sadopc/pomodone/internal/stats"
	"github.com/sadopc/pomodone/internal/store"
	"github.com/sadopc/pomodone/internal/tui"
)

var (
	version = "0.1.0"
	cfgFile string
)

// environment is what every command needs once flags are parsed.
type environment struct {
	cfgPath string
	cfg     *config.Config
	logger  *zap.Logger
	level   zap.AtomicLevel
	store   *store.Store
}

var env environment

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pomodone",
	Short: "Pomodoro timer with tasks and productivity stats",
	Long: `pomodone runs focus sessions in classic (25/5/15 x4), intense (50/10/30 x2)
or custom mode, records every completed focus interval, and tracks tasks
with due dates so it can report a daily productivity score.

Run without a command to open the terminal UI.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
	RunE:               runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/pomodone/config.yaml)")
}

// setup loads the config, builds the logger and opens the database.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations["skipSetup"] == "true" {
		return nil
	}

	path := cfgFile
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, warnings, err := config.Load(path)
	if err != nil {
		return err
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		return fmt.Errorf("invalid config %s: %w", path, errors.Join(errs...))
	}

	logger, level, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Info(w, zap.String("config", path))
	}

	s, err := store.New(cfg.Database.Path)
	if err != nil {
		logger.Error("open database", zap.String("path", cfg.Database.Path), zap.Error(err))
		return fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("database opened", zap.String("path", cfg.Database.Path))

	env = environment{cfgPath: path, cfg: cfg, logger: logger, level: level, store: s}
	return nil
}

func teardown(*cobra.Command, []string) error {
	if env.store != nil {
		env.store.Close()
	}
	if env.logger != nil {
		_ = env.logger.Sync()
	}
	return nil
}

// newEngine builds an engine that records into the store. With the alarm
// disabled sessions switch as soon as the countdown reaches zero.
func newEngine(e environment, alarm pomodoro.Alarm) *pomodoro.Engine {
	opts := []pomodoro.Option{
		pomodoro.WithRecorder(e.store),
		pomodoro.WithLogger(e.logger.Named("engine")),
	}
	if e.cfg.Alarm.Enabled {
		opts = append(opts, pomodoro.WithAlarm(alarm, e.cfg.Alarm.Duration))
	}
	return pomodoro.New(opts...)
}

// configureEngine restores the stored timer mode. Custom mode needs a saved
// preset and falls back to classic without one.
func configureEngine(e *pomodoro.Engine, s *store.Store, logger *zap.Logger) error {
	mode, err := s.TimerMode()
	if err != nil {
		return err
	}
	return applyMode(e, s, mode, logger)
}

func applyMode(e *pomodoro.Engine, s *store.Store, mode pomodoro.Mode, logger *zap.Logger) error {
	if mode != pomodoro.ModeCustom {
		return e.SelectMode(mode)
	}
	preset, err := s.LatestPreset()
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn("custom mode without a saved preset, using classic")
		return e.SelectMode(pomodoro.ModeClassic)
	}
	if err != nil {
		return err
	}
	return e.ApplyCustomSettings(preset.Input())
}

// watchConfig applies log level changes from the config file while running.
func watchConfig(e environment) {
	if _, err := os.Stat(e.cfgPath); err != nil {
		return
	}
	err := config.Watch(e.cfgPath, func(cfg *config.Config, err error) {
		if err != nil {
			e.logger.Warn("config reload rejected", zap.Error(err))
			return
		}
		if err := logging.SetLevel(e.level, cfg.Log.Level); err != nil {
			e.logger.Warn("config reload: bad log level", zap.Error(err))
			return
		}
		e.logger.Info("config reloaded", zap.String("log_level", cfg.Log.Level))
	})
	if err != nil {
		e.logger.Warn("config watch disabled", zap.Error(err))
	}
}

func runTUI(*cobra.Command, []string) error {
	engine := newEngine(env, pomodoro.SilentAlarm{})
	if err := configureEngine(engine, env.store, env.logger); err != nil {
		return err
	}
	watchConfig(env)

	app := tui.NewApp(tui.Options{
		Store:  env.store,
		Engine: engine,
		Loader: stats.NewLoader(env.store, env.logger.Named("stats")),
		Logger: env.logger.Named("tui"),
		Bell:   env.cfg.Alarm.Enabled && env.cfg.Alarm.Bell,
	})

	env.logger.Info("starting tui", zap.String("mode", engine.Mode().String()))
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
