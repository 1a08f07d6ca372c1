package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sadopc/pomodone/internal/config"
	"github.com/sadopc/pomodone/internal/export"
	"github.com/sadopc/pomodone/internal/pomodoro"
	"github.com/sadopc/pomodone/internal/stats"
	"github.com/sadopc/pomodone/internal/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the timer without the UI",
	Long: `Runs focus and break intervals in the terminal until interrupted.
Completed focus intervals are recorded just like in the UI. Ctrl+C stops
the timer; an interval cut short is not recorded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, _ := cmd.Flags().GetString("mode")
		return runHeadless(cmd.Context(), cmd.OutOrStdout(), mode)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's progress and productivity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return runStats(cmd.Context(), cmd.OutOrStdout(), asJSON)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions and tasks",
	Long: `Writes recorded sessions and tasks to a file.
CSV holds one kind of record per file (--kind sessions|tasks); JSON holds both.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		kind, _ := cmd.Flags().GetString("kind")
		out, _ := cmd.Flags().GetString("out")
		path, err := runExport(env.store, format, kind, out, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Exported to", path)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a config file with the default values",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"skipSetup": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := config.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		force, _ := cmd.Flags().GetBool("force")
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.Save(path, config.Default()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c := env.cfg
		fmt.Fprintf(out, "config file:     %s\n", env.cfgPath)
		fmt.Fprintf(out, "database.path:   %s\n", c.Database.Path)
		fmt.Fprintf(out, "log.level:       %s\n", c.Log.Level)
		fmt.Fprintf(out, "log.file:        %s\n", c.Log.File)
		fmt.Fprintf(out, "alarm.enabled:   %t\n", c.Alarm.Enabled)
		fmt.Fprintf(out, "alarm.duration:  %s\n", c.Alarm.Duration)
		fmt.Fprintf(out, "alarm.bell:      %t\n", c.Alarm.Bell)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{"skipSetup": "true"},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "pomodone %s\n", version)
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	runCmd.Flags().String("mode", "", "classic, intense or custom (default: the stored mode)")
	statsCmd.Flags().Bool("json", false, "print machine-readable JSON")
	exportCmd.Flags().String("format", "csv", "csv or json")
	exportCmd.Flags().String("kind", "sessions", "sessions or tasks (csv only)")
	exportCmd.Flags().StringP("out", "o", "", "output file (default pomodone-<kind>-<date>.<format> in the current directory)")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(runCmd, statsCmd, exportCmd, configCmd, versionCmd)
}

// runHeadless drives a Runner until SIGINT or SIGTERM, printing the clock.
func runHeadless(ctx context.Context, out io.Writer, modeFlag string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := newEngine(env, pomodoro.SilentAlarm{})
	if modeFlag != "" {
		m, err := pomodoro.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		if err := applyMode(engine, env.store, m, env.logger); err != nil {
			return err
		}
	} else if err := configureEngine(engine, env.store, env.logger); err != nil {
		return err
	}

	mode := engine.Mode()
	bell := env.cfg.Alarm.Enabled && env.cfg.Alarm.Bell
	runner := pomodoro.NewRunner(engine, pomodoro.DefaultRunnerConfig(), env.logger.Named("runner"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(gctx) })
	g.Go(func() error {
		for u := range runner.Updates() {
			printUpdate(out, u, bell)
		}
		return nil
	})

	if err := runner.Start(gctx); err != nil {
		stop()
		_ = g.Wait()
		return err
	}
	env.logger.Info("headless timer started", zap.String("mode", mode.String()))

	err := g.Wait()
	fmt.Fprintln(out)
	if errors.Is(err, context.Canceled) {
		env.logger.Info("headless timer stopped")
		return nil
	}
	return err
}

// printUpdate is the only writer to out while the timer runs, so the bell is
// rung here rather than by the engine's alarm.
func printUpdate(out io.Writer, u pomodoro.Update, bell bool) {
	snap := u.Snapshot
	if u.Event == nil {
		fmt.Fprintf(out, "\r%s  %-24s", snap.Clock(), snap.StatusText)
		return
	}
	switch u.Event.Kind {
	case pomodoro.EventAlarm:
		if bell {
			io.WriteString(out, "\a")
		}
		fmt.Fprintf(out, "\r%s finished. Time's up!%-10s\n", u.Event.From, "")
	case pomodoro.EventSessionChanged:
		line := fmt.Sprintf("%s started", u.Event.To)
		if c := u.Event.Completed; c != nil {
			line = fmt.Sprintf("Focus recorded (%d min). %s", c.DurationSeconds/60, line)
		}
		fmt.Fprintf(out, "\r%-40s\n", line)
	}
}

func runStats(ctx context.Context, out io.Writer, asJSON bool) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	d, err := stats.NewLoader(env.store, env.logger.Named("stats")).Load(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintf(out, "Today:          %d / %d sessions\n", d.TodaySessions, d.DailyTarget)
	fmt.Fprintf(out, "This week:      %d / %d sessions (from %s)\n", d.WeekSessions, d.WeeklyTarget, d.WeekStartsOn)
	fmt.Fprintf(out, "Active tasks:   %d\n", d.ActiveTasks)
	fmt.Fprintf(out, "Completed:      %d (%d on time)\n", d.CompletedTasks, d.OnTimeTasks)
	fmt.Fprintf(out, "Productivity:   %d%%\n", d.Productivity)
	return nil
}

// runExport writes the requested export and returns the file path.
func runExport(s *store.Store, format, kind, out string, now time.Time) (string, error) {
	date := now.Format("2006-01-02")
	switch format {
	case "csv":
		if out == "" {
			out = filepath.Join(".", fmt.Sprintf("pomodone-%s-%s.csv", kind, date))
		}
		switch kind {
		case "sessions":
			sessions, err := s.ListSessions(store.SessionFilter{})
			if err != nil {
				return "", err
			}
			return out, export.SessionsToCSV(sessions, out)
		case "tasks":
			tasks, err := s.ListTasks(store.TaskFilter{})
			if err != nil {
				return "", err
			}
			return out, export.TasksToCSV(tasks, out)
		}
		return "", fmt.Errorf("unknown export kind %q (sessions or tasks)", kind)

	case "json":
		if out == "" {
			out = filepath.Join(".", fmt.Sprintf("pomodone-export-%s.json", date))
		}
		sessions, err := s.ListSessions(store.SessionFilter{})
		if err != nil {
			return "", err
		}
		tasks, err := s.ListTasks(store.TaskFilter{})
		if err != nil {
			return "", err
		}
		return out, export.ToJSON(sessions, tasks, out)
	}
	return "", fmt.Errorf("unknown export format %q (csv or json)", format)
}
