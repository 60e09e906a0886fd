package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vanderheijden86/taskman/pkg/config"
	"github.com/vanderheijden86/taskman/pkg/debug"
	"github.com/vanderheijden86/taskman/pkg/metrics"
	"github.com/vanderheijden86/taskman/pkg/model"
	"github.com/vanderheijden86/taskman/pkg/sched"
	"github.com/vanderheijden86/taskman/pkg/ui"
	"github.com/vanderheijden86/taskman/pkg/version"
)

func main() {
	os.Exit(run())
}

// run parses flags and runs the TUI, returning the process exit code. Every
// exit path goes through here so deferred cleanup closes the trace and debug
// files.
func run() int {
	configPath := flag.String("config", "", "Read configuration from this file instead of the XDG default")
	themeFlag := flag.String("theme", "", "Theme to use (light or dark); overrides the config file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	metricsFlag := flag.Bool("metrics", false, "Print timing and cache metrics as JSON to stderr on exit")
	tracePath := flag.String("trace", "", "Write every scheduler event as JSON lines to this file")
	initConfig := flag.Bool("init-config", false, "Write the default config file if none exists, then exit")
	debugFlag := flag.Bool("debug", false, "Write debug logging to debug.log in the state directory (same as TM_DEBUG=1)")
	flag.Parse()

	if *help {
		fmt.Println("Usage: tm [options]")
		fmt.Println("\nA terminal task list with deferred search and optimistic adds.")
		flag.PrintDefaults()
		return 0
	}

	if *versionFlag {
		fmt.Printf("tm %s\n", version.Version)
		return 0
	}

	if *initConfig {
		path, created, err := writeDefaultConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if created {
			fmt.Printf("Wrote %s\n", path)
		} else {
			fmt.Printf("%s already exists\n", path)
		}
		return 0
	}

	cfg, err := loadConfig(*configPath, *themeFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if *tracePath != "" {
		cfg.Scheduler.TracePath = *tracePath
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: tm needs an interactive terminal on stdout")
		return 1
	}

	if *debugFlag {
		debug.SetEnabled(true)
	}
	closeDebug := openDebugLog()
	defer closeDebug()

	s, closeTrace, err := newScheduler(cfg, os.Getenv("TM_SCHED_LOG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeTrace()

	theme := ui.NewTheme(cfg.Theme, nil)
	m := ui.NewModel(ui.Options{
		Config:    cfg,
		Theme:     &theme,
		Scheduler: s,
		IDs:       model.NewCounterFrom(time.Now()),
	})
	defer m.Stop()

	runErr := runTUIProgram(m)

	if *metricsFlag {
		if err := metrics.WriteJSON(os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing metrics: %v\n", err)
		}
	}
	if runErr != nil {
		fmt.Printf("Error running task manager: %v\n", runErr)
		return 1
	}
	return 0
}

// loadConfig reads path (or the XDG default when empty) and applies the
// theme override.
func loadConfig(path, theme string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}

	if theme != "" {
		cfg.Theme = strings.ToLower(strings.TrimSpace(theme))
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("--theme: %w", err)
		}
	}
	return cfg, nil
}

// writeDefaultConfig saves DefaultConfig to path (or the XDG default) unless a
// file is already there.
func writeDefaultConfig(path string) (string, bool, error) {
	if path == "" {
		path = config.ConfigPath()
	}
	if path == "" {
		return "", false, errors.New("no config directory available")
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := config.SaveTo(config.DefaultConfig(), path); err != nil {
		return path, false, err
	}
	return path, true, nil
}

// openDebugLog sends TM_DEBUG output to debug.log in the state directory,
// since stderr is hidden behind the alt screen.
func openDebugLog() func() {
	if !debug.Enabled() {
		return func() {}
	}
	dir := config.StateDir()
	if dir == "" {
		return func() {}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return func() {}
	}
	debug.SetOutput(f)
	debug.Log("tm %s starting", version.Version)
	return func() {
		debug.SetOutput(os.Stderr)
		_ = f.Close()
	}
}

// newScheduler builds the scheduler from cfg. envLevel, when set, overrides
// the configured log level. Leveled events reach the debug log only while
// TM_DEBUG is on so they never draw over the TUI.
func newScheduler(cfg config.Config, envLevel string) (*sched.Scheduler, func(), error) {
	level := cfg.Scheduler.LogLevel
	if envLevel != "" {
		level = envLevel
	}

	logger := log.New(io.Discard, "", 0)
	if debug.Enabled() {
		logger = log.New(debug.Writer(), "[TM_SCHED] ", log.LstdFlags)
	}

	opts := []sched.Option{
		sched.WithWorkers(cfg.Scheduler.Workers),
		sched.WithLogLevel(sched.ParseLogLevel(level)),
		sched.WithLogger(logger),
	}

	closeTrace := func() {}
	if cfg.Scheduler.TracePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Scheduler.TracePath), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating trace directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Scheduler.TracePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening trace file: %w", err)
		}
		opts = append(opts, sched.WithTrace(f))
		closeTrace = func() { _ = f.Close() }
	}

	return sched.New(opts...), closeTrace, nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set TM_TUI_AUTOCLOSE_MS.
	if ms := autoCloseDelay(os.Getenv("TM_TUI_AUTOCLOSE_MS")); ms > 0 {
		go func() {
			timer := time.NewTimer(ms)
			defer timer.Stop()

			select {
			case <-runDone:
				return
			case <-timer.C:
			}

			p.Quit()

			select {
			case <-runDone:
				return
			case <-time.After(2 * time.Second):
			}

			p.Kill()
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

// autoCloseDelay parses a millisecond count. Anything else disables auto-close.
func autoCloseDelay(v string) time.Duration {
	if v == "" {
		return 0
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
