// Package app implements the application layer for knob.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/knob/internal/adapters/detector"
	"go.trai.ch/knob/internal/adapters/linear"
	"go.trai.ch/knob/internal/adapters/report"
	"go.trai.ch/knob/internal/adapters/telemetry"
	"go.trai.ch/knob/internal/adapters/tui"
	"go.trai.ch/knob/internal/adapters/watcher"
	"go.trai.ch/knob/internal/core/domain"
	"go.trai.ch/knob/internal/core/ports"
	"go.trai.ch/knob/internal/engine/bridge"
	"go.trai.ch/knob/internal/engine/workflow"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// logSink is implemented by loggers whose destination and format can change.
type logSink interface {
	SetOutput(w io.Writer)
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	bridge       *bridge.Bridge
	runner       ports.StepRunner
	watcher      ports.Watcher

	teaOptions []tea.ProgramOption
	env        func() detector.Environment
	stdout     io.Writer
	stderr     io.Writer
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	b *bridge.Bridge,
	runner ports.StepRunner,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		bridge:       b,
		runner:       runner,
		watcher:      w,
		env:          detector.Detect,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithEnvironment replaces terminal detection.
func (a *App) WithEnvironment(env detector.Environment) *App {
	a.env = func() detector.Environment { return env }
	return a
}

// WithOutput sets the streams the linear renderer and show-only mode write to.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// SetLogJSON switches the logger to JSON records.
func (a *App) SetLogJSON(enable bool) {
	if sink, ok := a.logger.(logSink); ok {
		sink.SetJSON(enable)
	}
}

// Options are shared by all commands.
type Options struct {
	// CachePath overrides the cache path of the project configuration.
	CachePath string
}

// ConfigureOptions configuration for the Configure method.
type ConfigureOptions struct {
	Options
	// Check commits and reloads the cache without running the step.
	Check bool
	// Converge repeats configure passes until no new entries appear.
	Converge int
	// ShowOnly prints the step command instead of running it.
	ShowOnly bool
}

// GenerateOptions configuration for the Generate method.
type GenerateOptions struct {
	Options
	ShowOnly bool
}

// Edit opens the interactive form on the project's cache.
//
//nolint:cyclop // orchestration function
func (a *App) Edit(ctx context.Context, opts Options) error {
	if !a.env().Interactive() {
		return domain.ErrNotATerminal
	}

	project, err := a.project(opts)
	if err != nil {
		return err
	}

	restore, err := a.redirectLogs(project)
	if err != nil {
		return err
	}
	defer restore()

	entries, err := a.bridge.Load(project.CachePath)
	if err != nil {
		return zerr.With(err, "path", project.CachePath)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := tui.NewModel(ctx, a.logger, entries)
	renderer := tui.NewRenderer(model, append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)...)

	tracer := telemetry.NewOTelTracer(renderer)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()
	model.WithWorkflow(a.driver(project, tracer))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		if err := renderer.Wait(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return zerr.Wrap(err, "form terminated")
		}
		return nil
	})

	g.Go(func() error {
		a.watch(gctx, project.CachePath, renderer)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return model.Err()
}

// watch posts MsgCacheChanged when the cache file changes on disk.
// The form works without it, so failures are only logged.
func (a *App) watch(ctx context.Context, path string, renderer *tui.Renderer) {
	if err := a.watcher.Start(ctx, path); err != nil {
		a.logger.Warn("not watching the cache: " + err.Error())
		return
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(_ []string) {
		stale, err := a.bridge.Stale(path)
		if err != nil {
			a.logger.Warn("cache check failed: " + err.Error())
			return
		}
		if stale {
			renderer.Send(tui.MsgCacheChanged{})
		}
	})

	for event := range a.watcher.Events() {
		debouncer.Add(event.Path)
	}
}

// Configure runs configure passes without the form.
func (a *App) Configure(ctx context.Context, opts ConfigureOptions) error {
	return a.runLinear(ctx, opts.Options, domain.StepConfigure, opts.ShowOnly,
		func(ctx context.Context, d *workflow.Driver, entries domain.Entries) workflow.Result {
			switch {
			case opts.Check:
				return d.Configure(ctx, entries, true, nil)
			case opts.Converge > 0:
				return d.ConfigureUntilConverged(ctx, entries, opts.Converge, nil)
			default:
				return d.Configure(ctx, entries, false, nil)
			}
		})
}

// Generate runs the generate step without the form.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) error {
	return a.runLinear(ctx, opts.Options, domain.StepGenerate, opts.ShowOnly,
		func(ctx context.Context, d *workflow.Driver, entries domain.Entries) workflow.Result {
			return d.Generate(ctx, entries, nil)
		})
}

type runFunc func(ctx context.Context, d *workflow.Driver, entries domain.Entries) workflow.Result

func (a *App) runLinear(ctx context.Context, opts Options, kind domain.StepKind, showOnly bool, run runFunc) error {
	project, err := a.project(opts)
	if err != nil {
		return err
	}

	if showOnly {
		cmdline, err := a.driver(project, telemetry.NewNoOpTracer()).ShowOnly(kind)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(a.stdout, cmdline)
		return nil
	}

	renderer := linear.NewRenderer(a.stdout, a.stderr)
	tracer := telemetry.NewOTelTracer(renderer)
	defer func() {
		_ = tracer.Shutdown(context.WithoutCancel(ctx))
	}()
	driver := a.driver(project, tracer)

	entries, err := driver.Load()
	if err != nil {
		return zerr.With(err, "path", project.CachePath)
	}

	var res workflow.Result
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()
		res = run(gctx, driver, entries)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}

	a.logger.Info(summary(kind, res))
	return nil
}

func summary(kind domain.StepKind, res workflow.Result) string {
	msg := fmt.Sprintf("%s finished: %d entries", kind, len(res.Entries))
	if len(res.Added) > 0 {
		msg += fmt.Sprintf(", %d new", len(res.Added))
	}
	if len(res.Removed) > 0 {
		msg += fmt.Sprintf(", %d removed", len(res.Removed))
	}
	return msg
}

func (a *App) driver(project *domain.Project, tracer ports.Tracer) *workflow.Driver {
	return workflow.NewDriver(a.bridge, a.runner, report.NewWriter(project.ReportDir), tracer, project)
}

// project loads the project configuration for the working directory and
// applies the command line overrides.
func (a *App) project(opts Options) (*domain.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}

	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.CachePath != "" {
		abs, err := filepath.Abs(opts.CachePath)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to resolve cache path"), "path", opts.CachePath)
		}
		project.CachePath = abs
	}
	return project, nil
}

// redirectLogs sends log output to the debug log while the form owns the
// terminal. The returned func restores stderr.
func (a *App) redirectLogs(project *domain.Project) (func(), error) {
	sink, ok := a.logger.(logSink)
	if !ok {
		return func() {}, nil
	}

	path := filepath.Join(project.Root, domain.DefaultDebugLogPath())
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create debug log directory"), "path", path)
	}
	//nolint:gosec // path is built from the project root
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to open debug log"), "path", path)
	}

	sink.SetOutput(f)
	return func() {
		sink.SetOutput(a.stderr)
		_ = f.Close()
	}, nil
}
