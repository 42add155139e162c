// Package app implements the application layer for loom.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/loom/internal/adapters/detector"
	"go.trai.ch/loom/internal/adapters/dist"
	"go.trai.ch/loom/internal/adapters/eventbus"
	"go.trai.ch/loom/internal/adapters/linear"
	"go.trai.ch/loom/internal/adapters/metrics"
	"go.trai.ch/loom/internal/adapters/proxy"
	"go.trai.ch/loom/internal/adapters/server"
	"go.trai.ch/loom/internal/adapters/telemetry"
	"go.trai.ch/loom/internal/adapters/tui"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/loom/internal/engine/builder"
	"go.trai.ch/loom/internal/engine/watch"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// tracerName is the instrumentation name of pipeline and hook spans.
const tracerName = "loom"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	executor     ports.Executor
	watcher      ports.Watcher
	manifest     ports.ManifestStore
	recorder     *metrics.Recorder
	logger       ports.Logger

	teaOptions  []tea.ProgramOption
	disableTick bool
	stdout      io.Writer
	stderr      io.Writer
	opener      func(url string) error
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	watcher ports.Watcher,
	manifest ports.ManifestStore,
	recorder *metrics.Recorder,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		executor:     executor,
		watcher:      watcher,
		manifest:     manifest,
		recorder:     recorder,
		logger:       log,
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

// WithDisableTick disables the TUI spinner.
// This is primarily used for testing with synctest to avoid goroutine deadlocks.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// WithOutput redirects the linear renderer.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithOpener replaces the function the development server opens the browser with.
func (a *App) WithOpener(open func(url string) error) *App {
	a.opener = open
	return a
}

// SetVerbose toggles debug logging when the logger supports it.
func (a *App) SetVerbose(enable bool) {
	if v, ok := a.logger.(interface{ SetVerbose(bool) }); ok {
		v.SetVerbose(enable)
	}
}

// Options configures one build, watch or serve invocation.
type Options struct {
	// OutputMode is the --output value: auto, tui, linear or ci.
	OutputMode string
	// Overrides are applied over loom.yaml.
	Overrides domain.Overrides
}

// Build runs a single build.
func (a *App) Build(ctx context.Context, opts Options) error {
	s, err := a.prepare(ctx, opts)
	if err != nil {
		return err
	}

	return s.run(ctx, func(ctx context.Context) error {
		if err := s.system.Build(ctx); err != nil {
			return errors.Join(domain.ErrBuildFailed, err)
		}
		return nil
	})
}

// Watch builds once and then rebuilds on every relevant change until ctx ends.
func (a *App) Watch(ctx context.Context, opts Options) error {
	s, err := a.prepare(ctx, opts)
	if err != nil {
		return err
	}

	driver := a.newDriver(s)
	return s.run(ctx, driver.Run)
}

// Serve runs the watch loop and the development server until ctx ends.
func (a *App) Serve(ctx context.Context, opts Options) error {
	s, err := a.prepare(ctx, opts)
	if err != nil {
		return err
	}

	router, err := proxy.NewRouter(s.cfg, a.logger, s.metrics)
	if err != nil {
		s.close(ctx)
		return err
	}

	srv := server.New(s.cfg, s.bus, router, a.logger, s.metrics)
	if a.recorder != nil {
		srv.WithMetricsHandler(a.recorder.Handler())
	}
	if a.opener != nil {
		srv.WithOpener(a.opener)
	}
	if err := srv.Listen(); err != nil {
		s.close(ctx)
		return err
	}

	driver := a.newDriver(s)
	return s.run(ctx, func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return driver.Run(ctx)
		})
		g.Go(func() error {
			return srv.Run(ctx)
		})
		return g.Wait()
	})
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// All also removes the project metadata directory.
	All       bool
	Overrides domain.Overrides
}

// Clean removes the dist directory, and with All the build manifests too.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cfg, err := a.configLoader.Load(".", opts.Overrides)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if cfg.Dist == cfg.Root {
		return zerr.With(zerr.With(domain.ErrCleanFailed, "path", cfg.Dist), "reason", "dist is the project root")
	}

	var errs error
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(cfg.Dist, "dist directory")
	if opts.All {
		remove(filepath.Join(cfg.Root, domain.LoomDirName), "build manifests")
	}
	return errs
}

// session holds what one invocation builds with.
type session struct {
	cfg         *domain.BuildConfig
	renderer    ports.Renderer
	interactive bool
	provider    *telemetry.Provider
	metrics     ports.Metrics
	bus         *eventbus.Bus
	system      *builder.System
	stderr      io.Writer
}

func (a *App) prepare(ctx context.Context, opts Options) (*session, error) {
	if err := detector.ValidateFlag(opts.OutputMode); err != nil {
		return nil, err
	}

	cfg, err := a.configLoader.Load(".", opts.Overrides)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	s := &session{cfg: cfg, bus: eventbus.New(), metrics: metrics.Noop{}, stderr: a.stderr}
	if cfg.Metrics && a.recorder != nil {
		s.metrics = a.recorder
	}

	mode := detector.ResolveMode(detector.DetectEnvironment(), opts.OutputMode)
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr)
		if a.disableTick {
			model = model.WithDisableTick()
		}
		optsTea := append([]tea.ProgramOption{tea.WithContext(ctx)}, a.teaOptions...)
		s.renderer = tui.NewRenderer(&model, optsTea...)
		s.interactive = true
	} else {
		s.renderer = linear.NewRenderer(a.stdout, a.stderr)
	}

	// The provider bridges every span to the renderer.
	s.provider = telemetry.NewProvider(s.renderer)

	s.system = builder.NewSystem(cfg, builder.Deps{
		Publisher: s.bus,
		Renderer:  s.renderer,
		Executor:  a.executor,
		Tracer:    s.provider.Tracer(tracerName),
		Metrics:   s.metrics,
		Manifest:  a.manifest,
		Logger:    a.logger,
		NewWriter: newDistWriter,
	})
	return s, nil
}

func (a *App) newDriver(s *session) *watch.Driver {
	driver := watch.NewDriver(s.cfg, a.watcher, s.system, a.logger)
	s.system.WithAnnounce(driver.Ignore())
	return driver
}

func newDistWriter(root string, announce chan<- string) ports.DistWriter {
	return dist.NewWriter(root, announce)
}

// run drives the renderer and work concurrently. Quitting an interactive
// renderer cancels the work.
func (s *session) run(ctx context.Context, work func(context.Context) error) error {
	defer s.close(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	// Renderer Routine
	g.Go(func() error {
		if s.interactive {
			defer cancel()
		}
		if err := s.renderer.Start(ctx); err != nil {
			return err
		}
		if err := s.renderer.Wait(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})

	// Work Routine
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				_, _ = fmt.Fprintf(s.stderr, "loom panic: %v\n", r)
				err = zerr.With(domain.ErrBuildFailed, "panic", fmt.Sprint(r))
			}
			_ = s.renderer.Stop()
		}()
		return work(ctx)
	})

	return g.Wait()
}

func (s *session) close(ctx context.Context) {
	_ = s.provider.Shutdown(context.WithoutCancel(ctx))
	s.bus.Close()
}
