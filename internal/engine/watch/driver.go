// Package watch rebuilds the project whenever the watched sources change.
package watch

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

const (
	// IgnoreBuffer is the capacity of the channel builds announce their writes on.
	IgnoreBuffer = 64

	// AnnouncedTTL is how long changes to an announced path are ignored.
	AnnouncedTTL = 5 * time.Second
)

// Builder runs one build.
type Builder interface {
	Build(ctx context.Context) error
}

// Driver runs an initial build and then one build per debounced batch of changes.
// At most one build runs at a time and at most one more is pending; further
// changes during a build fold into the pending one.
type Driver struct {
	cfg     *domain.BuildConfig
	watcher ports.Watcher
	builder Builder
	logger  ports.Logger
	window  time.Duration

	ignore  chan string
	trigger chan struct{}

	mu        sync.Mutex
	announced map[string]time.Time
}

// NewDriver creates a driver for cfg.
func NewDriver(cfg *domain.BuildConfig, watcher ports.Watcher, builder Builder, logger ports.Logger) *Driver {
	return &Driver{
		cfg:       cfg,
		watcher:   watcher,
		builder:   builder,
		logger:    logger,
		window:    DefaultDebounceWindow,
		ignore:    make(chan string, IgnoreBuffer),
		trigger:   make(chan struct{}, 1),
		announced: make(map[string]time.Time),
	}
}

// WithDebounceWindow overrides the debounce window.
func (d *Driver) WithDebounceWindow(window time.Duration) *Driver {
	d.window = window
	return d
}

// Ignore returns the channel builds announce the paths they are about to write on.
func (d *Driver) Ignore() chan<- string {
	return d.ignore
}

// Run blocks until ctx is cancelled. Build failures are logged and the loop
// keeps going. It returns an error only when the watcher cannot start.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.watcher.Start(ctx, d.cfg.WatchPaths); err != nil {
		return err
	}
	defer func() {
		_ = d.watcher.Stop()
	}()

	debouncer := NewDebouncer(d.window, func(paths []string) {
		d.logger.Debug("change detected: " + strings.Join(paths, ", "))
		d.Trigger()
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.drainIgnore(ctx)
		return nil
	})
	g.Go(func() error {
		d.buildLoop(ctx)
		return nil
	})
	g.Go(func() error {
		for event := range d.watcher.Events() {
			if d.ignored(event.Path) {
				continue
			}
			debouncer.Add(event.Path)
		}
		return nil
	})

	d.Trigger()
	return g.Wait()
}

// Trigger requests a build. It never blocks; a request made while another is
// already pending is folded into it.
func (d *Driver) Trigger() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

func (d *Driver) buildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.trigger:
			if err := d.builder.Build(ctx); err != nil && ctx.Err() == nil {
				d.logger.Error(err)
			}
		}
	}
}

func (d *Driver) drainIgnore(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-d.ignore:
			d.announce(filepath.Clean(path))
		}
	}
}

func (d *Driver) announce(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for p, at := range d.announced {
		if now.Sub(at) >= AnnouncedTTL {
			delete(d.announced, p)
		}
	}
	d.announced[path] = now
}

// ignored reports whether a change to path must not trigger a build.
func (d *Driver) ignored(path string) bool {
	path = filepath.Clean(path)
	if within(path, d.cfg.Dist) {
		return true
	}
	for _, dir := range d.cfg.WatchIgnore {
		if within(path, dir) {
			return true
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	at, ok := d.announced[path]
	if ok && time.Since(at) < AnnouncedTTL {
		return true
	}
	return false
}

func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}
