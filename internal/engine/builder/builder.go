// Package builder orchestrates a single build: hooks, the document pipeline,
// stale asset pruning and the build events around them.
package builder

import (
	"context"
	"os"
	"sync"
	"time"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/loom/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Progress messages shown by the renderer.
const (
	MsgStarting  = "starting build"
	MsgSucceeded = "build succeeded"
	MsgFailed    = "build failed"
)

// Build outcomes recorded by the metrics port.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// WriterFactory creates the dist writer used by one build.
type WriterFactory func(root string, announce chan<- string) ports.DistWriter

// Deps are the collaborators of a System.
type Deps struct {
	Publisher ports.EventPublisher
	Renderer  ports.Renderer
	Executor  ports.Executor
	Tracer    ports.Tracer
	Metrics   ports.Metrics
	Manifest  ports.ManifestStore
	Logger    ports.Logger
	NewWriter WriterFactory
}

// System runs builds for one configuration. Builds are serialized.
type System struct {
	cfg      *domain.BuildConfig
	deps     Deps
	announce chan<- string

	mu sync.Mutex
}

// NewSystem creates a System for cfg.
func NewSystem(cfg *domain.BuildConfig, deps Deps) *System {
	return &System{cfg: cfg, deps: deps}
}

// WithAnnounce sets the channel every dist path is announced on before it is written.
func (s *System) WithAnnounce(ch chan<- string) *System {
	s.announce = ch
	return s
}

// Build runs one complete build. It publishes Building first and exactly one
// of Success or Error last, and leaves the renderer in a terminal state.
// The returned error is authoritative; publishing is best effort.
func (s *System) Build(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.deps.Publisher.Publish(domain.BuildingEvent())
	s.deps.Renderer.OnBuildStart(MsgStarting)

	err := s.build(ctx)
	elapsed := time.Since(start)

	if err != nil {
		s.deps.Publisher.Publish(domain.ErrorEvent(err.Error()))
		s.deps.Renderer.OnBuildComplete(MsgFailed, err)
		s.deps.Metrics.ObserveBuild(OutcomeError, elapsed)
		return err
	}

	s.deps.Publisher.Publish(domain.SuccessEvent())
	s.deps.Renderer.OnBuildComplete(MsgSucceeded, nil)
	s.deps.Metrics.ObserveBuild(OutcomeSuccess, elapsed)
	return nil
}

func (s *System) build(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.Dist, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCreateDistFailed.Error()), "path", s.cfg.Dist)
	}

	writer := s.deps.NewWriter(s.cfg.Dist, s.announce)
	deps := pipeline.Deps{
		Writer:   writer,
		Executor: s.deps.Executor,
		Tracer:   s.deps.Tracer,
		Metrics:  s.deps.Metrics,
	}

	if err := pipeline.RunHooks(ctx, s.cfg, deps, domain.HookPreBuild); err != nil {
		return err
	}

	if err := pipeline.NewHTML(s.cfg, deps).Spawn(ctx); err != nil {
		return err
	}

	if err := s.prune(ctx, writer); err != nil {
		return err
	}

	return pipeline.RunHooks(ctx, s.cfg, deps, domain.HookPostBuild)
}

// prune removes the files the previous build wrote and this one did not, then
// records this build's files for the next one.
func (s *System) prune(ctx context.Context, writer ports.DistWriter) error {
	previous, err := s.deps.Manifest.Get(s.cfg.Root, s.cfg.Dist)
	if err != nil {
		s.deps.Logger.Warn("ignoring unreadable build manifest: " + err.Error())
		previous = nil
	}

	removed, err := writer.Prune(ctx, previous)
	if err != nil {
		return err
	}
	for _, rel := range removed {
		s.deps.Logger.Debug("pruned " + rel)
	}

	return s.deps.Manifest.Put(s.cfg.Root, s.cfg.Dist, writer.Written())
}
