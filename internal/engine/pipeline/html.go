// Package pipeline rewrites the root HTML document of a build and produces the
// assets it references.
package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync/atomic"
	"time"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

// Deps are the collaborators shared by every node of a pipeline.
type Deps struct {
	Writer   ports.DistWriter
	Executor ports.Executor
	Tracer   ports.Tracer
	Metrics  ports.Metrics
}

type runFunc func(ctx context.Context, log io.Writer) (Output, error)

// node is one unit of concurrent pipeline work.
type node struct {
	kind string
	name string
	run  runFunc
}

// HTML is the document pipeline of a single build. It is consumed by Spawn.
type HTML struct {
	cfg     *domain.BuildConfig
	deps    Deps
	spawned atomic.Bool
}

// NewHTML creates a pipeline for the configured target document.
func NewHTML(cfg *domain.BuildConfig, deps Deps) *HTML {
	return &HTML{cfg: cfg, deps: deps}
}

// Spawn reads and parses the target, runs one node per asset link plus the
// build-stage hooks and, with hot reload, the reload script node. The outputs
// are applied to the document in spawn order and the result is written to
// dist as index.html.
//
// The first failing node fails Spawn. Nodes still running are cancelled and
// left to finish on their own.
func (p *HTML) Spawn(ctx context.Context) error {
	if !p.spawned.CompareAndSwap(false, true) {
		return domain.ErrPipelineConsumed
	}

	doc, err := p.parse()
	if err != nil {
		return err
	}

	assets, err := discover(doc, p.cfg.SourceDir)
	if err != nil {
		return err
	}

	nodes := make([]node, 0, len(assets)+len(p.cfg.Hooks)+1)
	for _, a := range assets {
		nodes = append(nodes, p.assetNode(a))
	}
	for _, h := range p.cfg.HooksFor(domain.HookBuild) {
		nodes = append(nodes, hookNode(p.cfg, p.deps, h))
	}
	if p.cfg.HotReload {
		nodes = append(nodes, reloadNode())
	}

	outputs, err := p.await(ctx, nodes)
	if err != nil {
		return err
	}

	for _, out := range outputs {
		if err := out.Finalize(doc); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return zerr.Wrap(err, domain.ErrDocumentRenderFailed.Error())
	}
	_, err = p.deps.Writer.WriteFile(ctx, domain.IndexFileName, buf.Bytes())
	return err
}

func (p *HTML) parse() (*html.Node, error) {
	f, err := os.Open(p.cfg.Target)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTargetReadFailed.Error()), "path", p.cfg.Target)
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrTargetParseFailed.Error()), "path", p.cfg.Target)
	}
	return doc, nil
}

// await runs every node concurrently and returns their outputs in node order.
// It returns as soon as one node fails, without waiting for the others.
func (p *HTML) await(ctx context.Context, nodes []node) ([]Output, error) {
	g, gctx := errgroup.WithContext(ctx)
	outputs := make([]Output, len(nodes))
	failed := make(chan error, 1)

	for i, n := range nodes {
		g.Go(func() error {
			out, err := execute(gctx, p.deps, n)
			if err != nil {
				select {
				case failed <- err:
				default:
				}
				return err
			}
			outputs[i] = out
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
		return outputs, nil
	case err := <-failed:
		return nil, err
	}
}

// execute runs a node inside its own span and records its duration.
func execute(ctx context.Context, deps Deps, n node) (Output, error) {
	ctx, span := deps.Tracer.Start(ctx, n.name)
	defer span.End()
	span.SetAttribute(domain.NodeKindAttr, n.kind)

	start := time.Now()
	out, err := n.run(ctx, span)
	deps.Metrics.ObserveNode(n.kind, time.Since(start), err)
	if err != nil {
		if ctx.Err() != nil {
			span.SetAttribute(domain.NodeCancelledAttr, true)
		}
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}
