package app_test

import (
	"context"
	"errors"
	"io"
	"iter"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/loom/internal/adapters/dist"
	"go.trai.ch/loom/internal/adapters/metrics"
	"go.trai.ch/loom/internal/app"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/loom/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const page = `<!DOCTYPE html>
<html>
<head>
<link data-loom rel="css" href="app.css">
</head>
<body></body>
</html>`

// idleWatcher reports no changes until its context ends.
type idleWatcher struct {
	ctx context.Context
}

func (w *idleWatcher) Start(ctx context.Context, _ []string) error {
	w.ctx = ctx
	return nil
}

func (w *idleWatcher) Stop() error { return nil }

func (w *idleWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(func(ports.WatchEvent) bool) {
		<-w.ctx.Done()
	}
}

type harness struct {
	root   string
	cfg    *domain.BuildConfig
	loader *mocks.MockConfigLoader
	logger *mocks.MockLogger
	app    *app.App
}

func newHarness(t *testing.T, opts domain.BuildOptions) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte(page), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.css"), []byte("body { margin: 0; }\n"), 0o600))

	opts.Root = root
	cfg, err := domain.NewBuildConfig(opts)
	require.NoError(t, err)

	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	a := app.New(
		loader,
		mocks.NewMockExecutor(ctrl),
		&idleWatcher{},
		dist.NewManifestStore(),
		metrics.NewRecorder(nil),
		logger,
	).WithOutput(io.Discard, io.Discard)

	return &harness{root: root, cfg: cfg, loader: loader, logger: logger, app: a}
}

func (h *harness) expectLoad() {
	h.loader.EXPECT().Load(".", gomock.Any()).Return(h.cfg, nil)
}

func TestApp_Build(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{})
	h.expectLoad()

	err := h.app.Build(context.Background(), app.Options{OutputMode: "linear"})
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(h.cfg.Dist, domain.IndexFileName))
	require.NoError(t, err)
	assert.Regexp(t, `href="/app-[A-Z2-7]{8}\.css"`, string(index))
}

func TestApp_Build_TUI(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{})
	h.expectLoad()
	h.app.WithDisableTick().WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)

	err := h.app.Build(context.Background(), app.Options{OutputMode: "tui"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(h.cfg.Dist, domain.IndexFileName))
}

func TestApp_Build_Failure(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{})
	h.expectLoad()
	require.NoError(t, os.Remove(filepath.Join(h.root, "app.css")))

	err := h.app.Build(context.Background(), app.Options{OutputMode: "linear"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBuildFailed)
	assert.ErrorContains(t, err, domain.ErrAssetReadFailed.Error())
}

func TestApp_Build_ConfigError(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{})
	h.loader.EXPECT().Load(".", gomock.Any()).Return(nil, domain.ErrConfigParseFailed)

	err := h.app.Build(context.Background(), app.Options{OutputMode: "linear"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigParseFailed.Error())
	assert.False(t, errors.Is(err, domain.ErrBuildFailed))
}

func TestApp_Build_InvalidOutputMode(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{})

	err := h.app.Build(context.Background(), app.Options{OutputMode: "fancy"})
	assert.ErrorContains(t, err, domain.ErrInvalidOutputMode.Error())
}

func TestApp_Build_ForwardsOverrides(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{})
	release := true
	h.loader.EXPECT().Load(".", gomock.Any()).DoAndReturn(func(_ string, o domain.Overrides) (*domain.BuildConfig, error) {
		require.NotNil(t, o.Release)
		assert.True(t, *o.Release)
		return h.cfg, nil
	})

	err := h.app.Build(context.Background(), app.Options{
		OutputMode: "linear",
		Overrides:  domain.Overrides{Release: &release},
	})
	require.NoError(t, err)
}

func TestApp_Watch(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{})
	h.expectLoad()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.app.Watch(ctx, app.Options{OutputMode: "linear"})
	}()

	index := filepath.Join(h.cfg.Dist, domain.IndexFileName)
	require.Eventually(t, func() bool {
		_, err := os.Stat(index)
		return err == nil
	}, 10*time.Second, 10*time.Millisecond, "initial build")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestApp_Serve(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{Open: true, HotReload: true})
	h.expectLoad()

	opened := make(chan string, 1)
	h.app.WithOpener(func(url string) error {
		opened <- url
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.app.Serve(ctx, app.Options{OutputMode: "linear"})
	}()

	var url string
	select {
	case url = <-opened:
	case <-time.After(10 * time.Second):
		t.Fatal("server did not start")
	}

	require.Eventually(t, func() bool {
		resp, err := http.Get(url + "deep/link")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && strings.Contains(string(body), domain.BuildEventsPath)
	}, 10*time.Second, 20*time.Millisecond, "built document served through the fallback")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("serve did not stop")
	}
}

func TestApp_Serve_ProxyConflict(t *testing.T) {
	h := newHarness(t, domain.BuildOptions{})
	h.cfg.Proxies = append(h.cfg.Proxies, domain.ProxyRule{Prefix: "/"})
	h.expectLoad()

	err := h.app.Serve(context.Background(), app.Options{OutputMode: "linear"})
	assert.ErrorContains(t, err, domain.ErrProxyConflict.Error())
}

func TestApp_Clean(t *testing.T) {
	t.Run("removes dist", func(t *testing.T) {
		h := newHarness(t, domain.BuildOptions{})
		h.expectLoad()
		require.NoError(t, os.MkdirAll(filepath.Join(h.cfg.Dist, "nested"), 0o750))
		require.NoError(t, os.MkdirAll(filepath.Join(h.root, domain.LoomDirName), 0o750))

		require.NoError(t, h.app.Clean(context.Background(), app.CleanOptions{}))
		assert.NoDirExists(t, h.cfg.Dist)
		assert.DirExists(t, filepath.Join(h.root, domain.LoomDirName))
		assert.FileExists(t, filepath.Join(h.root, "index.html"))
	})

	t.Run("all removes manifests", func(t *testing.T) {
		h := newHarness(t, domain.BuildOptions{})
		h.expectLoad()
		require.NoError(t, os.MkdirAll(filepath.Join(h.root, domain.LoomDirName), 0o750))

		require.NoError(t, h.app.Clean(context.Background(), app.CleanOptions{All: true}))
		assert.NoDirExists(t, filepath.Join(h.root, domain.LoomDirName))
	})

	t.Run("refuses to remove the project root", func(t *testing.T) {
		h := newHarness(t, domain.BuildOptions{Dist: "."})
		h.expectLoad()

		err := h.app.Clean(context.Background(), app.CleanOptions{})
		assert.ErrorContains(t, err, domain.ErrCleanFailed.Error())
		assert.FileExists(t, filepath.Join(h.root, "index.html"))
	})
}
