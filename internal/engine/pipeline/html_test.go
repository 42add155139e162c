package pipeline_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/loom/internal/adapters/dist"
	"go.trai.ch/loom/internal/adapters/metrics"
	"go.trai.ch/loom/internal/adapters/telemetry"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports/mocks"
	"go.trai.ch/loom/internal/engine/pipeline"
	"go.uber.org/mock/gomock"
	"golang.org/x/net/html"
)

var (
	contentHash = regexp.MustCompile(`-[0-9a-f]{16}\.`)
	bundleHash  = regexp.MustCompile(`-[A-Z2-7]{8}\.`)
)

// normalizeHashes replaces content hashes so the document can be compared to a golden file.
func normalizeHashes(data []byte) []byte {
	data = contentHash.ReplaceAll(data, []byte("-HASH."))
	return bundleHash.ReplaceAll(data, []byte("-HASH."))
}

// copySite copies testdata/site into a temp project and returns the project root.
func copySite(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "site")
	require.NoError(t, os.CopyFS(root, os.DirFS(filepath.Join("testdata", "site"))))
	return root
}

func newConfig(t *testing.T, opts domain.BuildOptions) *domain.BuildConfig {
	t.Helper()
	cfg, err := domain.NewBuildConfig(opts)
	require.NoError(t, err)
	return cfg
}

func newDeps(w *dist.Writer) pipeline.Deps {
	return pipeline.Deps{
		Writer:  w,
		Tracer:  telemetry.NewNoOpTracer(),
		Metrics: metrics.Noop{},
	}
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func TestHTML_Spawn_Golden(t *testing.T) {
	root := copySite(t)
	cfg := newConfig(t, domain.BuildOptions{Root: root})
	w := dist.NewWriter(cfg.Dist, nil)

	require.NoError(t, pipeline.NewHTML(cfg, newDeps(w)).Spawn(context.Background()))

	data, err := os.ReadFile(filepath.Join(cfg.Dist, domain.IndexFileName))
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "document", normalizeHashes(data))

	assert.FileExists(t, filepath.Join(cfg.Dist, "robots.txt"))
	assert.FileExists(t, filepath.Join(cfg.Dist, "static", "manifest.json"))
	assert.FileExists(t, filepath.Join(cfg.Dist, "static", "fonts", "inter.txt"))
}

func TestHTML_Spawn_ReferencesExist(t *testing.T) {
	root := copySite(t)
	cfg := newConfig(t, domain.BuildOptions{Root: root, PublicURL: "/app/"})
	w := dist.NewWriter(cfg.Dist, nil)

	require.NoError(t, pipeline.NewHTML(cfg, newDeps(w)).Spawn(context.Background()))

	f, err := os.Open(filepath.Join(cfg.Dist, domain.IndexFileName))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	require.NoError(t, err)

	var refs []string
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		for _, a := range n.Attr {
			if a.Key == domain.AssetAttr {
				t.Errorf("asset link left in document: %v", n.Attr)
			}
			if a.Key == "href" || a.Key == "src" {
				refs = append(refs, a.Val)
			}
		}
	}

	require.Len(t, refs, 3)
	for _, ref := range refs {
		require.True(t, strings.HasPrefix(ref, "/app/"), ref)
		assert.FileExists(t, filepath.Join(cfg.Dist, filepath.FromSlash(strings.TrimPrefix(ref, "/app/"))))
	}
}

func TestHTML_Spawn_Deterministic(t *testing.T) {
	root := copySite(t)
	cfg := newConfig(t, domain.BuildOptions{Root: root, Release: true})

	first := dist.NewWriter(cfg.Dist, nil)
	require.NoError(t, pipeline.NewHTML(cfg, newDeps(first)).Spawn(context.Background()))
	before, err := os.ReadFile(filepath.Join(cfg.Dist, domain.IndexFileName))
	require.NoError(t, err)

	second := dist.NewWriter(cfg.Dist, nil)
	require.NoError(t, pipeline.NewHTML(cfg, newDeps(second)).Spawn(context.Background()))
	after, err := os.ReadFile(filepath.Join(cfg.Dist, domain.IndexFileName))
	require.NoError(t, err)

	assert.Equal(t, string(before), string(after))
	assert.Equal(t, first.Written(), second.Written())
	assert.Contains(t, second.Written(), domain.IndexFileName)
}

func TestHTML_Spawn_Consumed(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": "<html><head></head><body></body></html>"})
	cfg := newConfig(t, domain.BuildOptions{Root: root})
	p := pipeline.NewHTML(cfg, newDeps(dist.NewWriter(cfg.Dist, nil)))

	require.NoError(t, p.Spawn(context.Background()))
	assert.ErrorIs(t, p.Spawn(context.Background()), domain.ErrPipelineConsumed)
}

func TestHTML_Spawn_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr error
	}{
		{
			name:    "missing target",
			files:   map[string]string{"other.html": ""},
			wantErr: domain.ErrTargetReadFailed,
		},
		{
			name:    "unknown rel",
			files:   map[string]string{"index.html": `<link data-loom rel="wasm" href="app.wasm">`},
			wantErr: domain.ErrUnknownAssetKind,
		},
		{
			name:    "missing href",
			files:   map[string]string{"index.html": `<link data-loom rel="css">`},
			wantErr: domain.ErrMissingHref,
		},
		{
			name:    "missing asset",
			files:   map[string]string{"index.html": `<link data-loom rel="icon" href="nope.png">`},
			wantErr: domain.ErrAssetReadFailed,
		},
		{
			name: "bundle error",
			files: map[string]string{
				"index.html": `<link data-loom rel="js" href="main.js">`,
				"main.js":    `import "./missing.js";`,
			},
			wantErr: domain.ErrBundleFailed,
		},
		{
			name: "unknown inline type",
			files: map[string]string{
				"index.html": `<link data-loom rel="inline" href="data.txt">`,
				"data.txt":   "text",
			},
			wantErr: domain.ErrUnknownAssetKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeSite(t, tt.files)
			cfg := newConfig(t, domain.BuildOptions{Root: root})

			err := pipeline.NewHTML(cfg, newDeps(dist.NewWriter(cfg.Dist, nil))).Spawn(context.Background())
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
			assert.NoFileExists(t, filepath.Join(cfg.Dist, domain.IndexFileName))
		})
	}
}

func TestHTML_Spawn_BundleErrorLocation(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": `<link data-loom rel="css" href="app.css">`,
		"app.css":    "@import \"./missing.css\";\n",
	})
	cfg := newConfig(t, domain.BuildOptions{Root: root})

	err := pipeline.NewHTML(cfg, newDeps(dist.NewWriter(cfg.Dist, nil))).Spawn(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "app.css:1:")
	assert.ErrorContains(t, err, "missing.css")
}

func TestHTML_Spawn_ScriptStyles(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": `<html><head></head><body><link data-loom rel="js" href="main.js" defer></body></html>`,
		"main.js":    "import \"./style.css\";\nconsole.log(1);\n",
		"style.css":  "p { margin: 0; }\n",
	})
	cfg := newConfig(t, domain.BuildOptions{Root: root})

	require.NoError(t, pipeline.NewHTML(cfg, newDeps(dist.NewWriter(cfg.Dist, nil))).Spawn(context.Background()))

	data, err := os.ReadFile(filepath.Join(cfg.Dist, domain.IndexFileName))
	require.NoError(t, err)
	doc := string(normalizeHashes(data))

	assert.Contains(t, doc, `<link rel="stylesheet" href="/main-HASH.css"/><script type="module" src="/main-HASH.js" defer=""></script>`)
}

func TestHTML_Spawn_Inline(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": `<html><head>` +
			`<link data-loom rel="inline" href="a.css">` +
			`<link data-loom rel="inline" href="b.txt" type="js">` +
			`<link data-loom rel="inline" href="c.mjs">` +
			`</head><body></body></html>`,
		"a.css": "p{}",
		"b.txt": "var b = 1 < 2;",
		"c.mjs": "export {};",
	})
	cfg := newConfig(t, domain.BuildOptions{Root: root})

	require.NoError(t, pipeline.NewHTML(cfg, newDeps(dist.NewWriter(cfg.Dist, nil))).Spawn(context.Background()))

	data, err := os.ReadFile(filepath.Join(cfg.Dist, domain.IndexFileName))
	require.NoError(t, err)
	assert.Equal(t,
		`<html><head><style>p{}</style><script>var b = 1 < 2;</script><script type="module">export {};</script></head><body></body></html>`,
		string(data))
}

func TestHTML_Spawn_CopyTargetPath(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": `<link data-loom rel="copy-file" href="robots.txt" data-target-path="meta">`,
		"robots.txt": "ok",
	})
	cfg := newConfig(t, domain.BuildOptions{Root: root})
	w := dist.NewWriter(cfg.Dist, nil)

	require.NoError(t, pipeline.NewHTML(cfg, newDeps(w)).Spawn(context.Background()))
	assert.FileExists(t, filepath.Join(cfg.Dist, "meta", "robots.txt"))
	assert.Equal(t, []string{domain.IndexFileName, "meta/robots.txt"}, w.Written())
}

func TestHTML_Spawn_Reload(t *testing.T) {
	t.Run("appended to head", func(t *testing.T) {
		root := writeSite(t, map[string]string{"index.html": `<html><head><title>x</title></head><body></body></html>`})
		cfg := newConfig(t, domain.BuildOptions{Root: root, HotReload: true})

		require.NoError(t, pipeline.NewHTML(cfg, newDeps(dist.NewWriter(cfg.Dist, nil))).Spawn(context.Background()))

		data, err := os.ReadFile(filepath.Join(cfg.Dist, domain.IndexFileName))
		require.NoError(t, err)
		doc := string(data)
		assert.True(t, strings.HasPrefix(doc, `<html><head><title>x</title><script>`), doc)
		assert.Contains(t, doc, `new EventSource("/build_events")`)
		assert.Contains(t, doc, `</script></head><body></body></html>`)
	})

	t.Run("disabled", func(t *testing.T) {
		root := writeSite(t, map[string]string{"index.html": `<html><head></head><body></body></html>`})
		cfg := newConfig(t, domain.BuildOptions{Root: root})

		require.NoError(t, pipeline.NewHTML(cfg, newDeps(dist.NewWriter(cfg.Dist, nil))).Spawn(context.Background()))

		data, err := os.ReadFile(filepath.Join(cfg.Dist, domain.IndexFileName))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "EventSource")
	})
}

func TestHTML_Spawn_AnnouncesWrites(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": `<html><head></head><body></body></html>`})
	cfg := newConfig(t, domain.BuildOptions{Root: root})
	announce := make(chan string, 8)

	require.NoError(t, pipeline.NewHTML(cfg, newDeps(dist.NewWriter(cfg.Dist, announce))).Spawn(context.Background()))
	close(announce)

	var paths []string
	for p := range announce {
		paths = append(paths, p)
	}
	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], ".index.html.")
	assert.Equal(t, filepath.Join(cfg.Dist, domain.IndexFileName), paths[1])
}

func TestHTML_Spawn_BuildHooks(t *testing.T) {
	root := writeSite(t, map[string]string{"index.html": `<html><head></head><body></body></html>`})

	t.Run("runs with build environment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		executor := mocks.NewMockExecutor(ctrl)

		cfg := newConfig(t, domain.BuildOptions{
			Root:  root,
			Hooks: []domain.HookOptions{{Stage: "build", Command: []string{"npm", "run", "gen"}}},
		})

		executor.EXPECT().
			Execute(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cmd *domain.Command, _ io.Writer) error {
				assert.Equal(t, []string{"npm", "run", "gen"}, cmd.Args)
				assert.Equal(t, cfg.SourceDir, cmd.Dir)
				assert.Equal(t, "debug", cmd.Env[pipeline.EnvProfile])
				assert.Equal(t, cfg.Dist, cmd.Env[pipeline.EnvDistDir])
				assert.Equal(t, cfg.Target, cmd.Env[pipeline.EnvHTMLFile])
				assert.Equal(t, "/", cmd.Env[pipeline.EnvPublicURL])
				return nil
			})

		deps := newDeps(dist.NewWriter(cfg.Dist, nil))
		deps.Executor = executor
		require.NoError(t, pipeline.NewHTML(cfg, deps).Spawn(context.Background()))
	})

	t.Run("failure fails the pipeline", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		executor := mocks.NewMockExecutor(ctrl)
		executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("exit status 1"))

		cfg := newConfig(t, domain.BuildOptions{
			Root:  root,
			Dist:  "out",
			Hooks: []domain.HookOptions{{Stage: "build", Command: []string{"false"}}},
		})
		deps := newDeps(dist.NewWriter(cfg.Dist, nil))
		deps.Executor = executor

		err := pipeline.NewHTML(cfg, deps).Spawn(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrHookFailed.Error())
		assert.NoFileExists(t, filepath.Join(cfg.Dist, domain.IndexFileName))
	})
}

func TestHTML_Spawn_FailsFast(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": `<html><head><link data-loom rel="icon" href="missing.png"></head></html>`,
	})
	cfg := newConfig(t, domain.BuildOptions{
		Root:  root,
		Hooks: []domain.HookOptions{{Stage: "build", Command: []string{"sleep", "forever"}}},
	})

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool

	executor := mocks.NewMockExecutor(gomock.NewController(t))
	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *domain.Command, io.Writer) error {
			close(started)
			<-release
			finished.Store(true)
			return nil
		}).
		MaxTimes(1)
	t.Cleanup(func() { close(release) })

	deps := newDeps(dist.NewWriter(cfg.Dist, nil))
	deps.Executor = executor

	done := make(chan error, 1)
	go func() {
		done <- pipeline.NewHTML(cfg, deps).Spawn(context.Background())
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrAssetReadFailed.Error())
	case <-time.After(5 * time.Second):
		t.Fatal("Spawn waited for a sibling node after the first failure")
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("build hook never started")
	}
	assert.False(t, finished.Load(), "the blocked hook is left running")
	assert.NoFileExists(t, filepath.Join(cfg.Dist, domain.IndexFileName))
}

func TestRunHooks(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)

	cfg := newConfig(t, domain.BuildOptions{
		Root:    t.TempDir(),
		Release: true,
		Hooks: []domain.HookOptions{
			{Stage: "pre_build", Command: []string{"first"}},
			{Stage: "post_build", Command: []string{"other"}},
			{Stage: "pre_build", Command: []string{"second"}},
			{Stage: "pre_build", Command: []string{"third"}},
		},
	})

	var ran []string
	gomock.InOrder(
		executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cmd *domain.Command, _ io.Writer) error {
				ran = append(ran, cmd.Args[0])
				assert.Equal(t, "release", cmd.Env[pipeline.EnvProfile])
				return nil
			}),
		executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, cmd *domain.Command, _ io.Writer) error {
				ran = append(ran, cmd.Args[0])
				return errors.New("exit status 2")
			}),
	)

	deps := pipeline.Deps{Executor: executor, Tracer: telemetry.NewNoOpTracer(), Metrics: metrics.Noop{}}
	err := pipeline.RunHooks(context.Background(), cfg, deps, domain.HookPreBuild)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrHookFailed.Error())
	assert.Equal(t, []string{"first", "second"}, ran)
}
