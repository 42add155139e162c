package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/loom/cmd/loom/commands"
	"go.trai.ch/loom/internal/app"
	"go.trai.ch/loom/internal/build"
)

type mockApp struct {
	called  string
	opts    app.Options
	clean   app.CleanOptions
	verbose bool
	err     error
}

func (m *mockApp) Build(_ context.Context, opts app.Options) error {
	m.called, m.opts = "build", opts
	return m.err
}

func (m *mockApp) Watch(_ context.Context, opts app.Options) error {
	m.called, m.opts = "watch", opts
	return m.err
}

func (m *mockApp) Serve(_ context.Context, opts app.Options) error {
	m.called, m.opts = "serve", opts
	return m.err
}

func (m *mockApp) Clean(_ context.Context, opts app.CleanOptions) error {
	m.called, m.clean = "clean", opts
	return m.err
}

func (m *mockApp) SetVerbose(enable bool) {
	m.verbose = enable
}

func execute(t *testing.T, m *mockApp, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(m)
	buf := new(bytes.Buffer)
	cli.SetArgs(args)
	cli.SetOutput(buf, buf)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Build(t *testing.T) {
	t.Run("leaves unset flags to the config file", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build")
		require.NoError(t, err)

		assert.Equal(t, "build", m.called)
		assert.Equal(t, "auto", m.opts.OutputMode)
		assert.Nil(t, m.opts.Overrides.Dist)
		assert.Nil(t, m.opts.Overrides.Release)
		assert.Nil(t, m.opts.Overrides.PublicURL)
		assert.False(t, m.verbose)
	})

	t.Run("wires flags correctly", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "--release", "--dist", "out", "--public-url", "/app/", "--ci", "-v")
		require.NoError(t, err)

		assert.Equal(t, "linear", m.opts.OutputMode)
		require.NotNil(t, m.opts.Overrides.Release)
		assert.True(t, *m.opts.Overrides.Release)
		require.NotNil(t, m.opts.Overrides.Dist)
		assert.Equal(t, "out", *m.opts.Overrides.Dist)
		require.NotNil(t, m.opts.Overrides.PublicURL)
		assert.Equal(t, "/app/", *m.opts.Overrides.PublicURL)
		assert.True(t, m.verbose)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		m := &mockApp{err: errors.New("simulated error")}
		_, err := execute(t, m, "build")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects arguments", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "build", "extra")
		require.Error(t, err)
		assert.Empty(t, m.called)
	})
}

func TestCommands_Watch(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "watch", "-o", "tui")
	require.NoError(t, err)

	assert.Equal(t, "watch", m.called)
	assert.Equal(t, "tui", m.opts.OutputMode)
}

func TestCommands_Serve(t *testing.T) {
	t.Run("wires serve flags", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "serve",
			"--port", "3000",
			"--open",
			"--no-autoreload",
			"--metrics",
			"--proxy-backend", "http://localhost:9000/api",
			"--proxy-rewrite", "/backend",
		)
		require.NoError(t, err)

		o := m.opts.Overrides
		assert.Equal(t, "serve", m.called)
		require.NotNil(t, o.Port)
		assert.Equal(t, 3000, *o.Port)
		require.NotNil(t, o.Open)
		assert.True(t, *o.Open)
		require.NotNil(t, o.NoAutoReload)
		assert.True(t, *o.NoAutoReload)
		require.NotNil(t, o.Metrics)
		assert.True(t, *o.Metrics)
		require.NotNil(t, o.ProxyBackend)
		assert.Equal(t, "http://localhost:9000/api", *o.ProxyBackend)
		require.NotNil(t, o.ProxyRewrite)
		assert.Equal(t, "/backend", *o.ProxyRewrite)
	})

	t.Run("default port does not override", func(t *testing.T) {
		m := &mockApp{}
		_, err := execute(t, m, "serve")
		require.NoError(t, err)
		assert.Nil(t, m.opts.Overrides.Port)
	})
}

func TestCommands_Clean(t *testing.T) {
	m := &mockApp{}
	_, err := execute(t, m, "clean", "--all", "-d", "public")
	require.NoError(t, err)

	assert.Equal(t, "clean", m.called)
	assert.True(t, m.clean.All)
	require.NotNil(t, m.clean.Overrides.Dist)
	assert.Equal(t, "public", *m.clean.Overrides.Dist)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "loom version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out)

	out, err = execute(t, &mockApp{}, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "loom version "+build.Version)
}

func TestCommands_VerboseShorthand(t *testing.T) {
	for _, args := range [][]string{
		{"build", "-v"},
		{"-v", "watch"},
		{"serve", "--verbose"},
	} {
		m := &mockApp{}
		require.NotPanics(t, func() {
			_, err := execute(t, m, args...)
			require.NoError(t, err)
		}, "%v", args)
		assert.True(t, m.verbose, "%v", args)
		assert.NotEmpty(t, m.called, "%v", args)
	}

	m := &mockApp{}
	out, err := execute(t, m, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "loom version")
	assert.False(t, m.verbose)
}
