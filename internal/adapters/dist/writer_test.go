package dist_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/loom/internal/adapters/dist"
	"go.trai.ch/loom/internal/core/domain"
)

func drain(ch chan string) []string {
	var out []string
	for {
		select {
		case p := <-ch:
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestWriter_WriteFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	announce := make(chan string, 16)
	w := dist.NewWriter(root, announce)

	path, err := w.WriteFile(context.Background(), filepath.Join("assets", "app.js"), []byte("console.log(1)"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "assets", "app.js"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(data))

	announced := drain(announce)
	require.Len(t, announced, 2)
	assert.True(t, strings.HasSuffix(announced[0], ".tmp"), "temp file is announced first")
	assert.Equal(t, path, announced[1])

	entries, err := os.ReadDir(filepath.Join(root, "assets"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")

	assert.Equal(t, []string{"assets/app.js"}, w.Written())
}

func TestWriter_RejectsEscapingPath(t *testing.T) {
	t.Parallel()

	w := dist.NewWriter(t.TempDir(), nil)
	_, err := w.WriteFile(context.Background(), "../outside.txt", []byte("x"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrAssetWriteFailed.Error())
}

func TestWriter_AnnounceHonorsContext(t *testing.T) {
	t.Parallel()

	w := dist.NewWriter(t.TempDir(), make(chan string))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.WriteFile(ctx, "index.html", []byte("<html></html>"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriter_CopyDir(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "fonts", "woff"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "readme.txt"), []byte("hi"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "fonts", "woff", "a.woff"), []byte("font"), 0o600))

	root := t.TempDir()
	w := dist.NewWriter(root, nil)
	require.NoError(t, w.CopyDir(context.Background(), src, "static"))

	data, err := os.ReadFile(filepath.Join(root, "static", "fonts", "woff", "a.woff"))
	require.NoError(t, err)
	assert.Equal(t, "font", string(data))
	assert.Equal(t, []string{"static/fonts/woff/a.woff", "static/readme.txt"}, w.Written())
}

func TestWriter_CopyMissing(t *testing.T) {
	t.Parallel()

	w := dist.NewWriter(t.TempDir(), nil)

	_, err := w.CopyFile(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), "nope.txt")
	assert.ErrorContains(t, err, domain.ErrAssetReadFailed.Error())

	err = w.CopyDir(context.Background(), filepath.Join(t.TempDir(), "nope"), "nope")
	assert.ErrorContains(t, err, domain.ErrAssetReadFailed.Error())
}

func TestWriter_Prune(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ctx := context.Background()

	previous := dist.NewWriter(root, nil)
	for _, rel := range []string{"index.html", "app-aaaa.js", "img/old-1111.png", "keep.txt"} {
		_, err := previous.WriteFile(ctx, rel, []byte(rel))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "hook-output.txt"), []byte("x"), 0o600))

	current := dist.NewWriter(root, nil)
	for _, rel := range []string{"index.html", "app-bbbb.js", "keep.txt"} {
		_, err := current.WriteFile(ctx, rel, []byte(rel))
		require.NoError(t, err)
	}

	removed, err := current.Prune(ctx, previous.Written())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"app-aaaa.js", "img/old-1111.png"}, removed)

	assert.NoFileExists(t, filepath.Join(root, "app-aaaa.js"))
	assert.NoDirExists(t, filepath.Join(root, "img"))
	assert.FileExists(t, filepath.Join(root, "app-bbbb.js"))
	assert.FileExists(t, filepath.Join(root, "hook-output.txt"), "files loom never wrote are kept")

	removed, err = current.Prune(ctx, []string{"../escape.txt", "already-gone.js"})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestHashedName(t *testing.T) {
	t.Parallel()

	a := dist.HashedName("images/logo.png", []byte("one"))
	b := dist.HashedName("logo.png", []byte("one"))
	c := dist.HashedName("logo.png", []byte("two"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, b, c)
	assert.Regexp(t, `^logo-[0-9a-f]{16}\.png$`, a)
	assert.Regexp(t, `^LICENSE-[0-9a-f]{16}$`, dist.HashedName("LICENSE", nil))
}

func TestWriter_WriteHashed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := dist.NewWriter(root, nil)

	rel, err := w.WriteHashed(context.Background(), "icons/favicon.ico", []byte("icon"))
	require.NoError(t, err)
	assert.Regexp(t, `^icons/favicon-[0-9a-f]{16}\.ico$`, rel)

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "icon", string(data))
	assert.Equal(t, []string{rel}, w.Written())
}
