package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/zerr"
)

// fileLoaders emits referenced images and fonts as separate hashed files.
var fileLoaders = map[string]api.Loader{
	".png":   api.LoaderFile,
	".jpg":   api.LoaderFile,
	".jpeg":  api.LoaderFile,
	".gif":   api.LoaderFile,
	".svg":   api.LoaderFile,
	".webp":  api.LoaderFile,
	".avif":  api.LoaderFile,
	".ico":   api.LoaderFile,
	".woff":  api.LoaderFile,
	".woff2": api.LoaderFile,
	".ttf":   api.LoaderFile,
	".otf":   api.LoaderFile,
	".eot":   api.LoaderFile,
}

// bundle runs esbuild for one entry point and writes every output file to dist.
// It returns the public URLs of the emitted files in esbuild's output order.
func bundle(ctx context.Context, cfg *domain.BuildConfig, w ports.DistWriter, a asset) ([]string, error) {
	if _, err := os.Stat(a.path); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetReadFailed.Error()), "path", a.path)
	}

	opts := api.BuildOptions{
		EntryPoints:       []string{a.path},
		AbsWorkingDir:     cfg.SourceDir,
		Outdir:            w.Root(),
		Bundle:            true,
		Write:             false,
		EntryNames:        "[name]-[hash]",
		AssetNames:        "[name]-[hash]",
		ChunkNames:        "[name]-[hash]",
		PublicPath:        cfg.PublicURL,
		Loader:            fileLoaders,
		Platform:          api.PlatformBrowser,
		LogLevel:          api.LogLevelSilent,
		MinifyWhitespace:  cfg.Release,
		MinifyIdentifiers: cfg.Release,
		MinifySyntax:      cfg.Release,
	}
	if a.kind == KindJS {
		opts.Format = api.FormatESModule
	}

	build, cerr := api.Context(opts)
	if cerr != nil {
		return nil, bundleError(a, cerr.Errors)
	}
	defer build.Dispose()

	stop := context.AfterFunc(ctx, build.Cancel)
	defer stop()

	result := build.Rebuild()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, bundleError(a, result.Errors)
	}

	urls := make([]string, 0, len(result.OutputFiles))
	for _, out := range result.OutputFiles {
		rel, err := filepath.Rel(w.Root(), out.Path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrAssetWriteFailed.Error()), "path", out.Path)
		}
		if _, err := w.WriteFile(ctx, rel, out.Contents); err != nil {
			return nil, err
		}
		urls = append(urls, cfg.PublicURL+filepath.ToSlash(rel))
	}
	return urls, nil
}

func bundleError(a asset, msgs []api.Message) error {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Location == nil {
			lines = append(lines, m.Text)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
	}
	return zerr.With(zerr.Wrap(errors.New(strings.Join(lines, "\n")), domain.ErrBundleFailed.Error()), "asset", a.href)
}
