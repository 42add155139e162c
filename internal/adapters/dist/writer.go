// Package dist writes build outputs into the dist directory.
package dist

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.DistWriter = (*Writer)(nil)

// Writer places files under a dist root for a single build.
// Every path is announced on the ignore channel before it is touched, and
// every file is written to a temp file first and renamed into place.
type Writer struct {
	root     string
	announce chan<- string

	mu      sync.Mutex
	written map[string]struct{}
}

// NewWriter creates a writer rooted at root. A nil announce channel disables announcements.
func NewWriter(root string, announce chan<- string) *Writer {
	return &Writer{
		root:     filepath.Clean(root),
		announce: announce,
		written:  make(map[string]struct{}),
	}
}

// Root returns the absolute dist directory.
func (w *Writer) Root() string {
	return w.root
}

// Announce sends path on the ignore channel. It blocks until the path is
// accepted or ctx is done.
func (w *Writer) Announce(ctx context.Context, path string) error {
	if w.announce == nil {
		return nil
	}
	select {
	case w.announce <- path:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WriteFile atomically writes data to rel inside the dist root and returns the absolute path.
func (w *Writer) WriteFile(ctx context.Context, rel string, data []byte) (string, error) {
	if !filepath.IsLocal(rel) {
		return "", zerr.With(domain.ErrAssetWriteFailed, "path", rel)
	}

	dst := filepath.Join(w.root, rel)
	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+uuid.NewString()+".tmp")

	if err := w.Announce(ctx, tmp); err != nil {
		return "", err
	}
	if err := w.Announce(ctx, dst); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrAssetWriteFailed.Error()), "path", dst)
	}

	//nolint:gosec // Path is inside the configured dist directory
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrAssetWriteFailed.Error()), "path", dst)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", zerr.With(zerr.Wrap(err, domain.ErrAssetWriteFailed.Error()), "path", dst)
	}

	w.record(rel)
	return dst, nil
}

// WriteHashed writes data to dist under HashedName(name, data) and returns the
// slash separated relative path.
func (w *Writer) WriteHashed(ctx context.Context, name string, data []byte) (string, error) {
	rel := filepath.Join(filepath.Dir(name), HashedName(name, data))
	if _, err := w.WriteFile(ctx, rel, data); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// CopyFile copies the source file to rel inside the dist root.
func (w *Writer) CopyFile(ctx context.Context, src, rel string) (string, error) {
	//nolint:gosec // Source paths come from the project document
	data, err := os.ReadFile(src)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrAssetReadFailed.Error()), "path", src)
	}
	return w.WriteFile(ctx, rel, data)
}

// CopyDir recursively copies the source directory to rel inside the dist root.
func (w *Writer) CopyDir(ctx context.Context, src, rel string) error {
	info, err := os.Stat(src)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrAssetReadFailed.Error()), "path", src)
	}
	if !info.IsDir() {
		return zerr.With(zerr.With(domain.ErrAssetReadFailed, "path", src), "reason", "not a directory")
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return zerr.With(zerr.Wrap(walkErr, domain.ErrAssetReadFailed.Error()), "path", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		sub, err := filepath.Rel(src, path)
		if err != nil {
			return zerr.Wrap(err, domain.ErrAssetReadFailed.Error())
		}
		_, err = w.CopyFile(ctx, path, filepath.Join(rel, sub))
		return err
	})
}

// Written returns the dist-relative paths written so far, slash separated and sorted.
func (w *Writer) Written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.written))
	for rel := range w.written {
		files = append(files, rel)
	}
	slices.Sort(files)
	return files
}

// Prune removes every file listed in previous that this writer did not write,
// then removes directories left empty by the removal. It returns the removed paths.
func (w *Writer) Prune(ctx context.Context, previous []string) ([]string, error) {
	w.mu.Lock()
	var stale []string
	for _, rel := range previous {
		if _, ok := w.written[rel]; !ok {
			stale = append(stale, rel)
		}
	}
	w.mu.Unlock()

	var removed []string
	dirs := make(map[string]struct{})
	for _, rel := range stale {
		native := filepath.FromSlash(rel)
		if !filepath.IsLocal(native) {
			continue
		}
		path := filepath.Join(w.root, native)
		if err := w.Announce(ctx, path); err != nil {
			return removed, err
		}
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, zerr.With(zerr.Wrap(err, domain.ErrPruneFailed.Error()), "path", path)
		}
		removed = append(removed, rel)
		for dir := filepath.Dir(path); dir != w.root && dir != "."; dir = filepath.Dir(dir) {
			dirs[dir] = struct{}{}
		}
	}

	// Deepest first so parents see their emptied children removed.
	ordered := make([]string, 0, len(dirs))
	for dir := range dirs {
		ordered = append(ordered, dir)
	}
	slices.SortFunc(ordered, func(a, b string) int { return len(b) - len(a) })
	for _, dir := range ordered {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, zerr.With(zerr.Wrap(err, domain.ErrPruneFailed.Error()), "path", dir)
		}
	}

	return removed, nil
}

func (w *Writer) record(rel string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written[filepath.ToSlash(filepath.Clean(rel))] = struct{}{}
}
