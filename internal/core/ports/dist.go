package ports

import "context"

// DistWriter places the outputs of a single build in the dist directory.
// Every path is announced on the watcher's ignore channel before it is touched.
//
//go:generate mockgen -source=dist.go -destination=mocks/mock_dist.go -package=mocks
type DistWriter interface {
	// Root returns the absolute dist directory.
	Root() string
	// Announce tells the watch driver to ignore changes to path.
	Announce(ctx context.Context, path string) error
	// WriteFile atomically writes data to rel inside dist and returns the absolute path.
	WriteFile(ctx context.Context, rel string, data []byte) (string, error)
	// WriteHashed writes data under a content-hashed form of name and returns the
	// dist-relative slash path.
	WriteHashed(ctx context.Context, name string, data []byte) (string, error)
	// CopyFile copies src to rel inside dist and returns the absolute path.
	CopyFile(ctx context.Context, src, rel string) (string, error)
	// CopyDir recursively copies src to rel inside dist.
	CopyDir(ctx context.Context, src, rel string) error
	// Written returns the dist-relative slash paths written so far, sorted.
	Written() []string
	// Prune removes the files of previous that were not written by this writer.
	Prune(ctx context.Context, previous []string) ([]string, error)
}
