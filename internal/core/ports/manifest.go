package ports

// ManifestStore remembers which files the previous build wrote into a dist directory.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestStore interface {
	// Get returns the dist-relative paths recorded for dist under the project root.
	// A missing manifest returns nil, nil.
	Get(root, dist string) ([]string, error)
	// Put replaces the manifest for dist under the project root.
	Put(root, dist string, files []string) error
}
