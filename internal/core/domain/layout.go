package domain

import "path/filepath"

const (
	// LoomDirName is the name of the internal project metadata directory.
	LoomDirName = ".loom"

	// ManifestDirName is the name of the directory holding build manifests.
	ManifestDirName = "manifests"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "loom.yaml"

	// DefaultTarget is the root HTML document used when none is configured.
	DefaultTarget = "index.html"

	// DefaultDist is the output directory used when none is configured.
	DefaultDist = "dist"

	// DefaultPublicURL is the public URL prefix used when none is configured.
	DefaultPublicURL = "/"

	// DefaultPort is the development server port used when none is configured.
	DefaultPort = 8080

	// IndexFileName is the name of the rewritten root document inside dist.
	IndexFileName = "index.html"

	// BuildEventsPath is the SSE endpoint that streams build events.
	BuildEventsPath = "/build_events"

	// BuildEventName is the SSE event name used for build events.
	BuildEventName = "build_event"

	// MetricsPath is the endpoint exposing Prometheus metrics when enabled.
	MetricsPath = "/_loom/metrics"

	// AssetAttr marks a <link> element as an asset reference for the pipeline.
	AssetAttr = "data-loom"

	// NodeKindAttr is the span attribute holding a pipeline node's kind.
	NodeKindAttr = "loom.node.kind"

	// NodeCancelledAttr is set on the span of a node whose build was already failing.
	NodeCancelledAttr = "loom.node.cancelled"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultManifestPath returns the default path for build manifests.
// It joins .loom and manifests.
func DefaultManifestPath() string {
	return filepath.Join(LoomDirName, ManifestDirName)
}
