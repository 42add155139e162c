package domain

import "go.trai.ch/zerr"

var (
	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a configuration value fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidPort is returned when the serve port is outside 1..65535.
	ErrInvalidPort = zerr.New("port must be between 1 and 65535")

	// ErrInvalidProxyBackend is returned when a proxy backend is not an absolute http(s) URL.
	ErrInvalidProxyBackend = zerr.New("proxy backend must be an absolute http or https URL")

	// ErrProxyConflict is returned when proxy rules would make routing ambiguous.
	ErrProxyConflict = zerr.New("conflicting proxy rules")

	// ErrProxyFailed is returned when a proxied request cannot reach its backend.
	ErrProxyFailed = zerr.New("proxy backend request failed")

	// ErrInvalidHookStage is returned when a hook names an unknown stage.
	ErrInvalidHookStage = zerr.New("invalid hook stage, expected 'pre_build', 'build' or 'post_build'")

	// ErrEmptyHookCommand is returned when a hook has no command.
	ErrEmptyHookCommand = zerr.New("hook command is empty")

	// ErrCreateDistFailed is returned when the output directory cannot be created.
	ErrCreateDistFailed = zerr.New("failed to create dist directory")

	// ErrBuildFailed is returned when a build does not complete.
	ErrBuildFailed = zerr.New("build failed")

	// ErrPipelineConsumed is returned when a document pipeline is spawned twice.
	ErrPipelineConsumed = zerr.New("pipeline has already been spawned")

	// ErrTargetReadFailed is returned when the root HTML document cannot be read.
	ErrTargetReadFailed = zerr.New("failed to read target html")

	// ErrTargetParseFailed is returned when the root HTML document cannot be parsed.
	ErrTargetParseFailed = zerr.New("failed to parse target html")

	// ErrMissingHref is returned when an asset link has no href attribute.
	ErrMissingHref = zerr.New("asset link is missing the href attribute")

	// ErrUnknownAssetKind is returned when an asset link names an unsupported rel.
	ErrUnknownAssetKind = zerr.New("unknown asset rel")

	// ErrAssetReadFailed is returned when a referenced asset cannot be read.
	ErrAssetReadFailed = zerr.New("failed to read asset")

	// ErrAssetWriteFailed is returned when an asset cannot be written to dist.
	ErrAssetWriteFailed = zerr.New("failed to write asset")

	// ErrBundleFailed is returned when esbuild reports errors for an asset.
	ErrBundleFailed = zerr.New("failed to bundle asset")

	// ErrDocumentRenderFailed is returned when the patched document cannot be serialized.
	ErrDocumentRenderFailed = zerr.New("failed to render html document")

	// ErrElementDetached is returned when a node patch targets an element no longer in the document.
	ErrElementDetached = zerr.New("asset element is no longer attached to the document")

	// ErrHookFailed is returned when a hook command exits with an error.
	ErrHookFailed = zerr.New("hook failed")

	// ErrPruneFailed is returned when stale files cannot be removed from dist.
	ErrPruneFailed = zerr.New("failed to prune stale assets")

	// ErrManifestReadFailed is returned when the build manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read build manifest")

	// ErrManifestUnmarshalFailed is returned when the build manifest is corrupt.
	ErrManifestUnmarshalFailed = zerr.New("failed to unmarshal build manifest")

	// ErrManifestWriteFailed is returned when the build manifest cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write build manifest")

	// ErrBusClosed is returned by a subscription once the event bus is closed and drained.
	ErrBusClosed = zerr.New("event bus closed")

	// ErrServerListenFailed is returned when the development server cannot bind its port.
	ErrServerListenFailed = zerr.New("failed to bind development server")

	// ErrFallbackUnavailable is returned when the fallback document cannot be read.
	ErrFallbackUnavailable = zerr.New("fallback document unavailable")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start file watcher")

	// ErrInvalidOutputMode is returned when --output names an unknown renderer.
	ErrInvalidOutputMode = zerr.New("invalid output mode, expected 'auto', 'tui', 'linear' or 'ci'")

	// ErrCleanFailed is returned when the dist directory cannot be removed.
	ErrCleanFailed = zerr.New("failed to remove dist directory")

	// ErrNodeCancelled is reported for a pipeline node stopped because a sibling failed.
	ErrNodeCancelled = zerr.New("cancelled after another node failed")
)
