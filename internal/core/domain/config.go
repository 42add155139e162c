package domain

import (
	"net/url"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// HookStage names the point of a build at which a hook runs.
type HookStage string

const (
	// HookPreBuild hooks run after dist is created and before the pipeline starts.
	HookPreBuild HookStage = "pre_build"
	// HookBuild hooks run concurrently with the asset nodes of the pipeline.
	HookBuild HookStage = "build"
	// HookPostBuild hooks run after the document has been written.
	HookPostBuild HookStage = "post_build"
)

// Hook is a user command run at a fixed stage of every build.
type Hook struct {
	Stage   HookStage
	Command []string
}

// ProxyRule forwards requests under Prefix to Backend.
// The forwarded path is Backend.Path + Rewrite + the remainder after Prefix.
type ProxyRule struct {
	Prefix  string
	Backend *url.URL
	Rewrite string
}

// Match reports whether the request path falls under the rule's prefix.
// Matching is segment aware: "/api" matches "/api" and "/api/x" but not "/apix".
func (r ProxyRule) Match(p string) bool {
	if p == r.Prefix {
		return true
	}
	return strings.HasPrefix(p, r.Prefix+"/")
}

// BuildConfig is the resolved configuration shared by every component.
// It is created once by NewBuildConfig and must not be modified afterwards.
type BuildConfig struct {
	// Root is the absolute project directory. Relative paths resolve against it.
	Root string
	// Target is the absolute path of the root HTML document.
	Target string
	// SourceDir is the directory containing Target. Asset hrefs resolve against it.
	SourceDir string
	// Dist is the absolute output directory.
	Dist string
	// PublicURL is the URL prefix assets are served under, always "/…/".
	PublicURL string
	// Release enables minification.
	Release bool

	// Port is the development server port. Zero picks an ephemeral port.
	Port int
	// Open launches the default browser once the server is listening.
	Open bool
	// HotReload injects the reload script and enables the build event stream.
	HotReload bool
	// Metrics exposes Prometheus metrics on the development server.
	Metrics bool

	// ProxyBackend is the single-backend proxy form. It is routed before Proxies.
	ProxyBackend *ProxyRule
	// Proxies are matched in configuration order after ProxyBackend.
	Proxies []ProxyRule

	// WatchPaths are the absolute paths observed for changes.
	WatchPaths []string
	// WatchIgnore are absolute paths whose changes never trigger a rebuild.
	WatchIgnore []string

	// Hooks run in configuration order within their stage.
	Hooks []Hook
}

// ProxyRules returns every configured proxy rule in routing order.
func (c *BuildConfig) ProxyRules() []ProxyRule {
	rules := make([]ProxyRule, 0, len(c.Proxies)+1)
	if c.ProxyBackend != nil {
		rules = append(rules, *c.ProxyBackend)
	}
	return append(rules, c.Proxies...)
}

// HooksFor returns the hooks of the given stage in configuration order.
func (c *BuildConfig) HooksFor(stage HookStage) []Hook {
	var hooks []Hook
	for _, h := range c.Hooks {
		if h.Stage == stage {
			hooks = append(hooks, h)
		}
	}
	return hooks
}

// ServeURL is the address printed and opened for the development server.
func (c *BuildConfig) ServeURL(port int) string {
	return "http://127.0.0.1:" + strconv.Itoa(port) + c.PublicURL
}

// ProxyOptions is the unvalidated form of a proxy rule.
type ProxyOptions struct {
	Prefix  string
	Backend string
	Rewrite string
}

// HookOptions is the unvalidated form of a hook.
type HookOptions struct {
	Stage   string
	Command []string
}

// BuildOptions carries raw configuration before validation.
// Relative paths are resolved against Root.
type BuildOptions struct {
	Root string

	Target    string
	Dist      string
	PublicURL string
	Release   bool

	Port      int
	Open      bool
	HotReload bool
	Metrics   bool

	ProxyBackend string
	ProxyRewrite string
	Proxies      []ProxyOptions

	WatchPaths  []string
	WatchIgnore []string

	Hooks []HookOptions
}

// Overrides holds values set on the command line. Nil fields leave the
// configured value untouched.
type Overrides struct {
	Dist         *string
	PublicURL    *string
	Release      *bool
	Port         *int
	Open         *bool
	NoAutoReload *bool
	Metrics      *bool
	ProxyBackend *string
	ProxyRewrite *string
}

// Apply writes every set override into opts.
func (o Overrides) Apply(opts *BuildOptions) {
	if o.Dist != nil {
		opts.Dist = *o.Dist
	}
	if o.PublicURL != nil {
		opts.PublicURL = *o.PublicURL
	}
	if o.Release != nil {
		opts.Release = *o.Release
	}
	if o.Port != nil {
		opts.Port = *o.Port
	}
	if o.Open != nil {
		opts.Open = *o.Open
	}
	if o.NoAutoReload != nil {
		opts.HotReload = !*o.NoAutoReload
	}
	if o.Metrics != nil {
		opts.Metrics = *o.Metrics
	}
	if o.ProxyBackend != nil {
		opts.ProxyBackend = *o.ProxyBackend
	}
	if o.ProxyRewrite != nil {
		opts.ProxyRewrite = *o.ProxyRewrite
	}
}

// NewBuildConfig validates opts and returns the immutable configuration.
func NewBuildConfig(opts BuildOptions) (*BuildConfig, error) {
	root, err := filepath.Abs(defaultString(opts.Root, "."))
	if err != nil {
		return nil, zerr.Wrap(err, ErrInvalidConfig.Error())
	}

	if opts.Port < 0 || opts.Port > 65535 {
		return nil, zerr.With(ErrInvalidPort, "port", opts.Port)
	}

	target := resolvePath(root, defaultString(opts.Target, DefaultTarget))
	cfg := &BuildConfig{
		Root:      root,
		Target:    target,
		SourceDir: filepath.Dir(target),
		Dist:      resolvePath(root, defaultString(opts.Dist, DefaultDist)),
		PublicURL: NormalizePublicURL(opts.PublicURL),
		Release:   opts.Release,
		Port:      opts.Port,
		Open:      opts.Open,
		HotReload: opts.HotReload,
		Metrics:   opts.Metrics,
	}

	if opts.ProxyBackend != "" {
		rule, err := singleBackendRule(opts.ProxyBackend, opts.ProxyRewrite)
		if err != nil {
			return nil, err
		}
		cfg.ProxyBackend = &rule
	}

	for _, p := range opts.Proxies {
		rule, err := proxyRule(p)
		if err != nil {
			return nil, err
		}
		cfg.Proxies = append(cfg.Proxies, rule)
	}

	if err := validateProxyRules(cfg.ProxyRules()); err != nil {
		return nil, err
	}

	if len(opts.WatchPaths) == 0 {
		cfg.WatchPaths = []string{cfg.SourceDir}
	}
	for _, p := range opts.WatchPaths {
		cfg.WatchPaths = append(cfg.WatchPaths, resolvePath(root, p))
	}
	for _, p := range opts.WatchIgnore {
		cfg.WatchIgnore = append(cfg.WatchIgnore, resolvePath(root, p))
	}

	for _, h := range opts.Hooks {
		hook, err := newHook(h)
		if err != nil {
			return nil, err
		}
		cfg.Hooks = append(cfg.Hooks, hook)
	}

	return cfg, nil
}

// NormalizePublicURL returns u with exactly one leading and one trailing slash.
func NormalizePublicURL(u string) string {
	u = strings.Trim(u, "/")
	if u == "" {
		return DefaultPublicURL
	}
	return "/" + u + "/"
}

func singleBackendRule(backend, rewrite string) (ProxyRule, error) {
	u, err := parseBackend(backend)
	if err != nil {
		return ProxyRule{}, err
	}
	prefix := rewrite
	if prefix == "" {
		prefix = u.Path
	}
	return ProxyRule{Prefix: normalizePrefix(prefix), Backend: u}, nil
}

func proxyRule(p ProxyOptions) (ProxyRule, error) {
	u, err := parseBackend(p.Backend)
	if err != nil {
		return ProxyRule{}, err
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = u.Path
	}
	rule := ProxyRule{Prefix: normalizePrefix(prefix), Backend: u}
	if p.Rewrite != "" {
		rule.Rewrite = normalizePrefix(p.Rewrite)
	}
	return rule, nil
}

func parseBackend(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidProxyBackend.Error()), "backend", raw)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, zerr.With(ErrInvalidProxyBackend, "backend", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return u, nil
}

func validateProxyRules(rules []ProxyRule) error {
	seen := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Prefix == "/" {
			return zerr.With(zerr.With(ErrProxyConflict, "prefix", r.Prefix), "reason", "prefix would shadow every route")
		}
		if r.Prefix == BuildEventsPath || r.Prefix == MetricsPath {
			return zerr.With(zerr.With(ErrProxyConflict, "prefix", r.Prefix), "reason", "prefix is reserved")
		}
		if slices.Contains(seen, r.Prefix) {
			return zerr.With(zerr.With(ErrProxyConflict, "prefix", r.Prefix), "reason", "prefix configured more than once")
		}
		seen = append(seen, r.Prefix)
	}
	return nil
}

func newHook(h HookOptions) (Hook, error) {
	stage := HookStage(h.Stage)
	switch stage {
	case HookPreBuild, HookBuild, HookPostBuild:
	default:
		return Hook{}, zerr.With(ErrInvalidHookStage, "stage", h.Stage)
	}
	if len(h.Command) == 0 || h.Command[0] == "" {
		return Hook{}, zerr.With(ErrEmptyHookCommand, "stage", h.Stage)
	}
	return Hook{Stage: stage, Command: slices.Clone(h.Command)}, nil
}

func normalizePrefix(p string) string {
	return path.Clean("/" + strings.TrimSpace(p))
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
