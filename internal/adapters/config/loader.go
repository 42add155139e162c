// Package config provides the configuration loader for loom.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds loom.yaml in cwd or its ancestors. Without one, defaults rooted at
// cwd are used. Overrides are applied before validation.
func (l *Loader) Load(cwd string, overrides domain.Overrides) (*domain.BuildConfig, error) {
	var file Loomfile
	root := cwd

	configPath, err := findConfiguration(cwd)
	switch {
	case err == nil:
		if err := readAndUnmarshalYAML(configPath, &file); err != nil {
			return nil, zerr.With(err, "path", configPath)
		}
		root = filepath.Dir(configPath)
		l.Logger.Debug("using configuration " + configPath)
	case errors.Is(err, fs.ErrNotExist):
		l.Logger.Debug("no " + domain.ConfigFileName + " found, using defaults")
	default:
		return nil, err
	}

	opts := toBuildOptions(root, &file)
	overrides.Apply(&opts)

	cfg, err := domain.NewBuildConfig(opts)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrInvalidConfig.Error())
	}
	return cfg, nil
}

func findConfiguration(cwd string) (string, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fs.ErrNotExist
		}
		dir = parent
	}
}

func toBuildOptions(root string, file *Loomfile) domain.BuildOptions {
	port := domain.DefaultPort
	if file.Serve.Port != nil {
		port = *file.Serve.Port
	}

	opts := domain.BuildOptions{
		Root:         root,
		Target:       file.Build.Target,
		Dist:         file.Build.Dist,
		PublicURL:    file.Build.PublicURL,
		Release:      file.Build.Release,
		Port:         port,
		Open:         file.Serve.Open,
		HotReload:    !file.Serve.NoAutoReload,
		Metrics:      file.Serve.Metrics,
		ProxyBackend: file.Serve.ProxyBackend,
		ProxyRewrite: file.Serve.ProxyRewrite,
		WatchPaths:   file.Watch.Paths,
		WatchIgnore:  file.Watch.Ignore,
	}

	for _, p := range file.Proxies {
		opts.Proxies = append(opts.Proxies, domain.ProxyOptions{
			Prefix:  p.Prefix,
			Backend: p.Backend,
			Rewrite: p.Rewrite,
		})
	}
	for _, h := range file.Hooks {
		opts.Hooks = append(opts.Hooks, domain.HookOptions{
			Stage:   h.Stage,
			Command: h.Command,
		})
	}
	return opts
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath comes from discovery above
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}
