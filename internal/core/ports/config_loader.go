package ports

import "go.trai.ch/loom/internal/core/domain"

// ConfigLoader defines the interface for loading the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the configuration file starting at cwd, applies the command line
	// overrides and returns the validated configuration.
	Load(cwd string, overrides domain.Overrides) (*domain.BuildConfig, error)
}
