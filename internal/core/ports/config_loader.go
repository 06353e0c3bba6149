package ports

import "go.trai.ch/knob/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from the given working directory and returns the resolved project.
	// A missing config file yields the default project rooted at cwd.
	Load(cwd string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd to find the directory holding knob.yaml or knob.toml.
	DiscoverRoot(cwd string) (string, error)
}
