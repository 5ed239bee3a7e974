// Package installer turns manifest requirements into package-manager
// invocations, one provider per installer.
package installer

import (
	"context"

	"github.com/frederic-klein/yahb/internal/manifest"
)

// Installer installs requirements sourced from a single provider.
type Installer interface {
	Install(ctx context.Context, req manifest.Requirement) error
}

// ForProviders returns the provider dispatch map used by the packages
// step.
func ForProviders(r Runner) map[manifest.Provider]Installer {
	return map[manifest.Provider]Installer{
		manifest.ProviderRPM:  &Yum{Runner: r},
		manifest.ProviderPypi: &Pip{Runner: r},
	}
}
