// Package bootstrap drives a manifest through its declared steps.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/frederic-klein/yahb/internal/hostinfo"
	"github.com/frederic-klein/yahb/internal/installer"
	"github.com/frederic-klein/yahb/internal/manifest"
)

// ErrUnknownStep is returned when a manifest declares a step no handler
// is registered for.
var ErrUnknownStep = errors.New("unknown step")

// Step is one named unit of the bootstrap, dispatched in manifest order.
type Step interface {
	Name() string
	Run(ctx context.Context) error
}

// Runner executes a bootstrap run: release gate first, then each declared
// step strictly in order, stopping at the first failure.
type Runner struct {
	Manifest *manifest.Manifest
	Steps    map[string]Step   // keyed by step name
	Release  *hostinfo.Release // nil skips the MIN_RELEASE gate
	Logf     func(format string, args ...interface{})
}

func (r *Runner) Run(ctx context.Context) error {
	if r.Release != nil && r.Manifest.MinRelease != "" {
		ok, err := r.Release.AtLeast(r.Manifest.MinRelease)
		if err != nil {
			return fmt.Errorf("checking release: %w", err)
		}
		if !ok {
			return fmt.Errorf("host release %s is older than required %s",
				r.Release.Version, r.Manifest.MinRelease)
		}
	}

	for _, name := range r.Manifest.Steps {
		step, ok := r.Steps[name]
		if !ok {
			return fmt.Errorf("step %q: %w", name, ErrUnknownStep)
		}
		r.logf("running step %s", name)
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("step %s: %w", name, err)
		}
	}
	return nil
}

func (r *Runner) logf(format string, args ...interface{}) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

// PackagesStep installs every requirement in listed order. Order matters:
// later entries may depend on earlier ones, so the first failure aborts.
type PackagesStep struct {
	Requirements []manifest.Requirement
	Installers   map[manifest.Provider]installer.Installer
	Logf         func(format string, args ...interface{})
}

func (s *PackagesStep) Name() string {
	return manifest.StepPackages
}

func (s *PackagesStep) Run(ctx context.Context) error {
	for _, req := range s.Requirements {
		inst, ok := s.Installers[req.Provider]
		if !ok {
			return fmt.Errorf("no installer for provider %q", req.Provider)
		}
		if s.Logf != nil {
			s.Logf("installing %s (%s)", req.Spec(), req.Provider)
		}
		if err := inst.Install(ctx, req); err != nil {
			return fmt.Errorf("installing %s: %w", req.Spec(), err)
		}
	}
	return nil
}
