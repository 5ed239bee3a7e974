package manifest

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Step names recognized by the bootstrap runner.
const (
	StepEpel     = "epel"
	StepPackages = "packages"
)

// Provider identifies the package ecosystem a requirement is sourced from.
type Provider string

const (
	ProviderRPM  Provider = "rpm"
	ProviderPypi Provider = "pypi"
)

// ParseProvider validates a provider token from a require line.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderRPM, ProviderPypi:
		return Provider(s), nil
	}
	return "", fmt.Errorf("unknown provider %q", s)
}

// Requirement is a single installable package, optionally pinned by a
// version constraint like ">=0.9.2" or "==2.4.4".
type Requirement struct {
	Provider   Provider `yaml:"provider"`
	Name       string   `yaml:"name"`
	Constraint string   `yaml:"constraint,omitempty"`
}

// Spec renders the requirement the way require lines spell it, e.g.
// "keyring>=0.9.2".
func (r Requirement) Spec() string {
	return r.Name + r.Constraint
}

// Manifest is a parsed bootstrap manifest: a host identity header plus an
// ordered list of steps and requirements.
type Manifest struct {
	Shortname    string        `yaml:"shortname"`
	MinRelease   string        `yaml:"min_release,omitempty"`
	Steps        []string      `yaml:"steps"`
	EpelRPMURL   string        `yaml:"epel_rpm_url,omitempty"`
	Requirements []Requirement `yaml:"requirements,omitempty"`
}

var (
	ErrMissingShortname = errors.New("manifest missing SHORTNAME")
	ErrNoSteps          = errors.New("manifest declares no steps")
	ErrMissingEpelURL   = errors.New("epel step declared but EPEL_RPM_URL missing")
	ErrNoRequirements   = errors.New("packages step declared but no require lines")
)

// Validate checks the invariants the bootstrap runner relies on. Parsing
// calls it, so a Manifest obtained from Parser is always valid.
func (m *Manifest) Validate() error {
	if m.Shortname == "" {
		return ErrMissingShortname
	}
	if len(m.Steps) == 0 {
		return ErrNoSteps
	}
	seen := make(map[string]bool, len(m.Steps))
	for _, s := range m.Steps {
		if seen[s] {
			return fmt.Errorf("duplicate step %q", s)
		}
		seen[s] = true
	}
	if seen[StepEpel] && m.EpelRPMURL == "" {
		return ErrMissingEpelURL
	}
	if seen[StepPackages] && len(m.Requirements) == 0 {
		return ErrNoRequirements
	}
	if m.MinRelease != "" {
		if _, err := semver.NewVersion(m.MinRelease); err != nil {
			return fmt.Errorf("invalid MIN_RELEASE %q: %w", m.MinRelease, err)
		}
	}
	for _, r := range m.Requirements {
		if r.Constraint == "" {
			continue
		}
		if _, err := r.constraints(); err != nil {
			return fmt.Errorf("requirement %s: %w", r.Name, err)
		}
	}
	return nil
}
