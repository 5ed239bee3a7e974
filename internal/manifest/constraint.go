package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Comparison operators recognized in requirement constraints, longest
// first so ">=" matches before ">".
var constraintOps = []string{"==", "!=", ">=", "<=", ">", "<"}

// splitSpec splits a requirement spec like "keyring>=0.9.2" into the
// package name and its constraint. Specs without an operator come back
// with an empty constraint.
func splitSpec(spec string) (name, constraint string, err error) {
	idx := strings.IndexAny(spec, "=!<>")
	if idx == -1 {
		return spec, "", nil
	}
	if idx == 0 {
		return "", "", fmt.Errorf("requirement spec %q has no package name", spec)
	}
	name, constraint = spec[:idx], spec[idx:]
	for _, op := range constraintOps {
		if strings.HasPrefix(constraint, op) {
			if len(constraint) == len(op) {
				return "", "", fmt.Errorf("constraint %q missing a version", constraint)
			}
			return name, constraint, nil
		}
	}
	return "", "", fmt.Errorf("unknown constraint operator in %q", spec)
}

// Operator returns the comparison operator of the constraint, or "" when
// the requirement is unconstrained.
func (r Requirement) Operator() string {
	for _, op := range constraintOps {
		if strings.HasPrefix(r.Constraint, op) {
			return op
		}
	}
	return ""
}

// Version returns the version part of the constraint, or "".
func (r Requirement) Version() string {
	return strings.TrimPrefix(r.Constraint, r.Operator())
}

// Allows reports whether the given version satisfies the requirement's
// constraint. Unconstrained requirements allow any version.
func (r Requirement) Allows(version string) (bool, error) {
	if r.Constraint == "" {
		return true, nil
	}
	c, err := r.constraints()
	if err != nil {
		return false, err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", version, err)
	}
	return c.Check(v), nil
}

func (r Requirement) constraints() (*semver.Constraints, error) {
	op := r.Operator()
	if op == "" {
		return nil, fmt.Errorf("constraint %q has no operator", r.Constraint)
	}
	// semver spells exact pins with a single "=".
	if op == "==" {
		op = "="
	}
	c, err := semver.NewConstraint(op + " " + r.Version())
	if err != nil {
		return nil, fmt.Errorf("invalid constraint %q: %w", r.Constraint, err)
	}
	return c, nil
}
