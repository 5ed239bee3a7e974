package manifest

import (
	"fmt"
	"io"
	"strings"
)

// Emitter writes manifests in canonical form: the header block in fixed
// key order, then one require line per requirement in listed order.
// Parsing emitted output yields an equivalent manifest.
type Emitter struct {
	w io.Writer
}

// NewEmitter creates a new manifest emitter.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Emit writes the manifest.
func (e *Emitter) Emit(m *Manifest) error {
	if _, err := fmt.Fprintf(e.w, "SHORTNAME=%s\n", m.Shortname); err != nil {
		return err
	}

	if m.MinRelease != "" {
		if _, err := fmt.Fprintf(e.w, "MIN_RELEASE=%s\n", m.MinRelease); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(e.w, "STEPS=%s\n", strings.Join(m.Steps, " ")); err != nil {
		return err
	}

	if m.EpelRPMURL != "" {
		if _, err := fmt.Fprintf(e.w, "EPEL_RPM_URL=%s\n", m.EpelRPMURL); err != nil {
			return err
		}
	}

	if len(m.Requirements) == 0 {
		return nil
	}

	if _, err := fmt.Fprint(e.w, "\n"); err != nil {
		return err
	}
	for _, r := range m.Requirements {
		if _, err := fmt.Fprintf(e.w, "require %s %s\n", r.Provider, r.Spec()); err != nil {
			return err
		}
	}
	return nil
}
