package installer

import (
	"context"

	"github.com/frederic-klein/yahb/internal/manifest"
)

// Pip installs pypi requirements with pip, which speaks the same
// constraint syntax as require lines.
type Pip struct {
	Runner Runner
}

func (p *Pip) Install(ctx context.Context, req manifest.Requirement) error {
	return p.Runner.Run(ctx, "pip", "install", req.Spec())
}
