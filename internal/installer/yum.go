package installer

import (
	"context"

	"github.com/frederic-klein/yahb/internal/manifest"
)

// Yum installs rpm requirements with yum.
type Yum struct {
	Runner Runner
}

func (y *Yum) Install(ctx context.Context, req manifest.Requirement) error {
	arg := req.Name
	// yum has no operator syntax; exact pins become name-version, anything
	// else installs whatever the enabled repos carry.
	if req.Operator() == "==" {
		arg = req.Name + "-" + req.Version()
	}
	return y.Runner.Run(ctx, "yum", "install", "-y", arg)
}
