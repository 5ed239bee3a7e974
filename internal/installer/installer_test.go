package installer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frederic-klein/yahb/internal/installer"
	"github.com/frederic-klein/yahb/internal/manifest"
)

// fakeRunner records every command instead of executing it.
type fakeRunner struct {
	commands []string
	err      error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.commands = append(f.commands, name+" "+strings.Join(args, " "))
	return f.err
}

func (f *fakeRunner) Query(ctx context.Context, name string, args ...string) bool {
	return false
}

func TestYum_Install(t *testing.T) {
	tests := []struct {
		name string
		req  manifest.Requirement
		want string
	}{
		{
			name: "plain package",
			req:  manifest.Requirement{Provider: manifest.ProviderRPM, Name: "PyYAML"},
			want: "yum install -y PyYAML",
		},
		{
			name: "exact pin becomes name-version",
			req:  manifest.Requirement{Provider: manifest.ProviderRPM, Name: "git", Constraint: "==1.7.1"},
			want: "yum install -y git-1.7.1",
		},
		{
			name: "range constraint is ignored",
			req:  manifest.Requirement{Provider: manifest.ProviderRPM, Name: "git", Constraint: ">=1.7"},
			want: "yum install -y git",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			yum := &installer.Yum{Runner: runner}
			require.NoError(t, yum.Install(context.Background(), tt.req))
			require.Len(t, runner.commands, 1)
			assert.Equal(t, tt.want, runner.commands[0])
		})
	}
}

func TestPip_Install(t *testing.T) {
	tests := []struct {
		name string
		req  manifest.Requirement
		want string
	}{
		{
			name: "plain package",
			req:  manifest.Requirement{Provider: manifest.ProviderPypi, Name: "termcolor"},
			want: "pip install termcolor",
		},
		{
			name: "constraint passed through",
			req:  manifest.Requirement{Provider: manifest.ProviderPypi, Name: "keyring", Constraint: ">=0.9.2"},
			want: "pip install keyring>=0.9.2",
		},
		{
			name: "exact pin passed through",
			req:  manifest.Requirement{Provider: manifest.ProviderPypi, Name: "Cheetah", Constraint: "==2.4.4"},
			want: "pip install Cheetah==2.4.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			pip := &installer.Pip{Runner: runner}
			require.NoError(t, pip.Install(context.Background(), tt.req))
			require.Len(t, runner.commands, 1)
			assert.Equal(t, tt.want, runner.commands[0])
		})
	}
}

func TestForProviders_CoversAllProviders(t *testing.T) {
	installers := installer.ForProviders(&fakeRunner{})
	assert.Contains(t, installers, manifest.ProviderRPM)
	assert.Contains(t, installers, manifest.ProviderPypi)
}

func TestDryRunner(t *testing.T) {
	var buf bytes.Buffer
	dry := &installer.DryRunner{Out: &buf}

	require.NoError(t, dry.Run(context.Background(), "yum", "install", "-y", "gcc"))
	assert.Equal(t, "would run: yum install -y gcc\n", buf.String())
	assert.False(t, dry.Query(context.Background(), "rpm", "-q", "epel-release"))
}
