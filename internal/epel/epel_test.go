package epel_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frederic-klein/yahb/internal/epel"
)

type fakeRunner struct {
	commands  []string
	installed bool // answer for the rpm -q probe
	err       error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) error {
	f.commands = append(f.commands, name+" "+strings.Join(args, " "))
	return f.err
}

func (f *fakeRunner) Query(ctx context.Context, name string, args ...string) bool {
	return f.installed
}

func TestStep_Run_FetchesAndInstalls(t *testing.T) {
	content := []byte("fake rpm payload")
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write(content)
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	runner := &fakeRunner{}
	step := epel.New(server.URL+"/epel-release-6-5.noarch.rpm", cacheDir, runner, nil)

	require.NoError(t, step.Run(context.Background()))

	wantPath := filepath.Join(cacheDir, "epel-release-6-5.noarch.rpm")
	data, err := os.ReadFile(wantPath)
	require.NoError(t, err)
	assert.Equal(t, content, data)

	require.Len(t, runner.commands, 1)
	assert.Equal(t, "rpm -Uvh "+wantPath, runner.commands[0])
	assert.Equal(t, 1, requests)
}

func TestStep_Run_SkipsWhenAlreadyInstalled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called")
	}))
	defer server.Close()

	runner := &fakeRunner{installed: true}
	step := epel.New(server.URL+"/epel.rpm", t.TempDir(), runner, nil)

	require.NoError(t, step.Run(context.Background()))
	assert.Empty(t, runner.commands)
}

func TestStep_Run_UsesCachedRPM(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte("new content"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	cached := filepath.Join(cacheDir, "epel.rpm")
	require.NoError(t, os.WriteFile(cached, []byte("cached"), 0644))

	runner := &fakeRunner{}
	step := epel.New(server.URL+"/epel.rpm", cacheDir, runner, nil)

	require.NoError(t, step.Run(context.Background()))
	assert.Equal(t, 0, requests)
	require.Len(t, runner.commands, 1)
	assert.Equal(t, "rpm -Uvh "+cached, runner.commands[0])
}

func TestStep_Run_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	runner := &fakeRunner{}
	step := epel.New(server.URL+"/epel.rpm", t.TempDir(), runner, nil)

	err := step.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Empty(t, runner.commands)
}
