// Package epel enables the EPEL repository on a host by fetching and
// installing its release RPM.
package epel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/frederic-klein/yahb/internal/installer"
	"github.com/frederic-klein/yahb/internal/manifest"
)

// Step fetches the release RPM from the manifest's EPEL_RPM_URL and
// installs it with rpm, skipping hosts where EPEL is already enabled.
type Step struct {
	URL      string
	CacheDir string
	Runner   installer.Runner
	Client   *http.Client
	Logf     func(format string, args ...interface{})
}

// New creates the epel step with a default HTTP client.
func New(rpmURL, cacheDir string, runner installer.Runner, logf func(string, ...interface{})) *Step {
	return &Step{
		URL:      rpmURL,
		CacheDir: cacheDir,
		Runner:   runner,
		Client:   &http.Client{},
		Logf:     logf,
	}
}

func (s *Step) Name() string {
	return manifest.StepEpel
}

func (s *Step) Run(ctx context.Context) error {
	if s.Runner.Query(ctx, "rpm", "-q", "epel-release") {
		s.logf("epel-release already installed, skipping")
		return nil
	}

	rpmPath, err := s.fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching EPEL rpm: %w", err)
	}
	return s.Runner.Run(ctx, "rpm", "-Uvh", rpmPath)
}

// fetch downloads the release RPM into the cache directory, short-
// circuiting when a previous run already fetched it.
func (s *Step) fetch(ctx context.Context) (string, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return "", fmt.Errorf("parsing URL %s: %w", s.URL, err)
	}
	dest := filepath.Join(s.CacheDir, path.Base(u.Path))

	if _, err := os.Stat(dest); err == nil {
		s.logf("using cached %s", dest)
		return dest, nil
	}

	if err := os.MkdirAll(s.CacheDir, 0755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: HTTP %d", s.URL, resp.StatusCode)
	}

	// Write to temp file first, then rename
	tmpPath := dest + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	_, err = io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing file: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming file: %w", err)
	}

	return dest, nil
}

func (s *Step) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s *Step) logf(format string, args ...interface{}) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}
