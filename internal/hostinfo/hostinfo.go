// Package hostinfo detects the operating system release of the host a
// bootstrap run targets.
package hostinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Locations consulted by Detect, in order. Package variables so tests can
// point them elsewhere.
var (
	osReleasePath     = "/etc/os-release"
	redhatReleasePath = "/etc/redhat-release"
)

// Release describes a detected operating system release.
type Release struct {
	ID      string // e.g. "centos", "rhel", "fedora"
	Version string // e.g. "6.3"
}

// Detect reads the host's release information, preferring os-release(5)
// and falling back to the legacy redhat-release file.
func Detect() (*Release, error) {
	if f, err := os.Open(osReleasePath); err == nil {
		defer f.Close()
		return ParseOSRelease(f)
	}
	f, err := os.Open(redhatReleasePath)
	if err != nil {
		return nil, fmt.Errorf("detecting release: %w", err)
	}
	defer f.Close()
	return ParseRedhatRelease(f)
}

// ParseOSRelease parses os-release(5) content.
func ParseOSRelease(r io.Reader) (*Release, error) {
	rel := &Release{}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			rel.ID = value
		case "VERSION_ID":
			rel.Version = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading os-release: %w", err)
	}

	if rel.Version == "" {
		return nil, errors.New("os-release has no VERSION_ID")
	}
	return rel, nil
}

// Matches lines like "CentOS release 6.3 (Final)" and
// "Red Hat Enterprise Linux Server release 6.2 (Santiago)".
var redhatReleaseRe = regexp.MustCompile(`^(.+?)\s+release\s+([\d.]+)`)

// ParseRedhatRelease parses legacy /etc/redhat-release content.
func ParseRedhatRelease(r io.Reader) (*Release, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading redhat-release: %w", err)
	}

	line := strings.TrimSpace(string(data))
	matches := redhatReleaseRe.FindStringSubmatch(line)
	if matches == nil {
		return nil, fmt.Errorf("unrecognized redhat-release line %q", line)
	}
	return &Release{ID: distroID(matches[1]), Version: matches[2]}, nil
}

func distroID(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "centos"):
		return "centos"
	case strings.Contains(lower, "red hat"):
		return "rhel"
	case strings.Contains(lower, "fedora"):
		return "fedora"
	}
	return strings.Fields(lower)[0]
}

// AtLeast reports whether the release version meets the given minimum.
func (r *Release) AtLeast(min string) (bool, error) {
	have, err := semver.NewVersion(r.Version)
	if err != nil {
		return false, fmt.Errorf("invalid release version %q: %w", r.Version, err)
	}
	want, err := semver.NewVersion(min)
	if err != nil {
		return false, fmt.Errorf("invalid minimum release %q: %w", min, err)
	}
	return !have.LessThan(want), nil
}
