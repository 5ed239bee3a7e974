package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var requireRe = regexp.MustCompile(`^require\s+(\S+)\s+(\S+)$`)

// Parser parses bootstrap manifest files.
type Parser struct{}

// NewParser creates a new manifest parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile parses the manifest at path.
func (p *Parser) ParseFile(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer file.Close()

	m, err := p.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// Parse reads a manifest. Require lines keep their declared order; the
// bootstrap runner installs them exactly in that order.
func (p *Parser) Parse(r io.Reader) (*Manifest, error) {
	m := &Manifest{}

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "require") {
			matches := requireRe.FindStringSubmatch(line)
			if matches == nil {
				return nil, fmt.Errorf("line %d: malformed require line %q", lineno, line)
			}
			provider, err := ParseProvider(matches[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			name, constraint, err := splitSpec(matches[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineno, err)
			}
			m.Requirements = append(m.Requirements, Requirement{
				Provider:   provider,
				Name:       name,
				Constraint: constraint,
			})
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected KEY=value or require line, got %q", lineno, line)
		}
		switch key {
		case "SHORTNAME":
			m.Shortname = value
		case "MIN_RELEASE":
			m.MinRelease = value
		case "STEPS":
			m.Steps = strings.Fields(value)
		case "EPEL_RPM_URL":
			m.EpelRPMURL = value
		default:
			return nil, fmt.Errorf("line %d: unknown header key %q", lineno, key)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
