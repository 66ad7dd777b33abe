// Package requirements parses dependency manifest files and merges them into
// a single table of per-package version constraints. Manifests follow the
// usual requirements.txt shape: one entry per line, '#' comments, optional
// extras bracket, a comma-separated constraint list and an optional
// environment marker after ';'.
package requirements

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/samber/lo"

	"github.com/frederic-klein/specrender/internal/pkgver"
)

// ErrInvalidRequirementLine is returned when a manifest line does not match
// the requirement grammar. The error names the file and line number.
var ErrInvalidRequirementLine = errors.New("invalid requirement line")

// Constraint is a single version bound for a package.
type Constraint struct {
	Operator string // one of ==, >=, <=, >, <, !=, ~=
	Version  string
}

// Table maps package names to their effective version constraint.
type Table map[string]Constraint

var (
	entryRe      = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)(?:\[[^\]]*\])?\s*(.*)$`)
	constraintRe = regexp.MustCompile(`^(==|>=|<=|!=|~=|>|<)\s*([^\s,]+)$`)
)

// Merge parses the given manifest files in order and merges them last-wins:
// a later file's entry for a name fully replaces any earlier one.
func Merge(paths []string) (Table, error) {
	merged := Table{}
	for _, path := range paths {
		table, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		merged = lo.Assign(merged, table)
	}
	return merged, nil
}

// Lookup returns the constraint for name, if any.
func (t Table) Lookup(name string) (Constraint, bool) {
	c, ok := t[name]
	return c, ok
}

func parseFile(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening requirements file: %w", err)
	}
	defer file.Close()

	table := Table{}
	lineno := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineno++
		name, constraint, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrInvalidRequirementLine, path, lineno, err)
		}
		if !ok {
			continue
		}
		table[name] = constraint
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading requirements file: %w", err)
	}

	return table, nil
}

// parseLine parses one manifest line. ok is false for blank lines, comments,
// entries without a version bound and entries excluded by their environment
// marker.
func parseLine(line string) (name string, c Constraint, ok bool, err error) {
	// strip trailing comment, then surrounding space
	if idx := strings.Index(line, "#"); idx != -1 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", Constraint{}, false, nil
	}

	// environment marker
	if spec, marker, found := strings.Cut(line, ";"); found {
		if !evalMarker(strings.TrimSpace(marker)) {
			return "", Constraint{}, false, nil
		}
		line = strings.TrimSpace(spec)
	}

	m := entryRe.FindStringSubmatch(line)
	if m == nil {
		return "", Constraint{}, false, fmt.Errorf("unparsable entry %q", line)
	}
	name = m[1]

	rest := strings.TrimSpace(m[2])
	if rest == "" {
		// a bare name carries no version information worth injecting
		return "", Constraint{}, false, nil
	}

	lowest, found, err := lowestBound(rest)
	if err != nil {
		return "", Constraint{}, false, err
	}
	if !found {
		return "", Constraint{}, false, nil
	}
	return name, lowest, true, nil
}

// lowestBound picks the lowest non-exclusion bound from a comma-separated
// constraint list. That is the version a spec dependency should name: the
// minimum the package is known to work with.
func lowestBound(list string) (Constraint, bool, error) {
	var lowest Constraint
	var lowestVer pkgver.Version
	found := false

	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		m := constraintRe.FindStringSubmatch(part)
		if m == nil {
			return Constraint{}, false, fmt.Errorf("unparsable constraint %q", part)
		}
		if m[1] == "!=" {
			continue
		}
		ver, err := pkgver.Parse(m[2])
		if err != nil {
			return Constraint{}, false, err
		}
		if !found || ver.Compare(lowestVer) < 0 {
			lowest = Constraint{Operator: m[1], Version: m[2]}
			lowestVer = ver
			found = true
		}
	}
	return lowest, found, nil
}
