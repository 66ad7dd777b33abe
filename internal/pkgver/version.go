package pkgver

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrMalformedVersion is returned when an upstream version string does not
// match the accepted grammar.
var ErrMalformedVersion = errors.New("malformed version")

// PreKind classifies the pre-release tag of an upstream version.
type PreKind int

const (
	PreNone PreKind = iota
	PreAlpha
	PreBeta
	PreCandidate
)

func (k PreKind) String() string {
	switch k {
	case PreAlpha:
		return "alpha"
	case PreBeta:
		return "beta"
	case PreCandidate:
		return "rc"
	default:
		return ""
	}
}

// letter returns the short tag form used in upstream version strings.
func (k PreKind) letter() string {
	switch k {
	case PreAlpha:
		return "a"
	case PreBeta:
		return "b"
	case PreCandidate:
		return "rc"
	default:
		return ""
	}
}

// Version is the parsed representation of an upstream version string.
// Immutable once parsed.
type Version struct {
	Release []int   // dot-separated release segments, e.g. [1,2,3]
	Pre     PreKind // pre-release tag, PreNone for final releases
	PreNum  *int    // pre-release number, nil when the tag carries no digits
	Dev     *int    // development snapshot number
	Post    *int    // post-release number
	Local   string  // local version label, dropped from any RPM output
}

// Accepted grammar: optional leading 'v', one or more dot-separated
// non-negative integers, optional pre-release tag (a|b|rc with optional
// digits), optional '.devN', optional '.postN', optional '+local'.
// Tag letters are matched case-insensitively.
var versionRe = regexp.MustCompile(`^(?i)v?(\d+(?:\.\d+)*)(?:(a|b|rc)(\d*))?(?:\.dev(\d+))?(?:\.post(\d+))?(?:\+([a-z0-9][a-z0-9.]*))?$`)

// Parse parses an upstream version string into a Version. It returns an
// error wrapping ErrMalformedVersion when the input does not match the
// accepted grammar.
func Parse(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
	}

	var v Version
	for _, part := range strings.Split(m[1], ".") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
		}
		v.Release = append(v.Release, n)
	}

	switch strings.ToLower(m[2]) {
	case "a":
		v.Pre = PreAlpha
	case "b":
		v.Pre = PreBeta
	case "rc":
		v.Pre = PreCandidate
	}
	if v.Pre != PreNone && m[3] != "" {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
		}
		v.PreNum = &n
	}

	if m[4] != "" {
		n, err := strconv.Atoi(m[4])
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
		}
		v.Dev = &n
	}
	if m[5] != "" {
		n, err := strconv.Atoi(m[5])
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrMalformedVersion, s)
		}
		v.Post = &n
	}
	v.Local = m[6]

	return v, nil
}

// BaseVersion returns the release segments joined by dots, without any
// pre-release, dev, post or local information.
func (v Version) BaseVersion() string {
	parts := make([]string, len(v.Release))
	for i, n := range v.Release {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// IsPrerelease reports whether the version carries a pre-release or dev
// marker.
func (v Version) IsPrerelease() bool {
	return v.Pre != PreNone || v.Dev != nil
}

// String reconstructs the canonical upstream form of the version.
func (v Version) String() string {
	var b strings.Builder
	b.WriteString(v.BaseVersion())
	if v.Pre != PreNone {
		b.WriteString(v.Pre.letter())
		if v.PreNum != nil {
			b.WriteString(strconv.Itoa(*v.PreNum))
		}
	}
	if v.Dev != nil {
		fmt.Fprintf(&b, ".dev%d", *v.Dev)
	}
	if v.Post != nil {
		fmt.Fprintf(&b, ".post%d", *v.Post)
	}
	if v.Local != "" {
		b.WriteString("+" + v.Local)
	}
	return b.String()
}

// Compare orders two versions under the upstream scheme's natural ordering:
// dev snapshots sort below pre-releases, pre-releases below the final
// release, post-releases above it. Local labels do not participate.
func (v Version) Compare(o Version) int {
	if c := compareRelease(v.Release, o.Release); c != 0 {
		return c
	}
	if c := comparePhase(v, o); c != 0 {
		return c
	}
	if c := compareOptional(v.Post, o.Post, -1); c != 0 {
		return c
	}
	// a dev snapshot sorts below the same version without one
	return compareOptional(v.Dev, o.Dev, 1)
}

func compareRelease(a, b []int) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// comparePhase ranks the pre-release segment: a bare dev snapshot sorts
// below any tagged pre-release, which sorts below the final release.
func comparePhase(a, b Version) int {
	ra, rb := phaseRank(a), phaseRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}
	if a.Pre == PreNone {
		return 0
	}
	return compareOptional(a.PreNum, b.PreNum, 1)
}

func phaseRank(v Version) int {
	switch v.Pre {
	case PreAlpha:
		return 1
	case PreBeta:
		return 2
	case PreCandidate:
		return 3
	}
	if v.Dev != nil {
		return 0
	}
	return 4
}

// compareOptional compares two optional numbers, treating absence with the
// given sign: -1 sorts absent below present, 1 sorts absent above present.
func compareOptional(a, b *int, absent int) int {
	av, bv := absent, absent
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	if absent == 1 {
		// absent means "no marker", which sorts above any numbered one
		if a == nil && b != nil {
			return 1
		}
		if a != nil && b == nil {
			return -1
		}
	}
	if av < bv {
		return -1
	}
	if av > bv {
		return 1
	}
	return 0
}
