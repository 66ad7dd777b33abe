package render

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/flosch/pongo2/v6"

	"github.com/frederic-klein/specrender/internal/epochs"
	"github.com/frederic-klein/specrender/internal/licenses"
	"github.com/frederic-klein/specrender/internal/namemap"
	"github.com/frederic-klein/specrender/internal/pkgver"
	"github.com/frederic-klein/specrender/internal/requirements"
	"github.com/frederic-klein/specrender/internal/style"
)

// ErrMissingContextState is returned when a zero-argument template function
// needs a context variable that no earlier call has set.
var ErrMissingContextState = errors.New("missing context state")

// Context carries the per-render state the template functions operate on.
// A Context belongs to exactly one render; concurrent renders must each
// construct their own.
type Context struct {
	Style        style.Identifier
	Epochs       epochs.Table
	Requirements requirements.Table
	TemplateDir  string // directory the input template lives in
	OutputDir    string // destination for fetched sources, empty to skip fetching

	fetcher *Fetcher

	// remembered across template function calls within this render
	pypiName        string
	upstreamVersion string
	rpmRelease      string
}

// NewContext builds a render context. All tables are read-only after this
// point.
func NewContext(st style.Identifier, ep epochs.Table, reqs requirements.Table, templateDir, outputDir string) *Context {
	return &Context{
		Style:        st,
		Epochs:       ep,
		Requirements: reqs,
		TemplateDir:  templateDir,
		OutputDir:    outputDir,
		fetcher:      NewFetcher(),
	}
}

// templateContext exposes the context functions to the template engine.
// Every closure reads and mutates c, which is what lets zero-argument calls
// reuse state set by earlier calls in the same render.
func (c *Context) templateContext() pongo2.Context {
	return pongo2.Context{
		"py2name":          c.py2name,
		"py2pkg":           c.py2pkg,
		"py2":              c.py2,
		"py3":              c.py3,
		"epoch":            c.epoch,
		"license":          c.license,
		"upstream_version": c.resolveUpstreamVersion,
		"rpm_release":      c.setRPMRelease,
		"py2rpmversion":    c.py2rpmversion,
		"py2rpmrelease":    c.py2rpmrelease,
		"fetch_source":     c.fetchSource,
		"url_pypi":         c.urlPypi,
	}
}

// py2name translates an upstream name to the distro package name. Called
// with a name it remembers it; called without one it reuses the remembered
// name.
func (c *Context) py2name(args ...*pongo2.Value) (string, error) {
	name, err := c.resolveName(args, "py2name")
	if err != nil {
		return "", err
	}
	return namemap.Translate(name, c.Style), nil
}

// py2pkg renders a spec dependency: the translated package name, optionally
// followed by a version constraint. An explicit constraint is passed as two
// extra arguments (operator, version); without one the merged requirement
// table is consulted. Known epochs are prefixed onto the version.
func (c *Context) py2pkg(args ...*pongo2.Value) (string, error) {
	return c.pkgWithConstraint(args, namemap.PyDefault)
}

func (c *Context) py2(args ...*pongo2.Value) (string, error) {
	return c.pkgWithConstraint(args, namemap.Py2)
}

func (c *Context) py3(args ...*pongo2.Value) (string, error) {
	return c.pkgWithConstraint(args, namemap.Py3)
}

func (c *Context) pkgWithConstraint(args []*pongo2.Value, py namemap.PyVersion) (string, error) {
	if len(args) != 0 && len(args) != 1 && len(args) != 3 {
		return "", fmt.Errorf("py2pkg: want a name and optionally an operator and version, got %d arguments", len(args))
	}

	nameArgs := args
	if len(args) == 3 {
		nameArgs = args[:1]
	}
	name, err := c.resolveName(nameArgs, "py2pkg")
	if err != nil {
		return "", err
	}

	var op, version string
	if len(args) == 3 {
		op, version = args[1].String(), args[2].String()
		if _, err := pkgver.Parse(version); err != nil {
			return "", fmt.Errorf("py2pkg %s: %w", name, err)
		}
	} else if req, ok := c.Requirements.Lookup(name); ok {
		op, version = req.Operator, req.Version
	}

	pkg := namemap.TranslateVersioned(name, c.Style, py)
	if version == "" {
		return pkg, nil
	}

	epochPrefix := ""
	if e := c.Epochs.Lookup(name); e > 0 {
		epochPrefix = fmt.Sprintf("%d:", e)
	}
	return fmt.Sprintf("%s %s %s%s", pkg, op, epochPrefix, version), nil
}

func (c *Context) resolveName(args []*pongo2.Value, neededBy string) (string, error) {
	if len(args) > 0 && args[0].String() != "" {
		c.pypiName = args[0].String()
		return c.pypiName, nil
	}
	if c.pypiName == "" {
		return "", fmt.Errorf("%w: no package name set before %s", ErrMissingContextState, neededBy)
	}
	return c.pypiName, nil
}

func (c *Context) epoch(name string) int {
	return c.Epochs.Lookup(name)
}

func (c *Context) license(spdx string) string {
	return licenses.Translate(spdx, c.Style)
}

// upstream_version returns the upstream version and remembers it for later
// calls. Without an argument the version is autodetected from source
// archives next to the render.
func (c *Context) resolveUpstreamVersion(args ...*pongo2.Value) (string, error) {
	if len(args) > 0 && args[0].String() != "" {
		c.upstreamVersion = args[0].String()
		return c.upstreamVersion, nil
	}
	if c.upstreamVersion != "" {
		return c.upstreamVersion, nil
	}
	if c.pypiName == "" {
		return "", fmt.Errorf("%w: no package name set before upstream_version autodetection", ErrMissingContextState)
	}

	detected, err := detectVersion([]string{c.OutputDir, c.TemplateDir, "."}, c.pypiName)
	if err != nil {
		return "", err
	}
	log.Debug("autodetected upstream version", "name", c.pypiName, "version", detected)
	c.upstreamVersion = detected
	return detected, nil
}

// rpm_release remembers the generic release counter. It renders as nothing.
func (c *Context) setRPMRelease(seed string) (string, error) {
	if seed == "" {
		return "", fmt.Errorf("%w: empty rpm_release", pkgver.ErrMissingReleaseSeed)
	}
	c.rpmRelease = seed
	return "", nil
}

func (c *Context) py2rpmversion() (string, error) {
	if c.upstreamVersion == "" {
		return "", fmt.Errorf("%w: 'upstream_version' not set but needed for py2rpmversion", ErrMissingContextState)
	}
	v, err := pkgver.Parse(c.upstreamVersion)
	if err != nil {
		return "", err
	}
	// the seed only influences Release, any placeholder works here
	rpm, err := pkgver.Translate(v, c.Style, "0")
	if err != nil {
		return "", err
	}
	return rpm.Version, nil
}

func (c *Context) py2rpmrelease() (string, error) {
	if c.Style != style.Fedora {
		// the OpenBuildService maintains the release counter itself
		return "0", nil
	}
	if c.upstreamVersion == "" {
		return "", fmt.Errorf("%w: 'upstream_version' not set but needed for py2rpmrelease", ErrMissingContextState)
	}
	if c.rpmRelease == "" {
		return "", fmt.Errorf("%w: 'rpm_release' not set but needed for py2rpmrelease", ErrMissingContextState)
	}
	v, err := pkgver.Parse(c.upstreamVersion)
	if err != nil {
		return "", err
	}
	rpm, err := pkgver.Translate(v, c.Style, c.rpmRelease)
	if err != nil {
		return "", err
	}
	return rpm.Release, nil
}

// fetch_source downloads the given URL into the output directory and echoes
// the URL back so it can stand directly in a Source: line. Without an
// output directory the download is skipped entirely.
func (c *Context) fetchSource(url string) (string, error) {
	if c.OutputDir == "" {
		log.Debug("no output directory, skipping source fetch", "url", url)
		return url, nil
	}
	if err := c.fetcher.Fetch(url, c.OutputDir); err != nil {
		return "", err
	}
	return url, nil
}

// url_pypi builds the canonical sdist URL from the remembered name and
// version.
func (c *Context) urlPypi() (string, error) {
	if c.pypiName == "" {
		return "", fmt.Errorf("%w: 'pypi_name' not set but needed for url_pypi", ErrMissingContextState)
	}
	if c.upstreamVersion == "" {
		return "", fmt.Errorf("%w: 'upstream_version' not set but needed for url_pypi", ErrMissingContextState)
	}
	return fmt.Sprintf("https://files.pythonhosted.org/packages/source/%s/%s/%s-%s.tar.gz",
		c.pypiName[:1], c.pypiName, c.pypiName, c.upstreamVersion), nil
}

func init() {
	pongo2.RegisterFilter("basename",
		func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			s := in.String()
			// URLs and file paths both use the final slash-separated segment
			return pongo2.AsValue(path.Base(strings.TrimSuffix(s, "/"))), nil
		})
}
