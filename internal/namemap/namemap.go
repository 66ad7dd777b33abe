// Package namemap translates upstream python package names into the
// distro-specific package names each style expects.
package namemap

import (
	"strings"

	"github.com/frederic-klein/specrender/internal/style"
)

// PyVersion selects the python flavor a dependency name is generated for.
type PyVersion string

const (
	PyDefault PyVersion = "py"
	Py2       PyVersion = "py2"
	Py3       PyVersion = "py3"
)

// service projects are packaged under their own name, not as a python
// library
var serviceNames = map[string]string{
	"nova":     "openstack-nova",
	"glance":   "openstack-glance",
	"keystone": "openstack-keystone",
}

// Translate maps an upstream name to the distro package name for the given
// style. Names without a special-case entry fall through to the default
// python- prefix rule; unknown names are never an error.
func Translate(name string, st style.Identifier) string {
	return TranslateVersioned(name, st, PyDefault)
}

// TranslateVersioned is Translate with an explicit python flavor, used by
// the py2/py3 template helpers.
func TranslateVersioned(name string, st style.Identifier, py PyVersion) string {
	if mapped, ok := serviceNames[name]; ok {
		return mapped
	}

	prefix := "python-"
	switch py {
	case Py2:
		prefix = "python2-"
	case Py3:
		prefix = "python3-"
	}

	pkg := name
	if st == style.Fedora {
		// fedora package names are lowercase with dots and underscores
		// flattened to dashes
		pkg = strings.ToLower(pkg)
		pkg = strings.NewReplacer(".", "-", "_", "-").Replace(pkg)
	}

	// a name already carrying a python prefix has it replaced by the
	// requested flavor's prefix
	if strings.HasPrefix(strings.ToLower(pkg), "python-") {
		pkg = pkg[len("python-"):]
	}
	return prefix + pkg
}
