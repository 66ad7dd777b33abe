// Package render executes a spec template against a render context. The
// template engine is pongo2; this package contributes the context functions,
// the style-specific child-template mechanism and the source helpers.
package render

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/flosch/pongo2/v6"
)

//go:embed disttemplates/*.spec.j2
var distTemplates embed.FS

func init() {
	// output is an RPM spec, not HTML; escaping would turn dependency
	// operators like >= into entities
	pongo2.SetAutoescape(false)
}

const (
	// baseRef is the template name the user-supplied spec template is
	// served under; dist templates extend it.
	baseRef         = ".spec"
	templatePostfix = ".spec.j2"
)

// specLoader serves the user's base template as ".spec" and maps any other
// name to a bundled per-style dist template that extends it.
type specLoader struct {
	baseFn string
}

func (l *specLoader) Abs(base, name string) string {
	return name
}

func (l *specLoader) Get(path string) (io.Reader, error) {
	if path == baseRef {
		return os.Open(l.baseFn)
	}
	return distTemplates.Open("disttemplates/" + path + templatePostfix)
}

// hasDistTemplate reports whether a bundled child template exists for the
// given style name.
func hasDistTemplate(name string) bool {
	_, err := fs.Stat(distTemplates, "disttemplates/"+name+templatePostfix)
	return err == nil
}

// GenerateSpec renders the template at templatePath with the given context
// and returns the spec text. When a dist template exists for the context's
// style it becomes the render root, so its override blocks apply on top of
// the base template.
func GenerateSpec(c *Context, templatePath string) (string, error) {
	set := pongo2.NewSet("specrender", &specLoader{baseFn: templatePath})

	name := baseRef
	if hasDistTemplate(string(c.Style)) {
		name = string(c.Style)
	}

	tpl, err := set.FromFile(name)
	if err != nil {
		return "", fmt.Errorf("loading template %s: %w", templatePath, err)
	}

	out, err := tpl.Execute(c.templateContext())
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", templatePath, err)
	}
	return out, nil
}
