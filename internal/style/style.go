// Package style resolves the distribution style a spec template is rendered
// for. The style decides how Version/Release pairs are encoded, so it can
// never be silently defaulted.
package style

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Identifier names a distribution packaging convention.
type Identifier string

const (
	Suse   Identifier = "suse"
	Fedora Identifier = "fedora"
)

// ErrUnknownStyle is returned when no style could be resolved, either from
// an invalid override or from an unrecognized host.
var ErrUnknownStyle = errors.New("unknown spec style")

// Known lists the valid style identifiers.
func Known() []Identifier {
	return []Identifier{Suse, Fedora}
}

// Parse validates a style name against the closed set of known styles.
func Parse(s string) (Identifier, error) {
	for _, id := range Known() {
		if s == string(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStyle, s)
}

// os-release files inspected during host autodetection, in order.
var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

// Resolve returns the active style. A non-empty override wins after
// validation; otherwise the host's os-release identification is matched
// against the known distribution families. An unrecognized host is a fatal
// error, not a default.
func Resolve(override string) (Identifier, error) {
	if override != "" {
		return Parse(override)
	}
	return resolveFromFiles(osReleasePaths)
}

func resolveFromFiles(paths []string) (Identifier, error) {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if id, ok := detect(string(data)); ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: could not detect distribution from %s",
		ErrUnknownStyle, strings.Join(paths, ", "))
}

// detect matches os-release contents against the known families. ID is the
// strongest signal, then ID_LIKE, then NAME.
func detect(contents string) (Identifier, bool) {
	fields := parseOSRelease(contents)
	for _, key := range []string{"ID", "ID_LIKE", "NAME"} {
		if id, ok := matchFamily(fields[key]); ok {
			return id, true
		}
	}
	return "", false
}

func matchFamily(value string) (Identifier, bool) {
	value = strings.ToLower(value)
	for _, word := range []string{"opensuse", "suse", "sles"} {
		if strings.Contains(value, word) {
			return Suse, true
		}
	}
	for _, word := range []string{"fedora", "rhel", "centos", "red hat"} {
		if strings.Contains(value, word) {
			return Fedora, true
		}
	}
	return "", false
}

func parseOSRelease(contents string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(contents, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"'`)
	}
	return fields
}
