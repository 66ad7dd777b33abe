package namemap

import (
	"testing"

	"github.com/frederic-klein/specrender/internal/style"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		style style.Identifier
		want  string
	}{
		{"suse keeps upstream spelling", "oslo.config", style.Suse, "python-oslo.config"},
		{"fedora flattens dots", "oslo.config", style.Fedora, "python-oslo-config"},
		{"fedora flattens underscores", "os_client", style.Fedora, "python-os-client"},
		{"fedora lowercases", "Babel", style.Fedora, "python-babel"},
		{"suse keeps case", "Babel", style.Suse, "python-Babel"},
		{"simple name", "requests", style.Suse, "python-requests"},
		{"service package", "nova", style.Suse, "openstack-nova"},
		{"service package fedora", "glance", style.Fedora, "openstack-glance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Translate(tt.input, tt.style); got != tt.want {
				t.Errorf("Translate(%q, %s) = %q, want %q", tt.input, tt.style, got, tt.want)
			}
		})
	}
}

func TestTranslateVersioned(t *testing.T) {
	tests := []struct {
		input string
		style style.Identifier
		py    PyVersion
		want  string
	}{
		{"requests", style.Suse, Py3, "python3-requests"},
		{"requests", style.Suse, Py2, "python2-requests"},
		{"requests", style.Fedora, Py3, "python3-requests"},
		{"oslo.config", style.Fedora, Py3, "python3-oslo-config"},
		{"python-memcached", style.Suse, Py3, "python3-memcached"},
		{"python-memcached", style.Suse, Py2, "python2-memcached"},
		{"python-memcached", style.Suse, PyDefault, "python-memcached"},
	}

	for _, tt := range tests {
		if got := TranslateVersioned(tt.input, tt.style, tt.py); got != tt.want {
			t.Errorf("TranslateVersioned(%q, %s, %s) = %q, want %q", tt.input, tt.style, tt.py, got, tt.want)
		}
	}
}
