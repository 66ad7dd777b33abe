package licenses

import (
	"testing"

	"github.com/frederic-klein/specrender/internal/style"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		spdx  string
		style style.Identifier
		want  string
	}{
		{"suse passes spdx through", "Apache-2.0", style.Suse, "Apache-2.0"},
		{"fedora maps known", "Apache-2.0", style.Fedora, "ASL 2.0"},
		{"fedora maps gpl", "GPL-2.0+", style.Fedora, "GPLv2+"},
		{"fedora unknown passes through", "WTFPL", style.Fedora, "WTFPL"},
		{"suse unknown passes through", "WTFPL", style.Suse, "WTFPL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Translate(tt.spdx, tt.style); got != tt.want {
				t.Errorf("Translate(%q, %s) = %q, want %q", tt.spdx, tt.style, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("NotALicense"); ok {
		t.Error("Lookup should report unknown identifiers")
	}
	if got, ok := Lookup("MIT"); !ok || got != "MIT with advertising" {
		t.Errorf("Lookup(MIT) = %q %v", got, ok)
	}
}
