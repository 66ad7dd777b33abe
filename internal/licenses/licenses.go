// Package licenses maps SPDX license identifiers to the spelling a style's
// packaging guidelines expect.
package licenses

import "github.com/frederic-klein/specrender/internal/style"

// fedora used its own short names before adopting SPDX; see the Fedora
// licensing wiki for the canonical list.
var spdxToFedora = map[string]string{
	"Apache-1.1":   "ASL 1.1",
	"Apache-2.0":   "ASL 2.0",
	"BSD-3-Clause": "BSD",
	"GPL-1.0+":     "GPL+",
	"GPL-2.0":      "GPLv2",
	"GPL-2.0+":     "GPLv2+",
	"GPL-3.0":      "GPLv3",
	"GPL-3.0+":     "GPLv3+",
	"LGPL-2.1":     "LGPLv2.1",
	"LGPL-2.1+":    "LGPLv2+",
	"LGPL-2.0":     "LGPLv2 with exceptions",
	"LGPL-2.0+":    "LGPLv2+ with exceptions",
	"LGPL-3.0":     "LGPLv3",
	"LGPL-3.0+":    "LGPLv3+",
	"MIT":          "MIT with advertising",
	"MPL-1.0":      "MPLv1.0",
	"MPL-1.1":      "MPLv1.1",
	"MPL-2.0":      "MPLv2.0",
	"OFL-1.1":      "OFL",
	"Python-2.0":   "Python",
}

// Lookup returns the fedora spelling for an SPDX identifier, if known.
func Lookup(spdx string) (string, bool) {
	s, ok := spdxToFedora[spdx]
	return s, ok
}

// Translate maps an SPDX identifier to the style's expected spelling.
// suse uses SPDX directly; unknown identifiers pass through unchanged in
// either style.
func Translate(spdx string, st style.Identifier) string {
	if st != style.Fedora {
		return spdx
	}
	if mapped, ok := Lookup(spdx); ok {
		return mapped
	}
	return spdx
}
