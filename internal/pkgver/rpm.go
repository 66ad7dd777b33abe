package pkgver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/frederic-klein/specrender/internal/style"
)

// ErrMissingReleaseSeed is returned when a fedora translation is requested
// without the caller-supplied release counter.
var ErrMissingReleaseSeed = errors.New("missing release seed")

// RPM is the translated Version/Release pair for one distribution style.
type RPM struct {
	Version string
	Release string
}

// Translate re-encodes a parsed upstream version as an RPM Version/Release
// pair for the given style. releaseSeed is the generic release counter and
// is required for the fedora style only. Translate is a pure function of
// its arguments. A local version label never appears in the output.
func Translate(v Version, st style.Identifier, releaseSeed string) (RPM, error) {
	switch st {
	case style.Fedora:
		return translateFedora(v, releaseSeed)
	default:
		return translateSuse(v), nil
	}
}

// translateSuse encodes pre-release ordering inside Version using the '~'
// marker, which sorts below the base version under rpmvercmp. Release stays
// "0"; the OpenBuildService maintains the real release counter.
func translateSuse(v Version) RPM {
	var b strings.Builder
	b.WriteString(v.BaseVersion())
	if v.Pre != PreNone {
		b.WriteString("~" + v.Pre.String())
		if v.PreNum != nil {
			b.WriteString(strconv.Itoa(*v.PreNum))
		}
		if v.Dev != nil {
			fmt.Fprintf(&b, ".dev%d", *v.Dev)
		}
	} else if v.Dev != nil {
		fmt.Fprintf(&b, "~dev%d", *v.Dev)
	}
	if v.Post != nil {
		// post-releases already sort above the base release under rpmvercmp
		fmt.Fprintf(&b, ".post%d", *v.Post)
	}
	return RPM{Version: b.String(), Release: "0"}
}

// translateFedora strips pre-release information from Version and encodes it
// in Release instead: a pre-release is a lower Release of the same upcoming
// Version. Final releases use "<seed>%{?dist}" while pre-releases use
// "0.<seed><tag>%{?dist}", so the numeric prefix alone orders a final above
// any of its own pre-releases under rpmvercmp.
func translateFedora(v Version, releaseSeed string) (RPM, error) {
	if releaseSeed == "" {
		return RPM{}, fmt.Errorf("%w: fedora style requires rpm_release", ErrMissingReleaseSeed)
	}

	version := v.BaseVersion()
	if len(v.Release) >= 4 {
		// historical convention: four or more release segments collapse to
		// the first three, the fourth acts as a vendor build counter
		parts := make([]string, 3)
		for i := 0; i < 3; i++ {
			parts[i] = strconv.Itoa(v.Release[i])
		}
		version = strings.Join(parts, ".")
	}

	var rel strings.Builder
	if v.IsPrerelease() {
		rel.WriteString("0." + releaseSeed)
		if v.Pre != PreNone {
			rel.WriteString(v.Pre.letter())
			if v.PreNum != nil {
				rel.WriteString(strconv.Itoa(*v.PreNum))
			}
			if v.Dev != nil {
				fmt.Fprintf(&rel, ".dev%d", *v.Dev)
			}
		} else {
			fmt.Fprintf(&rel, ".dev%d", *v.Dev)
		}
	} else {
		rel.WriteString(releaseSeed)
	}
	if v.Post != nil {
		fmt.Fprintf(&rel, ".post%d", *v.Post)
	}
	rel.WriteString("%{?dist}")

	return RPM{Version: version, Release: rel.String()}, nil
}
