package pkgver

// RPMCompare compares two RPM version or release strings under rpm's own
// segment comparison algorithm (rpmvercmp). It returns -1, 0 or 1 when a is
// older than, equal to or newer than b.
//
// The algorithm walks both strings in parallel, splitting them into maximal
// runs of digits or letters. Numeric segments compare by value and always
// beat alphabetic segments. A '~' sorts below everything, including the end
// of the string, which is what makes pre-release markers work. A '^' sorts
// above the end of the string but below any other continuation, rpm's
// marker for post-release snapshots.
func RPMCompare(a, b string) int {
	ai, bi := 0, 0
	for ai < len(a) || bi < len(b) {
		for ai < len(a) && !isAlnum(a[ai]) && a[ai] != '~' && a[ai] != '^' {
			ai++
		}
		for bi < len(b) && !isAlnum(b[bi]) && b[bi] != '~' && b[bi] != '^' {
			bi++
		}

		aTilde := ai < len(a) && a[ai] == '~'
		bTilde := bi < len(b) && b[bi] == '~'
		if aTilde || bTilde {
			if !bTilde {
				return -1
			}
			if !aTilde {
				return 1
			}
			ai++
			bi++
			continue
		}

		aCaret := ai < len(a) && a[ai] == '^'
		bCaret := bi < len(b) && b[bi] == '^'
		if aCaret || bCaret {
			if ai >= len(a) {
				return -1
			}
			if bi >= len(b) {
				return 1
			}
			if !aCaret {
				return 1
			}
			if !bCaret {
				return -1
			}
			ai++
			bi++
			continue
		}

		if ai >= len(a) || bi >= len(b) {
			break
		}

		aStart, bStart := ai, bi
		isNum := isDigit(a[ai])
		if isNum {
			for ai < len(a) && isDigit(a[ai]) {
				ai++
			}
			for bi < len(b) && isDigit(b[bi]) {
				bi++
			}
		} else {
			for ai < len(a) && isAlpha(a[ai]) {
				ai++
			}
			for bi < len(b) && isAlpha(b[bi]) {
				bi++
			}
		}

		aSeg, bSeg := a[aStart:ai], b[bStart:bi]
		if bSeg == "" {
			// a is numeric where b is alphabetic (or ended): numeric wins
			if isNum {
				return 1
			}
			return -1
		}

		if isNum {
			aSeg, bSeg = trimLeadingZeros(aSeg), trimLeadingZeros(bSeg)
			if len(aSeg) != len(bSeg) {
				if len(aSeg) < len(bSeg) {
					return -1
				}
				return 1
			}
		}
		if aSeg != bSeg {
			if aSeg < bSeg {
				return -1
			}
			return 1
		}
	}

	switch {
	case ai >= len(a) && bi >= len(b):
		return 0
	case ai >= len(a):
		return -1
	default:
		return 1
	}
}

func trimLeadingZeros(s string) string {
	i := 0
	for i < len(s)-1 && s[i] == '0' {
		i++
	}
	return s[i:]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool { return isDigit(c) || isAlpha(c) }
