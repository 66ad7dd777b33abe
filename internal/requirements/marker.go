package requirements

import (
	"regexp"
	"strconv"
	"strings"
)

// renders always target a linux python3 host, matching what the rendered
// spec files are built for
var markerEnv = map[string]string{
	"sys_platform":    "linux",
	"os_name":         "posix",
	"platform_system": "Linux",
	"python_version":  "3.11",
}

var termRe = regexp.MustCompile(`^(\w+)\s*(==|!=|>=|<=|>|<)\s*['"]?([^'"]*)['"]?$`)

// evalMarker evaluates an environment marker against the fixed render
// environment. Only flat conjunctions/disjunctions of comparisons are
// understood; anything unrecognized evaluates to true so that an exotic
// marker keeps its entry rather than silently dropping it.
func evalMarker(marker string) bool {
	for _, clause := range strings.Split(marker, " or ") {
		if evalConjunction(clause) {
			return true
		}
	}
	return false
}

func evalConjunction(clause string) bool {
	for _, term := range strings.Split(clause, " and ") {
		if !evalTerm(strings.TrimSpace(term)) {
			return false
		}
	}
	return true
}

func evalTerm(term string) bool {
	m := termRe.FindStringSubmatch(term)
	if m == nil {
		return true
	}
	actual, known := markerEnv[m[1]]
	if !known {
		return true
	}
	op, want := m[2], m[3]

	if m[1] == "python_version" {
		return compareDotted(actual, want, op)
	}
	switch op {
	case "==":
		return actual == want
	case "!=":
		return actual != want
	default:
		return compareDotted(actual, want, op)
	}
}

func compareDotted(a, b, op string) bool {
	c := dottedCmp(a, b)
	switch op {
	case "==":
		return c == 0
	case "!=":
		return c != 0
	case ">=":
		return c >= 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case "<":
		return c < 0
	}
	return true
}

func dottedCmp(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
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
