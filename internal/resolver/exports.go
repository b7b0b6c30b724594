package resolver

import (
	"strings"

	"github.com/nodepath/nodepath/internal/pathutil"
)

// ExportsTargetKind tags what an exports map entry (or a nested
// condition value) resolves to.
type ExportsTargetKind uint8

const (
	// TargetString is a literal (possibly "*"-patterned) relative path.
	TargetString ExportsTargetKind = iota
	// TargetConditions is an ordered map of condition name to nested target.
	TargetConditions
	// TargetNull means "resolves to the empty sentinel".
	TargetNull
)

// ExportsTarget is one compiled value inside an exports tree: a string,
// a condition object, or null.
type ExportsTarget struct {
	Kind       ExportsTargetKind
	Str        string
	Conditions []ConditionEntry // declaration order, only for TargetConditions
}

// ConditionEntry is one row of a condition object; order is significant.
type ConditionEntry struct {
	Name   string
	Target ExportsTarget
}

// ExportsEntry is one subpath -> target row of a compiled exports map.
type ExportsEntry struct {
	Pattern string // always begins with "."
	Target  ExportsTarget
}

// ExportsTree is the compiled form of a manifest's "exports" field: the
// single-string shorthand, or an ordered subpath map.
type ExportsTree struct {
	IsSingleTarget bool
	SingleTarget   ExportsTarget // meaningful when IsSingleTarget
	Entries        []ExportsEntry
}

// normalizeSubpath turns a bare specifier's subpath (which never carries
// a leading "." per SpecifierClassifier) into the "."-rooted form the
// exports tree and alias table key their entries on, treating "" and
// "." as equivalent per spec invariant 5.
func normalizeSubpath(subpath string) string {
	if subpath == "" {
		return "."
	}
	return "./" + subpath
}

// MatchExports matches subpath against tree, selecting among active
// conditions, and returns the resolved absolute path joined against
// pkgDir. matched is false when the tree defines no entry for subpath
// at all (the caller must treat this as a hard failure for that
// package, never falling back to "main"). empty is true when resolution
// bottoms out at a Null target (the caller returns the empty sentinel).
func MatchExports(tree *ExportsTree, pkgDir string, subpath string, activeConditions map[string]bool) (resolved string, empty bool, matched bool) {
	subpath = normalizeSubpath(subpath)

	var target ExportsTarget
	var capture string
	var hasCapture bool

	if tree.IsSingleTarget {
		if subpath != "." {
			return "", false, false
		}
		target = tree.SingleTarget
	} else {
		entry, c, hc, found := selectExportsEntry(tree.Entries, subpath)
		if !found {
			return "", false, false
		}
		target, capture, hasCapture = entry.Target, c, hc
	}

	str, isNull, ok := resolveExportsTarget(target, capture, hasCapture, activeConditions)
	if !ok {
		return "", false, false
	}
	if isNull {
		return "", true, true
	}

	return pathutil.Join(pkgDir, str), false, true
}

// selectExportsEntry implements spec §4.5's specificity ordering: an
// exact literal key always wins over any pattern key; among pattern
// keys the longest literal prefix wins, ties broken by longest suffix.
func selectExportsEntry(entries []ExportsEntry, subpath string) (entry ExportsEntry, capture string, hasCapture bool, found bool) {
	for _, e := range entries {
		if !strings.ContainsRune(e.Pattern, '*') && e.Pattern == subpath {
			return e, "", false, true
		}
	}

	var best ExportsEntry
	var bestCapture string
	bestPrefixLen, bestSuffixLen := -1, -1
	haveBest := false

	for _, e := range entries {
		idx := strings.IndexByte(e.Pattern, '*')
		if idx < 0 {
			continue
		}
		prefix, suffix := e.Pattern[:idx], e.Pattern[idx+1:]
		if len(subpath) < len(prefix)+len(suffix) {
			continue
		}
		if !strings.HasPrefix(subpath, prefix) || !strings.HasSuffix(subpath, suffix) {
			continue
		}

		better := !haveBest ||
			len(prefix) > bestPrefixLen ||
			(len(prefix) == bestPrefixLen && len(suffix) > bestSuffixLen)
		if better {
			best = e
			bestCapture = subpath[len(prefix) : len(subpath)-len(suffix)]
			bestPrefixLen, bestSuffixLen = len(prefix), len(suffix)
			haveBest = true
		}
	}

	if !haveBest {
		return ExportsEntry{}, "", false, false
	}
	return best, bestCapture, true, true
}

// resolveExportsTarget walks a (possibly nested) condition tree down to
// a string or null, substituting capture into any "*" in a string
// target. ok is false when no condition in a TargetConditions matched
// at any level, which the caller reports as a non-match.
func resolveExportsTarget(t ExportsTarget, capture string, hasCapture bool, activeConditions map[string]bool) (str string, isNull bool, ok bool) {
	switch t.Kind {
	case TargetString:
		s := t.Str
		if hasCapture && strings.ContainsRune(s, '*') {
			s = strings.Replace(s, "*", capture, 1)
		}
		return s, false, true

	case TargetNull:
		return "", true, true

	case TargetConditions:
		for _, c := range t.Conditions {
			if c.Name != "default" && !activeConditions[c.Name] {
				continue
			}
			return resolveExportsTarget(c.Target, capture, hasCapture, activeConditions)
		}
		return "", false, false
	}

	return "", false, false
}
