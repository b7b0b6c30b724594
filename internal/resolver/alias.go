package resolver

import "strings"

// AliasValueKind distinguishes a redirect from the empty-module sentinel.
type AliasValueKind uint8

const (
	// AliasRedirect rewrites the key to another string, substituting a
	// captured glob segment when present.
	AliasRedirect AliasValueKind = iota
	// AliasEmpty rewrites the key to the shared empty-module sentinel.
	AliasEmpty
)

// AliasValue is the right-hand side of an alias entry.
type AliasValue struct {
	Kind   AliasValueKind
	Target string // only meaningful when Kind == AliasRedirect
}

// AliasKey is either an exact string or a single-"*" glob split into its
// literal prefix and suffix.
type AliasKey struct {
	IsGlob bool
	Exact  string
	Prefix string // glob only
	Suffix string // glob only
}

// AliasEntry is one row of a package's merged alias table. Order within
// the owning slice is significant: the first matching entry wins.
type AliasEntry struct {
	Key   AliasKey
	Value AliasValue
}

// newExactAlias builds a literal-match entry.
func newExactAlias(key string, value AliasValue) AliasEntry {
	return AliasEntry{Key: AliasKey{Exact: key}, Value: value}
}

// newGlobAlias splits pattern on its single "*" into prefix/suffix. The
// caller guarantees pattern contains exactly one "*".
func newGlobAlias(pattern string, value AliasValue) AliasEntry {
	idx := strings.IndexByte(pattern, '*')
	return AliasEntry{
		Key: AliasKey{
			IsGlob: true,
			Prefix: pattern[:idx],
			Suffix: pattern[idx+1:],
		},
		Value: value,
	}
}

// MatchAlias walks entries in order and returns the rewritten key for
// the first matching entry. ok is false when nothing matches, in which
// case the caller must not rewrite.
func MatchAlias(entries []AliasEntry, key string) (rewritten string, empty bool, ok bool) {
	for _, e := range entries {
		capture, matched := e.Key.match(key)
		if !matched {
			continue
		}

		switch e.Value.Kind {
		case AliasEmpty:
			return "", true, true
		default:
			target := e.Value.Target
			if e.Key.IsGlob && strings.ContainsRune(target, '*') {
				target = strings.Replace(target, "*", capture, 1)
			}
			return target, false, true
		}
	}
	return "", false, false
}

// match reports whether key satisfies k, returning the captured middle
// segment for glob keys (empty for exact keys).
func (k AliasKey) match(key string) (capture string, ok bool) {
	if !k.IsGlob {
		return "", key == k.Exact
	}
	if len(key) < len(k.Prefix)+len(k.Suffix) {
		return "", false
	}
	if !strings.HasPrefix(key, k.Prefix) || !strings.HasSuffix(key, k.Suffix) {
		return "", false
	}
	return key[len(k.Prefix) : len(key)-len(k.Suffix)], true
}
