package resolver

import (
	"strings"

	"github.com/nodepath/nodepath/internal/pathutil"
)

// probe implements FileProbe (spec §4.6) for a single absolute
// candidate path: try the path itself, then the path plus each
// configured extension in order, then treat it as a directory.
func (r *Resolver) probe(candidate string) (resolved string, empty bool, ok bool) {
	if r.ctx.IsFile(candidate) {
		r.ctx.trace("probe hit %s", candidate)
		return candidate, false, true
	}

	for _, ext := range r.ctx.Extensions {
		withExt := candidate + ext
		if r.ctx.IsFile(withExt) {
			r.ctx.trace("probe hit %s", withExt)
			return withExt, false, true
		}
	}

	pm := r.findManifest(candidate, candidate)
	return r.probeDirectory(candidate, pm)
}

// probeDirectory implements FileProbe step 3: a manifest-driven entry
// file first (itself aliased before being probed), then index.<ext>
// fallback in extension order.
func (r *Resolver) probeDirectory(dir string, pm *ProcessedManifest) (resolved string, empty bool, ok bool) {
	if pm != nil && pm.HasEntry {
		entry := pm.Entry
		aliasKey := pathutil.Normalize("./" + strings.TrimPrefix(entry, "./"))
		if rewritten, isEmpty, matched := MatchAlias(pm.Aliases, aliasKey); matched {
			r.ctx.trace("alias entry %q -> %q (empty=%v) in %s", aliasKey, rewritten, isEmpty, pm.PkgDir)
			if isEmpty {
				return "", true, true
			}
			entry = rewritten
		}
		if resolved, empty, ok := r.probe(pathutil.Join(dir, entry)); ok {
			return resolved, empty, true
		}
	}

	for _, ext := range r.ctx.Extensions {
		indexPath := pathutil.Join(dir, "index"+ext)
		if r.ctx.IsFile(indexPath) {
			r.ctx.trace("probe hit %s", indexPath)
			return indexPath, false, true
		}
	}

	return "", false, false
}
