// Package resolver implements the layered module specifier resolution
// algorithm: relative/absolute path resolution with extension probing
// and directory-index fallback, node_modules lookup walking parent
// directories, and package-manifest-driven redirection through main/
// module/browser entry fields, the browser map, a generalized alias
// map, and conditional exports subpath maps.
//
// The resolver never touches the filesystem directly. Every probe is
// mediated by the IsFile and ReadFile functions supplied in a Context,
// so the same algorithm runs unchanged against a real filesystem or an
// in-memory overlay.
package resolver

import (
	"github.com/nodepath/nodepath/internal/pathutil"
)

// EmptySentinel is the literal path returned for any alias or exports
// entry that resolves to "disabled"/"null".
const EmptySentinel = "//empty.js"

// DefaultConditions is the browser profile of active export conditions
// assumed throughout this package's test scenarios and by pkg/resolve.
var DefaultConditions = map[string]bool{"browser": true, "import": true, "default": true}

// TraceFunc receives one human-readable line per resolution decision
// point (alias hit, exports match, probe hit) when non-nil. It lets
// a caller wire resolution into its own logger without this package
// depending on any particular logging library.
type TraceFunc func(format string, args ...any)

// Context is the immutable per-call input to Resolve.
type Context struct {
	Importer   string            // absolute path of the importing file
	Extensions []string          // probed in order, each starting with "."
	Conditions map[string]bool   // active export conditions; DefaultConditions if nil
	IsFile     func(string) bool // filesystem existence oracle
	ReadFile   func(string) (string, error)
	Trace      TraceFunc
}

func (c *Context) conditions() map[string]bool {
	if c.Conditions != nil {
		return c.Conditions
	}
	return DefaultConditions
}

func (c *Context) trace(format string, args ...any) {
	if c.Trace != nil {
		c.Trace(format, args...)
	}
}

// Resolver drives one Resolve call. It owns a manifest cache scoped to
// that single call (spec §9: "a natural caching boundary if a caller
// wants to memoize by path" — here the boundary is one Resolve).
type Resolver struct {
	ctx         Context
	manifests   map[string]*ProcessedManifest // keyed by pkgDir; nil value means "no manifest there"
	negative    map[string]bool               // pkgDir with no package.json, to skip re-reading
	deferredErr error                          // first IOFailure/MalformedManifest seen along the walk, if any
}

// Resolve resolves specifier as imported by ctx.Importer.
//
// A manifest read or parse failure along the way (package.json present
// per IsFile but unreadable, or unreadable as JSON) does not abort the
// walk by itself — esbuild's own resolver treats such failures as
// non-fatal and keeps walking, since a stray broken package.json
// elsewhere should not prevent resolving a specifier that never needed
// it. But if the walk still ends in ModuleNotFound, that earlier
// failure is the more useful error to report than "not found", so it
// takes priority at that point.
func Resolve(specifier string, ctx Context) (string, error) {
	r := &Resolver{
		ctx:       ctx,
		manifests: make(map[string]*ProcessedManifest),
		negative:  make(map[string]bool),
	}
	resolved, err := r.resolve(specifier)
	if err != nil && r.deferredErr != nil {
		return "", r.deferredErr
	}
	return resolved, err
}

func (r *Resolver) resolve(specifier string) (string, error) {
	specifier = NormalizeModuleSpecifier(specifier)

	importerDir := pathutil.Dirname(r.ctx.Importer)
	ownPkg := r.findManifest(importerDir, "")

	if ownPkg != nil {
		cls := Classify(specifier)
		if cls.Kind == KindBare || cls.Kind == KindRelative {
			if rewritten, empty, ok := MatchAlias(ownPkg.Aliases, specifier); ok {
				r.ctx.trace("alias %q -> %q (empty=%v) in %s", specifier, rewritten, empty, ownPkg.PkgDir)
				if empty {
					return EmptySentinel, nil
				}
				specifier = rewritten
			}
		}
	}

	cls := Classify(specifier)

	switch cls.Kind {
	case KindRelative:
		candidate := pathutil.Join(importerDir, specifier)
		if ownPkg != nil {
			relKey := pathutil.Normalize(specifier)
			if rewritten, empty, ok := MatchAlias(ownPkg.Aliases, relKey); ok {
				r.ctx.trace("alias %q -> %q (empty=%v) in %s", relKey, rewritten, empty, ownPkg.PkgDir)
				if empty {
					return EmptySentinel, nil
				}
				candidate = pathutil.Join(importerDir, rewritten)
			}
		}
		if resolved, _, ok := r.probe(candidate); ok {
			return resolved, nil
		}

	case KindAbsolute:
		if resolved, _, ok := r.probe(cls.Rest); ok {
			return resolved, nil
		}

	case KindBare:
		if resolved, empty, ok := r.resolveBare(cls); ok {
			if empty {
				return EmptySentinel, nil
			}
			return resolved, nil
		}
	}

	return "", &ModuleNotFound{Specifier: specifier, Importer: r.ctx.Importer}
}

// resolveBare implements spec §4.7's bare-specifier walk: for each
// ancestor directory of the importer, check for node_modules/<pkg>, and
// if the package's own manifest is present there, resolve entirely
// within that package — a resolution failure there is conclusive and
// does not fall through to an outer node_modules with the same name.
// Only the absence of a manifest (nothing conclusively identifying the
// directory as the package) permits continuing the outward walk.
func (r *Resolver) resolveBare(cls Specifier) (resolved string, empty bool, ok bool) {
	importerDir := pathutil.Dirname(r.ctx.Importer)

	for _, dir := range pathutil.ParentDirectories(importerDir, "") {
		root := pathutil.Join(dir, "node_modules/"+cls.Package)

		resolved, empty, found, definitive := r.tryPackage(root, cls.Subpath)
		if found {
			return resolved, empty, true
		}
		if definitive {
			return "", false, false
		}
	}

	return "", false, false
}

// tryPackage attempts to resolve subpath within the node_modules package
// rooted at root. definitive is true when the package's own manifest
// was found at root, meaning the caller must stop walking outward
// regardless of whether resolution itself succeeded.
func (r *Resolver) tryPackage(root string, rawSubpath string) (resolved string, empty bool, found bool, definitive bool) {
	pkg := r.findManifest(root, root)
	hasManifest := pkg != nil
	subpath := normalizeSubpath(rawSubpath)

	if hasManifest && pkg.Exports != nil {
		resolvedRel, isEmpty, matched := MatchExports(pkg.Exports, root, rawSubpath, r.ctx.conditions())
		if !matched {
			return "", false, false, true
		}
		r.ctx.trace("exports %q -> %q (empty=%v) in %s", subpath, resolvedRel, isEmpty, pkg.PkgDir)
		if isEmpty {
			return "", true, true, true
		}
		if p, e, ok := r.probe(resolvedRel); ok {
			return p, e, true, true
		}
		return "", false, false, true
	}

	if rawSubpath == "" {
		if p, e, ok := r.probeDirectory(root, pkg); ok {
			return p, e, true, hasManifest
		}
		return "", false, false, hasManifest
	}

	candidate := root + "/" + rawSubpath
	if hasManifest {
		aliasKey := pathutil.Normalize("./" + rawSubpath)
		if rewritten, isEmpty, matched := MatchAlias(pkg.Aliases, aliasKey); matched {
			r.ctx.trace("alias %q -> %q (empty=%v) in %s", aliasKey, rewritten, isEmpty, pkg.PkgDir)
			if isEmpty {
				return "", true, true, true
			}
			candidate = pathutil.Join(root, rewritten)
		}
	}
	if p, e, ok := r.probe(candidate); ok {
		return p, e, true, hasManifest
	}
	return "", false, false, hasManifest
}

// findManifest returns the processed package.json enclosing startDir,
// walking parent directories up to rootDir (or "/" when rootDir is
// empty), or nil if none exists.
func (r *Resolver) findManifest(startDir string, rootDir string) *ProcessedManifest {
	for _, dir := range pathutil.ParentDirectories(startDir, rootDir) {
		if pm, ok := r.manifests[dir]; ok {
			if pm != nil {
				return pm
			}
			continue
		}
		if r.negative[dir] {
			continue
		}

		path := dir + "/package.json"
		if !r.ctx.IsFile(path) {
			r.negative[dir] = true
			continue
		}

		contents, err := r.ctx.ReadFile(path)
		if err != nil {
			if r.deferredErr == nil {
				r.deferredErr = &IOFailure{Path: path, Err: err}
			}
			r.ctx.trace("io error reading %s: %s", path, err)
			r.negative[dir] = true
			continue
		}

		pm, err := processPackageJSON([]byte(contents), dir)
		if err != nil {
			if r.deferredErr == nil {
				r.deferredErr = err
			}
			r.ctx.trace("malformed manifest %s: %s", path, err)
			r.negative[dir] = true
			continue
		}

		r.manifests[dir] = pm
		return pm
	}
	return nil
}
