// Package resolve is the external entry point for module specifier
// resolution: ResolveSync and ResolveAsync wrap internal/resolver's
// pure algorithm with the two evaluators spec §5 calls for (synchronous
// and effectful), sharing one algorithm rather than duplicating it.
package resolve

import (
	"context"

	"github.com/nodepath/nodepath/internal/nplog"
	"github.com/nodepath/nodepath/internal/pathutil"
	"github.com/nodepath/nodepath/internal/resolver"
)

// ProcessedManifest is a package's preprocessed package.json, per spec
// §4.3's data model.
type ProcessedManifest = resolver.ProcessedManifest

// ProcessPackageJSON is exported for host integration and tests, per
// spec §6's auxiliary helpers.
func ProcessPackageJSON(manifest []byte, pkgDir string) (*ProcessedManifest, error) {
	return resolver.ProcessPackageJSON(manifest, pkgDir)
}

// EmptySentinel is the literal path returned when resolution bottoms
// out at an alias or exports entry disabling the module.
const EmptySentinel = resolver.EmptySentinel

// ModuleNotFound is returned when no candidate resolves. Use errors.As
// to recover Specifier/Importer for diagnostics.
type ModuleNotFound = resolver.ModuleNotFound

// MalformedManifest is returned when a package.json failed to parse, or
// its "exports" field is structurally invalid.
type MalformedManifest = resolver.MalformedManifest

// Options configures one resolution call.
type Options struct {
	// Filename is the absolute path of the importing file. Required.
	Filename string

	// Extensions are probed in order; each must start with ".". Required.
	Extensions []string

	// IsFile is the filesystem existence oracle. Required.
	IsFile func(path string) bool

	// ReadFile reads a manifest's contents, failing if absent. Required.
	ReadFile func(path string) (string, error)

	// Conditions are the active export conditions. Defaults to the
	// browser profile {"browser", "import", "default"} when nil.
	Conditions map[string]bool

	// Log receives a trace line per resolution decision when non-nil.
	Log *nplog.Log
}

func (o Options) toContext() resolver.Context {
	ctx := resolver.Context{
		Importer:   o.Filename,
		Extensions: o.Extensions,
		Conditions: o.Conditions,
		IsFile:     o.IsFile,
		ReadFile:   o.ReadFile,
	}
	if o.Log != nil {
		ctx.Trace = o.Log.Trace()
	}
	return ctx
}

// ResolveSync resolves specifier synchronously against options.
func ResolveSync(specifier string, options Options) (string, error) {
	return resolver.Resolve(specifier, options.toContext())
}

// ResolveAsync resolves specifier the same way as ResolveSync, but runs
// it in a separate goroutine so that a caller can stop waiting by
// cancelling ctx. The underlying algorithm is identical — only the
// driver differs. IsFile/ReadFile are invoked synchronously inside that
// goroutine. A ctx that is already done on entry returns ctx.Err()
// without starting resolution; cancelling ctx later makes ResolveAsync
// return ctx.Err() at once, but does not interrupt the resolution
// already running in the goroutine.
func ResolveAsync(ctx context.Context, specifier string, options Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		path string
		err  error
	}

	done := make(chan result, 1)
	go func() {
		path, err := ResolveSync(specifier, options)
		done <- result{path, err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.path, r.err
	}
}

// NormalizeModuleSpecifier is exported for host integration and tests,
// per spec §6's auxiliary helpers.
func NormalizeModuleSpecifier(s string) string {
	return resolver.NormalizeModuleSpecifier(s)
}

// GetParentDirectories is exported for host integration and tests, per
// spec §6's auxiliary helpers. rootDir may be empty to walk to "/".
func GetParentDirectories(p string, rootDir string) []string {
	return pathutil.ParentDirectories(p, rootDir)
}
