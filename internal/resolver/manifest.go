package resolver

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/nodepath/nodepath/internal/pathutil"
)

// ProcessedManifest is the output of processPackageJSON: everything
// downstream matching needs, with the raw manifest discarded. It is a
// pure function of its inputs (spec invariant 4) so a caller may
// memoize it by pkgDir for the lifetime of one Resolve call.
type ProcessedManifest struct {
	PkgDir   string
	Entry    string // relative to PkgDir; empty when HasEntry is false
	HasEntry bool
	Aliases  []AliasEntry
	Exports  *ExportsTree // nil when the manifest has no "exports" field
}

// ProcessPackageJSON parses manifest data and produces a ProcessedManifest
// rooted at pkgDir, per spec §4.3 and the auxiliary helper of spec §6.
// It is a pure function of its inputs (spec invariant 4) and never
// touches the filesystem.
func ProcessPackageJSON(data []byte, pkgDir string) (*ProcessedManifest, error) {
	return processPackageJSON(data, pkgDir)
}

func processPackageJSON(data []byte, pkgDir string) (*ProcessedManifest, error) {
	root, err := decodeJSON(data)
	if err != nil {
		return nil, &MalformedManifest{PkgDir: pkgDir, Reason: err.Error()}
	}
	if root.kind != jvObject {
		return nil, &MalformedManifest{PkgDir: pkgDir, Reason: "package.json root is not an object"}
	}

	pm := &ProcessedManifest{PkgDir: pkgDir}

	entry, browserObj, browserIsObject := readEntryFields(root)
	pm.Entry = entry
	pm.HasEntry = entry != ""

	var aliases []AliasEntry
	if browserIsObject {
		aliases = append(aliases, mergeBrowserObject(browserObj, pkgDir)...)
	}
	if aliasVal, ok := root.get("alias"); ok && aliasVal.kind == jvObject {
		aliases = append(aliases, mergeAliasObject(aliasVal, pkgDir)...)
	}
	pm.Aliases = aliases

	if exportsVal, ok := root.get("exports"); ok {
		tree, err := compileExports(exportsVal)
		if err != nil {
			return nil, &MalformedManifest{PkgDir: pkgDir, Reason: err.Error()}
		}
		pm.Exports = tree
	}

	return pm, nil
}

// readEntryFields chooses the entry file per the field precedence of
// spec §4.3 (browser string, then module, then main) and separately
// returns the "browser" value when it is an object, for alias merging.
func readEntryFields(root jsonValue) (entry string, browserObj jsonValue, browserIsObject bool) {
	if v, ok := root.get("browser"); ok {
		switch v.kind {
		case jvString:
			entry = v.str
		case jvObject:
			browserObj, browserIsObject = v, true
		}
	}
	if entry == "" {
		if v, ok := root.get("module"); ok && v.kind == jvString {
			entry = v.str
		}
	}
	if entry == "" {
		if v, ok := root.get("main"); ok && v.kind == jvString {
			entry = v.str
		}
	}
	return entry, browserObj, browserIsObject
}

// mergeBrowserObject turns a "browser" object into alias entries.
// Relative-looking keys are normalized and matched exactly; bare module
// names are stored as-is so they match bare specifiers scoped to this
// package.
func mergeBrowserObject(obj jsonValue, pkgDir string) []AliasEntry {
	var out []AliasEntry
	for _, m := range obj.obj {
		value, ok := browserAliasValue(m.value)
		if !ok {
			continue
		}
		key := m.key
		if strings.HasPrefix(key, "./") || strings.HasPrefix(key, "../") {
			key = pathutil.Normalize(key)
		}
		out = append(out, newExactAlias(key, value))
	}
	return out
}

// mergeAliasObject turns an "alias" object into alias entries, with the
// two extensions over "browser": false disables, and a "*" in the key
// makes a glob entry whose captured segment substitutes into the value.
func mergeAliasObject(obj jsonValue, pkgDir string) []AliasEntry {
	var out []AliasEntry
	for _, m := range obj.obj {
		value, ok := browserAliasValue(m.value)
		if !ok {
			continue
		}
		key := m.key
		if strings.ContainsRune(key, '*') {
			out = append(out, newGlobAlias(key, value))
			continue
		}
		if strings.HasPrefix(key, "./") || strings.HasPrefix(key, "../") {
			key = pathutil.Normalize(key)
		}
		out = append(out, newExactAlias(key, value))
	}
	return out
}

// browserAliasValue converts a raw manifest value into an AliasValue:
// false becomes the empty sentinel, a string becomes a redirect,
// anything else is not a valid alias target and is skipped.
func browserAliasValue(v jsonValue) (AliasValue, bool) {
	switch v.kind {
	case jvBool:
		if !v.boolean {
			return AliasValue{Kind: AliasEmpty}, true
		}
		return AliasValue{}, false
	case jvString:
		return AliasValue{Kind: AliasRedirect, Target: v.str}, true
	default:
		return AliasValue{}, false
	}
}

// compileExports turns a raw "exports" value into an ExportsTree,
// detecting the subpath-map-vs-conditions-object ambiguity of spec
// §4.3 and rejecting a mixed object as a malformed manifest.
func compileExports(v jsonValue) (*ExportsTree, error) {
	switch v.kind {
	case jvString:
		return &ExportsTree{IsSingleTarget: true, SingleTarget: ExportsTarget{Kind: TargetString, Str: v.str}}, nil

	case jvNull:
		return &ExportsTree{IsSingleTarget: true, SingleTarget: ExportsTarget{Kind: TargetNull}}, nil

	case jvObject:
		if len(v.obj) == 0 {
			return &ExportsTree{Entries: nil}, nil
		}

		dotCount := 0
		for _, m := range v.obj {
			if strings.HasPrefix(m.key, ".") {
				dotCount++
			}
		}
		if dotCount != 0 && dotCount != len(v.obj) {
			return nil, fmt.Errorf("\"exports\" mixes subpath keys and condition keys at the same level")
		}

		if dotCount == 0 {
			// A conditions object at the root is sugar for {".": <that object>}.
			target, err := compileExportsTarget(v)
			if err != nil {
				return nil, err
			}
			return &ExportsTree{IsSingleTarget: true, SingleTarget: target}, nil
		}

		entries := make([]ExportsEntry, 0, len(v.obj))
		for _, m := range v.obj {
			target, err := compileExportsTarget(m.value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, ExportsEntry{Pattern: m.key, Target: target})
		}
		return &ExportsTree{Entries: entries}, nil

	default:
		return nil, fmt.Errorf("\"exports\" must be a string, object, or null")
	}
}

// compileExportsTarget compiles one exports value (a subpath's target,
// or a nested condition value) into an ExportsTarget.
func compileExportsTarget(v jsonValue) (ExportsTarget, error) {
	switch v.kind {
	case jvString:
		return ExportsTarget{Kind: TargetString, Str: v.str}, nil
	case jvNull:
		return ExportsTarget{Kind: TargetNull}, nil
	case jvObject:
		conds := make([]ConditionEntry, 0, len(v.obj))
		for _, m := range v.obj {
			nested, err := compileExportsTarget(m.value)
			if err != nil {
				return ExportsTarget{}, err
			}
			conds = append(conds, ConditionEntry{Name: m.key, Target: nested})
		}
		return ExportsTarget{Kind: TargetConditions, Conditions: conds}, nil
	default:
		return ExportsTarget{}, fmt.Errorf("exports target must be a string, object, or null")
	}
}

// --- order-preserving JSON decoding -----------------------------------
//
// encoding/json's map[string]any loses key order, which spec §9 calls
// out as unacceptable for alias/condition matching ("first match wins",
// "declaration order"). jsontext's token stream lets us rebuild an
// ordered tree by hand instead.

type jvKind uint8

const (
	jvNull jvKind = iota
	jvBool
	jvNumber
	jvString
	jvArray
	jvObject
)

type jsonValue struct {
	kind    jvKind
	str     string
	num     float64
	boolean bool
	arr     []jsonValue
	obj     []objectMember
}

type objectMember struct {
	key   string
	value jsonValue
}

func (v jsonValue) get(key string) (jsonValue, bool) {
	for _, m := range v.obj {
		if m.key == key {
			return m.value, true
		}
	}
	return jsonValue{}, false
}

func decodeJSON(data []byte) (jsonValue, error) {
	dec := jsontext.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec)
	if err != nil {
		return jsonValue{}, err
	}
	return v, nil
}

func decodeValue(dec *jsontext.Decoder) (jsonValue, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return jsonValue{}, err
	}

	switch tok.Kind() {
	case 'n':
		return jsonValue{kind: jvNull}, nil
	case 'f', 't':
		return jsonValue{kind: jvBool, boolean: tok.Bool()}, nil
	case '"':
		return jsonValue{kind: jvString, str: tok.String()}, nil
	case '0':
		return jsonValue{kind: jvNumber, num: tok.Float()}, nil

	case '[':
		var arr []jsonValue
		for dec.PeekKind() != ']' {
			elem, err := decodeValue(dec)
			if err != nil {
				return jsonValue{}, err
			}
			arr = append(arr, elem)
		}
		if _, err := dec.ReadToken(); err != nil { // consume ']'
			return jsonValue{}, err
		}
		return jsonValue{kind: jvArray, arr: arr}, nil

	case '{':
		var obj []objectMember
		for dec.PeekKind() != '}' {
			keyTok, err := dec.ReadToken()
			if err != nil {
				return jsonValue{}, err
			}
			value, err := decodeValue(dec)
			if err != nil {
				return jsonValue{}, err
			}
			obj = append(obj, objectMember{key: keyTok.String(), value: value})
		}
		if _, err := dec.ReadToken(); err != nil { // consume '}'
			return jsonValue{}, err
		}
		return jsonValue{kind: jvObject, obj: obj}, nil
	}

	return jsonValue{}, fmt.Errorf("unexpected JSON token %q", tok.Kind())
}
