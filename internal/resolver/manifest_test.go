package resolver

import "testing"

func TestProcessPackageJSONMainFallback(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{"main": "./lib/index.js"}`), "/node_modules/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pm.HasEntry || pm.Entry != "./lib/index.js" {
		t.Fatalf("got Entry=%q HasEntry=%v", pm.Entry, pm.HasEntry)
	}
}

func TestProcessPackageJSONEntryPrecedence(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{
		"main": "./main.js",
		"module": "./module.js",
		"browser": "./browser.js"
	}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm.Entry != "./browser.js" {
		t.Fatalf("browser string should win over module/main, got %q", pm.Entry)
	}

	pm2, err := ProcessPackageJSON([]byte(`{"main": "./main.js", "module": "./module.js"}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm2.Entry != "./module.js" {
		t.Fatalf("module should win over main, got %q", pm2.Entry)
	}
}

func TestProcessPackageJSONBrowserObjectAliases(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{
		"main": "./index.js",
		"browser": {
			"./index.js": false,
			"fs": false,
			"./client.js": "./client-override.js"
		}
	}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pm.Aliases) != 3 {
		t.Fatalf("got %d aliases, want 3", len(pm.Aliases))
	}

	got, empty, ok := MatchAlias(pm.Aliases, "./index.js")
	if !ok || !empty {
		t.Fatalf("./index.js alias = (%q, %v, %v), want empty", got, empty, ok)
	}

	_, empty, ok = MatchAlias(pm.Aliases, "fs")
	if !ok || !empty {
		t.Fatalf("fs alias should be disabled")
	}

	got, empty, ok = MatchAlias(pm.Aliases, "./client.js")
	if !ok || empty || got != "./client-override.js" {
		t.Fatalf("./client.js alias = (%q, %v, %v)", got, empty, ok)
	}
}

func TestProcessPackageJSONAliasObjectGlob(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{
		"alias": {
			"lodash/*": "lodash-es/*"
		}
	}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, empty, ok := MatchAlias(pm.Aliases, "lodash/map")
	if !ok || empty || got != "lodash-es/map" {
		t.Fatalf("got (%q, %v, %v)", got, empty, ok)
	}
}

func TestProcessPackageJSONExportsString(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{"exports": "./index.js"}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm.Exports == nil || !pm.Exports.IsSingleTarget || pm.Exports.SingleTarget.Str != "./index.js" {
		t.Fatalf("got %+v", pm.Exports)
	}
}

func TestProcessPackageJSONExportsSubpathMap(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{
		"exports": {
			".": "./index.js",
			"./feature": "./feature.js"
		}
	}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm.Exports == nil || len(pm.Exports.Entries) != 2 {
		t.Fatalf("got %+v", pm.Exports)
	}
}

func TestProcessPackageJSONExportsRootConditionsSugar(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{
		"exports": {
			"browser": "./browser.js",
			"default": "./index.js"
		}
	}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm.Exports == nil || !pm.Exports.IsSingleTarget {
		t.Fatalf("expected a root conditions object to compile as a single target, got %+v", pm.Exports)
	}
	if pm.Exports.SingleTarget.Kind != TargetConditions || len(pm.Exports.SingleTarget.Conditions) != 2 {
		t.Fatalf("got %+v", pm.Exports.SingleTarget)
	}
}

func TestProcessPackageJSONExportsMixedKeysIsMalformed(t *testing.T) {
	_, err := ProcessPackageJSON([]byte(`{
		"exports": {
			".": "./index.js",
			"browser": "./browser.js"
		}
	}`), "/pkg")
	if err == nil {
		t.Fatalf("expected a MalformedManifest error for mixed subpath/condition keys")
	}
	if _, ok := err.(*MalformedManifest); !ok {
		t.Fatalf("got error of type %T, want *MalformedManifest", err)
	}
}

func TestProcessPackageJSONExportsNull(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{
		"exports": {
			".": "./index.js",
			"./internal": null
		}
	}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, empty, matched := MatchExports(pm.Exports, "/pkg", "internal", nil)
	if !matched || !empty {
		t.Fatalf("got (%q, %v, %v)", got, empty, matched)
	}
}

func TestProcessPackageJSONNotAnObject(t *testing.T) {
	_, err := ProcessPackageJSON([]byte(`"just a string"`), "/pkg")
	if err == nil {
		t.Fatalf("expected a MalformedManifest error")
	}
}

func TestProcessPackageJSONInvalidJSON(t *testing.T) {
	_, err := ProcessPackageJSON([]byte(`{not valid json`), "/pkg")
	if err == nil {
		t.Fatalf("expected a MalformedManifest error for invalid JSON")
	}
}

func TestProcessPackageJSONNoEntryNoExports(t *testing.T) {
	pm, err := ProcessPackageJSON([]byte(`{"name": "pkg"}`), "/pkg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pm.HasEntry || pm.Exports != nil || len(pm.Aliases) != 0 {
		t.Fatalf("got %+v", pm)
	}
}
