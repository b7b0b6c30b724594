package resolver

import "testing"

func TestMatchExportsSingleString(t *testing.T) {
	tree := &ExportsTree{IsSingleTarget: true, SingleTarget: ExportsTarget{Kind: TargetString, Str: "./module.js"}}

	got, empty, matched := MatchExports(tree, "/node_modules/pkg", "", nil)
	if !matched || empty || got != "/node_modules/pkg/module.js" {
		t.Fatalf("got (%q, %v, %v)", got, empty, matched)
	}

	if _, _, matched := MatchExports(tree, "/node_modules/pkg", "sub", nil); matched {
		t.Fatalf("expected no match for a subpath when exports is a bare string")
	}
}

func TestMatchExportsGlobSubpath(t *testing.T) {
	tree := &ExportsTree{Entries: []ExportsEntry{
		{Pattern: "./components/*", Target: ExportsTarget{Kind: TargetString, Str: "./src/components/*.js"}},
	}}

	got, empty, matched := MatchExports(tree, "/node_modules/pkg", "components/a", nil)
	if !matched || empty || got != "/node_modules/pkg/src/components/a.js" {
		t.Fatalf("got (%q, %v, %v)", got, empty, matched)
	}
}

func TestMatchExportsNull(t *testing.T) {
	tree := &ExportsTree{Entries: []ExportsEntry{
		{Pattern: "./internal", Target: ExportsTarget{Kind: TargetNull}},
	}}

	_, empty, matched := MatchExports(tree, "/node_modules/pkg", "internal", nil)
	if !matched || !empty {
		t.Fatalf("got empty=%v matched=%v, want true/true", empty, matched)
	}
}

func TestMatchExportsConditions(t *testing.T) {
	tree := &ExportsTree{Entries: []ExportsEntry{
		{Pattern: "./utils/*", Target: ExportsTarget{Kind: TargetConditions, Conditions: []ConditionEntry{
			{Name: "import", Target: ExportsTarget{Kind: TargetString, Str: "./src/utils/*.mjs"}},
			{Name: "default", Target: ExportsTarget{Kind: TargetString, Str: "./src/utils/*.js"}},
		}}},
	}}

	conditions := map[string]bool{"browser": true, "import": true, "default": true}
	got, empty, matched := MatchExports(tree, "/node_modules/pkg", "utils/path", conditions)
	if !matched || empty || got != "/node_modules/pkg/src/utils/path.mjs" {
		t.Fatalf("got (%q, %v, %v)", got, empty, matched)
	}

	requireOnly := map[string]bool{"require": true}
	got2, _, matched2 := MatchExports(tree, "/node_modules/pkg", "utils/path", requireOnly)
	if !matched2 || got2 != "/node_modules/pkg/src/utils/path.js" {
		t.Fatalf("default fallback: got (%q, %v)", got2, matched2)
	}
}

func TestMatchExportsMostSpecificPattern(t *testing.T) {
	tree := &ExportsTree{Entries: []ExportsEntry{
		{Pattern: "./*", Target: ExportsTarget{Kind: TargetString, Str: "./dist/*.js"}},
		{Pattern: "./components/*", Target: ExportsTarget{Kind: TargetString, Str: "./src/components/*.js"}},
	}}

	got, _, matched := MatchExports(tree, "/pkg", "components/a", nil)
	if !matched || got != "/pkg/src/components/a.js" {
		t.Fatalf("expected the longer-prefix pattern to win, got %q", got)
	}
}

func TestMatchExportsExactBeatsPattern(t *testing.T) {
	tree := &ExportsTree{Entries: []ExportsEntry{
		{Pattern: "./*", Target: ExportsTarget{Kind: TargetString, Str: "./dist/*.js"}},
		{Pattern: "./foo", Target: ExportsTarget{Kind: TargetString, Str: "./exact-foo.js"}},
	}}

	got, _, matched := MatchExports(tree, "/pkg", "foo", nil)
	if !matched || got != "/pkg/exact-foo.js" {
		t.Fatalf("expected exact key to win over pattern, got %q", got)
	}
}

func TestMatchExportsRootSugar(t *testing.T) {
	tree := &ExportsTree{IsSingleTarget: true, SingleTarget: ExportsTarget{Kind: TargetConditions, Conditions: []ConditionEntry{
		{Name: "browser", Target: ExportsTarget{Kind: TargetString, Str: "./browser.js"}},
		{Name: "default", Target: ExportsTarget{Kind: TargetString, Str: "./index.js"}},
	}}}

	got, _, matched := MatchExports(tree, "/pkg", "", map[string]bool{"browser": true})
	if !matched || got != "/pkg/browser.js" {
		t.Fatalf("got %q", got)
	}
}

func TestMatchExportsNoMatchingCondition(t *testing.T) {
	tree := &ExportsTree{IsSingleTarget: true, SingleTarget: ExportsTarget{Kind: TargetConditions, Conditions: []ConditionEntry{
		{Name: "node", Target: ExportsTarget{Kind: TargetString, Str: "./node.js"}},
	}}}

	if _, _, matched := MatchExports(tree, "/pkg", "", map[string]bool{"browser": true}); matched {
		t.Fatalf("expected no match when no condition applies and there is no default")
	}
}
