package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nodepath/nodepath/pkg/resolve"
)

var aliasesCmd = &cobra.Command{
	Use:   "aliases <package.json>",
	Short: "List a package's alias/exports subpath keys and flag unsupported glob syntax",
	Long: `Lists the keys nodepath's alias and exports matchers will see for a
package.json, and flags keys that look like they were written assuming
full glob semantics (**, ?, character classes) — this resolver's
alias/exports grammar only ever supports a single "*" wildcard per key.`,
	Args: cobra.ExactArgs(1),
	RunE: runAliases,
}

func runAliases(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}

	pkgDir := filepath.Dir(path)
	pm, err := resolve.ProcessPackageJSON(data, pkgDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, a := range pm.Aliases {
		key := a.Key.Exact
		if a.Key.IsGlob {
			key = a.Key.Prefix + "*" + a.Key.Suffix
		}
		fmt.Fprintf(out, "alias  %s\n", key)
		warnIfOverGlobbed(out, key)
	}

	if pm.Exports != nil {
		for _, e := range pm.Exports.Entries {
			fmt.Fprintf(out, "export %s\n", e.Pattern)
			warnIfOverGlobbed(out, e.Pattern)
		}
	}

	return nil
}

// warnIfOverGlobbed flags a key that would behave differently under
// full glob matching than under this resolver's single-"*" capture
// grammar: any key containing "**", "?", "[" or "{" is reported, and
// doublestar.Match is used only to tell whether that richer syntax is
// even valid glob syntax. It is a lint only: resolution itself never calls
// doublestar, because substituting the captured segment into a
// replacement value needs the capture, which a boolean glob match
// alone doesn't give us.
func warnIfOverGlobbed(out interface{ Write([]byte) (int, error) }, key string) {
	if !strings.ContainsAny(key, "?[{") && !strings.Contains(key, "**") {
		return
	}
	if _, err := doublestar.Match(key, key); err != nil {
		fmt.Fprintf(out, "       %s\n", color.New(color.FgYellow).Sprintf("invalid glob syntax in %q: %s", key, err))
		return
	}
	fmt.Fprintf(out, "       %s\n", color.New(color.FgYellow).Sprintf(
		"%q uses glob syntax nodepath does not interpret (only a single \"*\" is matched)", key))
}
