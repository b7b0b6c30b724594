// Command nodepath resolves a module specifier the way a browser
// bundler would: relative/absolute paths, node_modules lookup, and
// package.json main/module/browser/alias/exports redirection.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "nodepath",
	Short: "Resolve module specifiers like a browser bundler",
	Long:  `nodepath resolves relative, absolute, and bare module specifiers against a real filesystem, following main/module/browser/alias/exports redirection.`,
}

func init() {
	rootCmd.PersistentFlags().StringSlice("ext", []string{".js", ".json"}, "extensions to probe, in order")
	_ = viper.BindPFlag("ext", rootCmd.PersistentFlags().Lookup("ext"))

	// NODEPATH_EXT=.ts,.tsx overrides --ext when the flag is left at its
	// default, the same env/flag merge philjestin-philtographer's root
	// command wires up for its own persistent flags.
	viper.SetEnvPrefix("NODEPATH")
	viper.AutomaticEnv()

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(aliasesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
