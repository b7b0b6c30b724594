package main

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nodepath/nodepath/internal/fsprobe"
	"github.com/nodepath/nodepath/internal/nplog"
	"github.com/nodepath/nodepath/pkg/resolve"
)

var (
	resolveImporter string
	resolveTrace    bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <specifier>",
	Short: "Resolve one specifier against one importing file",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVarP(&resolveImporter, "importer", "i", "", "absolute path of the importing file (required)")
	resolveCmd.Flags().BoolVarP(&resolveTrace, "trace", "t", false, "print each resolution decision as it happens")
	_ = resolveCmd.MarkFlagRequired("importer")
}

func runResolve(cmd *cobra.Command, args []string) error {
	specifier := args[0]
	extensions := viper.GetStringSlice("ext")

	var msgs []nplog.Msg
	log := nplog.New(&msgs)

	fs := fsprobe.Real()
	opts := resolve.Options{
		Filename:   resolveImporter,
		Extensions: extensions,
		IsFile:     fs.IsFile,
		ReadFile:   fs.ReadFile,
	}
	if resolveTrace {
		opts.Log = &log
	}

	result, err := resolve.ResolveSync(specifier, opts)

	if resolveTrace {
		for _, m := range msgs {
			color.New(color.FgHiBlack).Fprintf(cmd.OutOrStdout(), "[%s] %s\n", m.Kind, m.Text)
		}
	}

	if err != nil {
		var notFound *resolve.ModuleNotFound
		if errors.As(err, &notFound) {
			color.New(color.FgRed).Fprintf(cmd.OutOrStdout(), "not found: %s\n", notFound.Error())
			return err
		}
		return err
	}

	color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), result)
	return nil
}
