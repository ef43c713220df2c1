// Command agrilingo serves and manages the farm dashboard translation layer.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/spf13/cobra"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = agrilingo.Version
	commit    = agrilingo.GitCommit
	buildDate = agrilingo.BuildDate
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd(&app{stdin: stdin, stdout: stdout, stderr: stderr})
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   agrilingo.Name,
		Short: agrilingo.Description,
		Long: `agrilingo resolves dashboard text into the farmer's language.

Text is looked up in the translation cache, then the bundled phrase table,
and only then sent to the remote translation service, one request at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	f.String("log-level", "", "Log level (debug, info, warn, error)")
	f.String("log-format", "", "Log format (auto, console, json)")
	f.String("provider", "", "Translation provider (libretranslate, openai, mock)")
	f.String("store", "", "Persisted store driver (memory, file, sqlite, redis)")
	f.String("store-path", "", "Path for the file and sqlite stores")

	root.AddCommand(
		newServeCmd(a),
		newTranslateCmd(a),
		newLanguagesCmd(a),
		newCacheCmd(a),
		newSpeakCmd(a),
		newVersionCmd(a),
	)
	return root
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(a.stdout, "%s %s\n", agrilingo.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(a.stdout, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(a.stdout, "  built:   %s\n", buildDate)
			}
		},
	}
}
