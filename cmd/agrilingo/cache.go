package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ZaguanLabs/agrilingo/cache"
	"github.com/spf13/cobra"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and move the persisted translation cache",
	}
	cmd.AddCommand(newCacheStatsCmd(a), newCacheExportCmd(a), newCacheImportCmd(a))
	return cmd
}

func newCacheStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and today's API usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			st := rt.svc.Stats()
			if asJSON {
				return writeJSON(a.stdout, st)
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "language\t%s\n", st.Language)
			fmt.Fprintf(tw, "cached\t%d\n", st.CacheSize)
			fmt.Fprintf(tw, "api calls\t%d (%s)\n", st.APICallsToday, st.Day)
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newCacheExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the cache as a snapshot (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			meta := map[string]string{"language": rt.svc.Language()}
			exporter := cache.NewExporter(rt.cache)
			if len(args) == 1 {
				if err := exporter.ExportToFile(args[0], meta); err != nil {
					return err
				}
				fmt.Fprintf(a.stderr, "Exported %d entries to %s\n", rt.cache.Len(), args[0])
				return nil
			}
			return exporter.Export(a.stdout, meta)
		},
	}
}

func newCacheImportCmd(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Load a snapshot into the cache and persist it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readFileOrStdin(args[0], a.stdin)
			if err != nil {
				return err
			}

			rt, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			importer := cache.NewImporter(rt.cache)
			if dryRun {
				diff, err := importer.Preview(data)
				if err != nil {
					return err
				}
				printDiff(a.stdout, diff)
				return nil
			}

			result, err := importer.Import(bytes.NewReader(data))
			if err != nil {
				return err
			}
			if err := rt.svc.Flush(cmd.Context()); err != nil {
				return fmt.Errorf("persisting imported cache: %w", err)
			}
			fmt.Fprintf(a.stdout, "Imported %d entries (%d skipped, %d failed)\n",
				result.Imported, result.Skipped, result.Failed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	return cmd
}

func printDiff(w io.Writer, d *cache.Diff) {
	for _, e := range d.Added {
		fmt.Fprintf(w, "+ %s = %s\n", e.Key, e.Value)
	}
	for _, e := range d.Changed {
		fmt.Fprintf(w, "~ %s: %s -> %s\n", e.Key, e.Old, e.New)
	}
	s := d.Stats()
	fmt.Fprintf(w, "%d added, %d changed, %d unchanged, %d skipped\n",
		s.Added, s.Changed, s.Unchanged, s.Skipped)
}

func readFileOrStdin(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}
