package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/spf13/cobra"
)

func newLanguagesCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the supported languages",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if asJSON {
				return writeJSON(a.stdout, agrilingo.Languages)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tNATIVE\tDIR\tSPEECH")
			for _, l := range agrilingo.Languages {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					l.Code, l.Name, l.NativeName, agrilingo.GetDirection(l.Code), agrilingo.SpeechTag(l.Code))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
