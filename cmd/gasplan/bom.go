package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ha1tch/gasplan/pkg/plan"
)

func newBOMCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "bom <plan>",
		Short: "Print the bill of materials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			bom := plan.Aggregate(d, a.cfg.Router(d))
			w := cmd.OutOrStdout()
			switch format {
			case "text":
				return writeBOMText(w, bom)
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(bom); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(bom)
			}
			return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml, json")
	return cmd
}

func writeBOMText(w io.Writer, bom plan.BOM) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tCOUNT")
	for _, k := range plan.ItemKinds {
		fmt.Fprintf(tw, "%s\t%d\n", k.Title(), bom.Counts[k])
	}
	fmt.Fprintf(tw, "Total\t%d\n\n", bom.ItemTotal())

	fmt.Fprintln(tw, "GAS\tLENGTH")
	for _, l := range plan.GasLayers {
		fmt.Fprintf(tw, "%s\t%.2f\n", l.Title(), bom.PipeLength[l])
	}
	fmt.Fprintf(tw, "Total\t%.2f\n", bom.TotalLength())

	if len(bom.Rows) > 0 {
		fmt.Fprintln(tw, "\nPIPE\tFROM\tTO\tGAS\tLENGTH\t")
		for _, row := range bom.Rows {
			flag := ""
			if row.OverLength {
				flag = "over length"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
				row.ConnectionID, row.StartLabel, row.EndLabel, row.Layer.Title(), row.Length, flag)
		}
	}
	return tw.Flush()
}
