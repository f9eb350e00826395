package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/gasplan/pkg/planfile"
)

func newConvertCommand(a *app) *cobra.Command {
	var (
		output string
		pretty bool
	)
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert between plan formats (json, mpk, gplan)",
		Long: `Converts a plan file. The output format follows the output extension;
without -o a .json input becomes .gplan and anything else becomes .json.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			d, err := a.load(input)
			if err != nil {
				return err
			}
			if output == "" {
				if f, _ := planfile.FormatFor(input); f == planfile.FormatJSON {
					output = swapExt(input, ".gplan")
				} else {
					output = swapExt(input, ".json")
				}
			}
			format, err := planfile.FormatFor(output)
			if err != nil {
				return err
			}
			if format == planfile.FormatJSON && !pretty {
				data, err := planfile.ToJSON(d, false)
				if err != nil {
					return err
				}
				if err := os.WriteFile(output, data, 0644); err != nil {
					return err
				}
			} else if err := a.save(output, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent JSON output")
	return cmd
}
