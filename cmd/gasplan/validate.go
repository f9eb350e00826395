package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate <plan>",
		Short: "Validate a plan file",
		Long: `Loads a plan and checks every invariant. Dangling connections and
over-length pipes are reported as warnings; with --strict they fail the check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			r := a.cfg.Router(d)

			warnings := 0
			for _, c := range d.Connections() {
				route, ok := r.Route(d, c)
				if !ok {
					fmt.Fprintf(w, "warning: connection %s references a missing item\n", c.ID)
					warnings++
					continue
				}
				if route.OverLength {
					start, end, _ := d.Endpoints(c)
					fmt.Fprintf(w, "warning: %s pipe %s -> %s is %.2f long (limit %g)\n",
						c.Layer.Title(), start.Label, end.Label, route.Length, r.OverLength)
					warnings++
				}
			}
			if strict && warnings > 0 {
				return fmt.Errorf("%s: %d warnings", args[0], warnings)
			}
			fmt.Fprintf(w, "%s: valid plan with %d items, %d connections\n",
				args[0], d.ItemCount(), len(d.Connections()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}
