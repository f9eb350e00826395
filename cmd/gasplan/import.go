package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/gasplan/pkg/plan"
	"github.com/ha1tch/gasplan/pkg/planfile"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		into   string
		output string
		flipY  bool
		width  float64
	)
	cmd := &cobra.Command{
		Use:   "import <segments.json>",
		Short: "Import background geometry into a plan",
		Long: `Reads a segment list, either [{"p1":{"x":..,"y":..},"p2":{..}}, ...] or
[[x1, y1, x2, y2], ...], fits it to the import width and replaces the plan's
background with it. Without --into a new plan is created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segs, err := planfile.ReadSegmentsFile(args[0])
			if err != nil {
				return fmt.Errorf("reading segments: %w", err)
			}

			var d *plan.Document
			if into != "" {
				if d, err = a.load(into); err != nil {
					return err
				}
			} else {
				d = plan.New(plan.WithViewSettings(a.cfg.ViewSettings()))
			}

			opts := a.cfg.ImportOptions(flipY)
			if width > 0 {
				opts.TargetWidth = width
			}
			scale := d.ImportBackground(segs, opts)
			a.log.Debug("background imported", "segments", len(segs), "kept", len(d.BackgroundEntities()), "scale", scale)

			if output == "" {
				output = into
			}
			if output == "" {
				output = swapExt(args[0], ".gplan")
			}
			if err := a.save(output, d); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d segments at scale %g into %s\n",
				len(d.BackgroundEntities()), scale, output)
			return nil
		},
	}
	cmd.Flags().StringVar(&into, "into", "", "existing plan to import into")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output plan (default: --into, or <segments>.gplan)")
	cmd.Flags().BoolVar(&flipY, "flip-y", false, "negate Y (for Y-up sources)")
	cmd.Flags().Float64Var(&width, "width", 0, "target width (default from config)")
	return cmd
}
