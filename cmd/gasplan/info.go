package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/gasplan/pkg/plan"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <plan>",
		Short: "Show plan contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			bom := plan.Aggregate(d, a.cfg.Router(d))

			fmt.Fprintf(w, "Items:       %d", d.ItemCount())
			for _, k := range plan.ItemKinds {
				fmt.Fprintf(w, "  %s %d", k.Title(), bom.Counts[k])
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Connections: %d", len(d.Connections()))
			for _, l := range plan.GasLayers {
				fmt.Fprintf(w, "  %s %d", l.Title(), countLayer(d, l))
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Drawables:   %d\n", len(d.Drawables()))
			fmt.Fprintf(w, "Background:  %d segments, scale %g", len(d.BackgroundEntities()), d.Background().Scale)
			if img := d.Background().Image; img != "" {
				fmt.Fprintf(w, ", image %s", img)
			}
			fmt.Fprintln(w)

			v := d.View()
			fmt.Fprintf(w, "View:        %s, grid %g (snap %t), %g px/unit\n",
				v.Viewport, v.GridSize, v.GridSnap, v.PixelsPerUnit)
			if b, ok := d.Bounds(); ok {
				fmt.Fprintf(w, "Extent:      %.0f x %.0f at (%.0f, %.0f)\n", b.W, b.H, b.X, b.Y)
			}
			fmt.Fprintf(w, "Pipe length: %.2f\n", bom.TotalLength())
			return nil
		},
	}
}

func countLayer(d *plan.Document, l plan.GasLayer) int {
	n := 0
	for _, c := range d.Connections() {
		if c.Layer == l {
			n++
		}
	}
	return n
}
