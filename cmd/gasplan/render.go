package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/gasplan/pkg/planfile"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		output    string
		format    string
		width     int
		height    int
		title     string
		noLengths bool
	)
	cmd := &cobra.Command{
		Use:   "render <plan>",
		Short: "Plot a plan to PNG or SVG, or its network to DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			}
			if format == "" {
				format = a.cfg.FileType
			}
			if output == "" {
				output = swapExt(args[0], "."+format)
			}
			r := a.cfg.Router(d)

			switch format {
			case "png":
				opts := planfile.DefaultPNGOptions()
				opts.Width, opts.Height, opts.Title = width, height, title
				opts.ShowLengths = !noLengths
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := planfile.RenderPNG(d, r, f, opts); err != nil {
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
			case "svg":
				opts := planfile.DefaultSVGOptions()
				opts.Width, opts.Height, opts.Title = width, height, title
				opts.ShowLengths = !noLengths
				if err := os.WriteFile(output, []byte(planfile.GenerateSVG(d, r, opts)), 0644); err != nil {
					return err
				}
			case "dot":
				if err := os.WriteFile(output, []byte(planfile.GenerateDOT(d, r, title)), 0644); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown render format %q (want png, svg or dot)", format)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Written: %s\n", output)
			return nil
		},
	}
	def := planfile.DefaultPNGOptions()
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <plan>.<format>)")
	cmd.Flags().StringVar(&format, "format", "", "png, svg or dot (default from -o, then config)")
	cmd.Flags().IntVar(&width, "width", def.Width, "image width")
	cmd.Flags().IntVar(&height, "height", def.Height, "image height")
	cmd.Flags().StringVarP(&title, "title", "t", "", "plot title")
	cmd.Flags().BoolVar(&noLengths, "no-lengths", false, "omit pipe length labels")
	return cmd
}
