// Command gasplan inspects, converts, imports into and plots medical gas
// pipe-network plans.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/gasplan/pkg/config"
	"github.com/ha1tch/gasplan/pkg/plan"
	"github.com/ha1tch/gasplan/pkg/planfile"
)

var version = "0.1.0"

// app carries what every subcommand needs after flag parsing.
type app struct {
	configPath string
	verbose    bool
	cfg        config.Config
	log        *slog.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "gasplan",
		Short: "gasplan - medical gas pipe-network plans",
		Long: `gasplan works with plan files written by gasedit: .json, .mpk
(MessagePack) and .gplan bundles. It validates plans, reports the bill of
materials, converts between formats, imports background geometry and plots
plans to PNG or SVG.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.gasplan.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(newInfoCommand(a))
	root.AddCommand(newValidateCommand(a))
	root.AddCommand(newBOMCommand(a))
	root.AddCommand(newConvertCommand(a))
	root.AddCommand(newImportCommand(a))
	root.AddCommand(newRenderCommand(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.log)

	path := a.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log.Debug("config loaded", "path", path)
	return nil
}

// load reads a plan file, rejecting corrupt documents.
func (a *app) load(path string) (*plan.Document, error) {
	d, err := planfile.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	a.log.Debug("plan loaded", "path", path, "items", d.ItemCount(), "connections", len(d.Connections()))
	return d, nil
}

func (a *app) save(path string, d *plan.Document) error {
	if err := planfile.WriteFile(path, d, a.cfg.Router(d)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	a.log.Debug("plan written", "path", path)
	return nil
}

// swapExt replaces the extension of path.
func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
