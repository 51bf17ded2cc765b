package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/kiplot/internal/config"
	"github.com/OpenTraceLab/kiplot/pkg/kicad/plot"
)

var (
	// Global flags
	verbose bool

	// Defaults for every flag, from .env and KIPLOT_* variables
	cfg = config.Load()
)

var rootCmd = &cobra.Command{
	Use:   "kiplot",
	Short: "kiplot - KiCad schematic plotter",
	Long: `kiplot renders KiCad schematics (.kicad_sch) to SVG and PNG.

Examples:
  kiplot sch info board.kicad_sch                   # Show schematic summary
  kiplot sch render board.kicad_sch -o board.svg    # Plot every page
  kiplot sch render board.kicad_sch --border --format png
  kiplot sch size board.kicad_sch                   # Print page sizes
  kiplot sch view board.kicad_sch                   # Open a preview window

Defaults come from KIPLOT_* environment variables or a .env file.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		plot.SetLogger(cfg.NewLogger(os.Stderr, verbose))
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
