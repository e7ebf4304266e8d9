// Command ehcalc runs the ElectroHub calculations from project JSON files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ehcalc",
	Short: "Electrical distribution calculations for a single project",
	Long: `Compute demand, transformer sizing, feeder voltage drop and short
circuit, harmonics, grounding and compliance for a project file.

A project file is the JSON document returned by "ehcalc defaults" or
by GET /api/project/defaults. Omitted sections keep their defaults.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
