package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"ElectroHub/internal/auth"
	"ElectroHub/internal/calc/demand"
	"ElectroHub/internal/calc/export"
	"ElectroHub/internal/calc/report"
	"ElectroHub/internal/project"

	"github.com/spf13/cobra"
)

var (
	projectFile string
	outputFile  string
	format      string
	scenario    string
	reportMeta  report.Meta
)

var defaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Print the default project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), project.Default())
	},
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute every result for a project file",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(cmd)
		if err != nil {
			return err
		}
		res := project.NewEngine(nil).Compute(p)
		for _, i := range res.Issues() {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", i.Kind, i.Field, i.Message)
		}
		return printJSON(cmd.OutOrStdout(), project.Response{Project: p, Results: res})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the PDF report for a project file",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(cmd)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := report.Build(&buf, reportMeta, p, project.NewEngine(nil).Compute(p)); err != nil {
			return fmt.Errorf("build report: %w", err)
		}
		return writeOutput(cmd, buf.Bytes())
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a project as json, xlsx or one of the csv tables",
	Long: `Export a project and its results.

Formats: json, xlsx, loads.csv, feeders.csv, demand.csv, feeder-results.csv.
loads.csv and feeders.csv use the import layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(cmd)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := export.Write(&buf, format, p, project.NewEngine(nil).Compute(p)); err != nil {
			return err
		}
		return writeOutput(cmd, buf.Bytes())
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash for OPERATOR_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{computeCmd, reportCmd, exportCmd} {
		c.Flags().StringVarP(&projectFile, "file", "f", "", `project JSON file ("-" for stdin)`)
		c.MarkFlagRequired("file")
		c.Flags().StringVarP(&scenario, "scenario", "s", "", "override the project scenario (A or B)")
	}
	for _, c := range []*cobra.Command{reportCmd, exportCmd} {
		c.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "export format")
	reportCmd.Flags().StringVar(&reportMeta.Title, "title", "", "report title")
	reportCmd.Flags().StringVar(&reportMeta.Author, "author", "", "report author")
	reportCmd.Flags().StringVar(&reportMeta.Notes, "notes", "", "notes printed in the report")

	rootCmd.AddCommand(defaultsCmd, computeCmd, reportCmd, exportCmd, hashPasswordCmd)
}

func loadProject(cmd *cobra.Command) (project.Project, error) {
	var r io.Reader = cmd.InOrStdin()
	if projectFile != "-" {
		f, err := os.Open(projectFile)
		if err != nil {
			return project.Project{}, err
		}
		defer f.Close()
		r = f
	}
	p, err := project.Decode(r)
	if err != nil {
		return project.Project{}, fmt.Errorf("read project %s: %w", projectFile, err)
	}
	if scenario != "" {
		if p.Scenario, err = demand.ParseScenario(scenario); err != nil {
			return project.Project{}, err
		}
	}
	return p, nil
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	if outputFile == "" || outputFile == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return os.WriteFile(outputFile, data, 0o644)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
