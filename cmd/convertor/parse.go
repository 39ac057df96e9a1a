package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/artgav/amnola-tpp-convertor/internal/pipeline"
	"github.com/artgav/amnola-tpp-convertor/internal/worksheet"
)

// parsedSection is the YAML view of one menu section.
type parsedSection struct {
	Header    string   `yaml:"header"`
	Items     []string `yaml:"items"`
	Departure string   `yaml:"departure,omitempty"`
}

type parsedWorksheet struct {
	Source     string           `yaml:"source"`
	Folder     string           `yaml:"folder"`
	Title      string           `yaml:"title"`
	OutputName string           `yaml:"output_name"`
	Fields     worksheet.Fields `yaml:"fields"`
	Departures []string         `yaml:"departures"`
	Sections   []parsedSection  `yaml:"sections"`
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Print the fields and menu sections found in a worksheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath, _ := cmd.Flags().GetString("pdf")

		f, err := os.Open(pdfPath)
		if err != nil {
			return fmt.Errorf("open worksheet: %w", err)
		}
		defer f.Close()

		res, err := pipeline.Convert(cmd.Context(), newExtractor(), f, pdfPath)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(describe(pdfPath, res))
	},
}

func describe(source string, res *pipeline.Result) parsedWorksheet {
	ws := res.Worksheet
	out := parsedWorksheet{
		Source:     source,
		Folder:     res.Folder,
		Title:      res.Title,
		OutputName: res.OutputName,
		Fields:     ws.Fields,
		Departures: ws.Departures,
	}
	for i, s := range ws.Sections {
		if s.Empty() {
			continue
		}
		ps := parsedSection{Header: s.Header(), Items: s.Items()}
		if !s.IsBeverage() {
			ps.Departure = ws.Departure(i)
		}
		out.Sections = append(out.Sections, ps)
	}
	return out
}

func init() {
	parseCmd.Flags().String("pdf", "", "worksheet PDF to parse")
	parseCmd.MarkFlagRequired("pdf")

	rootCmd.AddCommand(parseCmd)
}
