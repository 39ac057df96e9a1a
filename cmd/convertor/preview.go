package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artgav/amnola-tpp-convertor/internal/pipeline"
	"github.com/artgav/amnola-tpp-convertor/internal/render"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render a worksheet's menu as HTML",
	Long: `Preview renders the menu a worksheet would produce as a standalone HTML page,
written to --out or to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pdfPath, _ := cmd.Flags().GetString("pdf")
		outPath, _ := cmd.Flags().GetString("out")

		f, err := os.Open(pdfPath)
		if err != nil {
			return fmt.Errorf("open worksheet: %w", err)
		}
		defer f.Close()

		res, err := pipeline.Convert(cmd.Context(), newExtractor(), f, pdfPath)
		if err != nil {
			return err
		}
		page, err := render.HTML(res.Document)
		if err != nil {
			return err
		}

		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(page)
			return err
		}
		if err := os.WriteFile(outPath, page, 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		log.Info("wrote preview", "input", pdfPath, "output", outPath)
		return nil
	},
}

func init() {
	previewCmd.Flags().String("pdf", "", "worksheet PDF to preview")
	previewCmd.Flags().String("out", "", "HTML file to write (default: stdout)")
	previewCmd.MarkFlagRequired("pdf")

	rootCmd.AddCommand(previewCmd)
}
