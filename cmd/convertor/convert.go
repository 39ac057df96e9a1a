package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artgav/amnola-tpp-convertor/internal/docxfile"
	"github.com/artgav/amnola-tpp-convertor/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert one worksheet PDF into a menu document",
	Long: `Convert extracts the worksheet text from --pdf, parses its fields and menu
sections, and writes the formatted menu to --out. Nothing is uploaded or moved.`,
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
		if err := docxfile.Save(outPath, res.Document); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}

		log.Info("converted worksheet",
			"input", pdfPath, "output", outPath, "title", res.Title, "sections", res.Sections())
		return nil
	},
}

func init() {
	convertCmd.Flags().String("pdf", "", "worksheet PDF to convert")
	convertCmd.Flags().String("out", "", "path of the .docx to write")
	convertCmd.MarkFlagRequired("pdf")
	convertCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(convertCmd)
}
