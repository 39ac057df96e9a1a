package main

import (
	"github.com/spf13/cobra"

	"github.com/artgav/amnola-tpp-convertor/internal/pipeline"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert and upload every worksheet in the inbox",
	Long: `Batch converts each *.pdf in the input directory, uploads the menu into a
dated Drive subfolder, and moves the worksheet to the processed directory.
Worksheets converted before are skipped unless --force is given. The command
fails if any file failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		noUpload, _ := cmd.Flags().GetBool("no-upload")

		p, ledger, err := newProcessor(cmd.Context(), cfg.UploadEnabled && !noUpload, true)
		if err != nil {
			return err
		}
		defer ledger.Close()

		b := &pipeline.Batch{
			Processor: p,
			InputDir:  cfg.InputDir,
			Force:     force,
			Log:       log,
		}
		report, err := b.Run(cmd.Context())
		if err != nil {
			return err
		}
		return report.Err()
	},
}

func init() {
	batchCmd.Flags().Bool("force", false, "convert worksheets even if they were converted before")
	batchCmd.Flags().Bool("no-upload", false, "keep documents local and skip Google Drive")

	rootCmd.AddCommand(batchCmd)
}
