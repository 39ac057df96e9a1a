// Package main is the entry point for the convertor CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/artgav/amnola-tpp-convertor/internal/config"
)

// Loaded by the root command before any subcommand runs.
var (
	cfg config.Config
	log *slog.Logger
)

// rootCmd is the base command for the convertor CLI.
var rootCmd = &cobra.Command{
	Use:   "convertor",
	Short: "Turn catering event worksheets into kitchen menu documents",
	Long: `convertor reads event worksheet PDFs, extracts the event fields and menu
sections, and renders a formatted kitchen menu as a .docx document.

Single files are converted with convert; batch works through the inbox
directory and uploads each menu to Google Drive; serve exposes the same
pipeline over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		log = cfg.Logger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./convertor.yaml or ~/.config/convertor/convertor.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
