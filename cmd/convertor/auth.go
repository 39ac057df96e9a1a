package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artgav/amnola-tpp-convertor/internal/drive"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Google Drive access and save the token",
	Long: `Auth runs the browser consent flow for the OAuth client in the credentials
file and writes the resulting token to the token file. Batch and serve reuse it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		oauthCfg, err := drive.OAuthConfig(cfg.CredentialsFile)
		if err != nil {
			return err
		}
		tok, err := drive.Authorize(cmd.Context(), oauthCfg, cmd.ErrOrStderr(), log)
		if err != nil {
			return err
		}
		if err := drive.SaveToken(cfg.TokenFile, tok); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", cfg.TokenFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
