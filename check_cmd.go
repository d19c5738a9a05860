package main

import (
	"fmt"

	"github.com/dgnsrekt/speak/internal/config"
	"github.com/dgnsrekt/speak/internal/opener"
	"github.com/dgnsrekt/speak/internal/speech"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Verify the API key and the system player",
	Long:    paragraph(fmt.Sprintf("\n%s that the OpenAI API key is accepted and that the default player command for this system is installed.", keyword("Check"))),
	Example: paragraph("speak check\nOPENAI_API_KEY=sk-... speak check"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		creds, err := config.LoadCredentials(config.DotEnvFile)
		if err != nil {
			return err
		}
		client, err := speech.NewClient(creds.ClientConfig(logger))
		if err != nil {
			return err
		}

		n, err := client.Check(cmd.Context())
		if err != nil {
			if code := speech.StatusCode(err); code != 0 {
				logger.Error("API key check failed", "status", code, "key", creds.Redacted())
			}
			return fmt.Errorf("api key check failed: %w", err)
		}
		logger.Info("API key is valid", "key", creds.Redacted(), "models", n)

		platform := opener.Detect()
		o := opener.For(platform, nil)
		if opener.Available(o) {
			logger.Info("Default player found", "platform", platform, "opener", o.Name())
		} else {
			logger.Warn("Default player command not found in PATH", "platform", platform, "opener", o.Name())
		}
		return nil
	},
}
