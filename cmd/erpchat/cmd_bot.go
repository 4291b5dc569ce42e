package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run only the Telegram bot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.BotToken == "" {
			return errors.New("BOT_TOKEN is required")
		}
		return run(cmd.Context(), cfg, false, true)
	},
}
