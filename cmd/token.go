package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kheireddine-anas/busbot/config"
	"github.com/kheireddine-anas/busbot/core/session"
	"github.com/kheireddine-anas/busbot/infra/browser"
	"github.com/kheireddine-anas/busbot/infra/logger"
	"github.com/kheireddine-anas/busbot/infra/tokenfile"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Acquire a session token via automated login and persist it",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		acquirer := browser.NewAcquirer(cfg.Browser, logger.New("browser"))
		token, err := acquirer.Acquire(cmd.Context())
		if err != nil {
			return err
		}
		if err := tokenfile.New(cfg.Token.Path).Save(token); err != nil {
			return fmt.Errorf("save token: %w", err)
		}
		fmt.Printf("Token saved to %s: %s\n", cfg.Token.Path, session.MaskToken(token))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
