// Package cmd implements the busbot command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kheireddine-anas/busbot/app"
	"github.com/kheireddine-anas/busbot/config"
	"github.com/kheireddine-anas/busbot/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "busbot",
	Short: "Scheduled shuttle-bus booking service",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	go consoleLoop(ctx, svc, os.Stdin, os.Stdout)
	return svc.Run(ctx)
}
