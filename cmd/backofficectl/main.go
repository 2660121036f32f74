// Package main содержит служебную утилиту бэк-офиса: создание администратора и ручной пересчёт аналитики.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mmeshcher/restaurant-backoffice/internal/app"
	"github.com/mmeshcher/restaurant-backoffice/internal/config"
	"github.com/mmeshcher/restaurant-backoffice/internal/logger"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "backofficectl",
		Short:         "Maintenance commands for the restaurant back-office",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(adminCmd())
	rootCmd.AddCommand(analyticsCmd())

	return rootCmd
}

// openComponents читает конфигурацию из окружения и собирает сервис.
func openComponents() (*app.Components, *zap.Logger, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, nil, err
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}

	components, err := app.Build(cfg, zl)
	if err != nil {
		return nil, nil, err
	}
	return components, zl, nil
}
