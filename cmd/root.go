package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/horizon/app"
	"github.com/kilianp07/horizon/config"
	"github.com/kilianp07/horizon/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "horizon",
	Short:         "Exhaustive schedule search over a multi-asset system",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}
