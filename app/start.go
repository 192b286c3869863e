package app

import (
	"github.com/spf13/cobra"

	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/daemon"
	"github.com/GoMediaVault/GoMediaVault/internal/logger"
)

func init() { //nolint: gochecknoinits
	startCmd.Flags().StringVarP(&configPath, "config", "c", "./etc/", "Path to the configuration directory")

	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var (
	configPath string // Path to the configuration file

	cfg     config.Config
	err     error
	devMode bool

	startCmd = &cobra.Command{
		Use:   "start",
		Short: "Start the GoMediaVault web service",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}

			if err = logger.Init(cfg.Log); err != nil {
				panic(err)
			}

			if devMode {
				cfg.DevMode = true
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			daemon := daemon.New(&cfg)
			if err := daemon.Start(); err != nil {
				return err
			}

			return nil
		},
	}
)
