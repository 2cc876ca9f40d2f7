// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/logger"
)

var (
	configPath string // directory holding main.toml, with trailing slash
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "folio",
		Short: "folio serves a portfolio site with an embedded content editor",
		Long: `folio serves a single page portfolio site.
Its sections are schema-less JSON documents edited in place from the admin dashboard.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config directory (default ./etc/)")
}

// loadConfig reads the configuration and initialises the global logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute() //nolint:wrapcheck
}
