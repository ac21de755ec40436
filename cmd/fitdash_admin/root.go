package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/fitdash/internal/config"
	"github.com/2beens/fitdash/internal/db"
)

type rootOptions struct {
	env        string
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "fitdash_admin",
		Short: "Fitdash maintenance commands",
		Long: `Maintenance commands for the fitdash backend.

  $ fitdash_admin migrate                 # apply pending schema migrations
  $ fitdash_admin check-tables            # report the tables the API reads from
  $ fitdash_admin hash-password <secret>  # bcrypt hash for ADMIN_PASSWORD_HASH`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")

	rootCmd.AddCommand(
		newMigrateCmd(opts),
		newCheckTablesCmd(opts),
		newHashPasswordCmd(),
	)

	return rootCmd
}

// loadConfig is the PreRunE of every command that talks to the database.
func (o *rootOptions) loadConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.env, o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log.SetLevel(log.InfoLevel)
	o.cfg = cfg
	return nil
}

func (o *rootOptions) dbParams() db.NewDBPoolParams {
	return db.NewDBPoolParams{
		DBHost:     o.cfg.PostgresHost,
		DBPort:     o.cfg.PostgresPort,
		DBName:     o.cfg.PostgresDBName,
		DBUser:     o.cfg.PostgresUser,
		DBPassword: o.cfg.PostgresPassword,
		DBSSLMode:  o.cfg.PostgresSSLMode,
		DBTimeZone: o.cfg.PostgresTimeZone,
	}
}
