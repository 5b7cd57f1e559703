package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/spiritual/internal/config"
	"github.com/aretw0/spiritual/internal/logging"
	"github.com/spf13/cobra"
)

// cli carries the resolved configuration and logger to subcommands.
type cli struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "spiritual",
		Short: "Spiritual manages typed game data",
		Long: `Spiritual validates, stores and inspects game data: player profiles,
ability/piece/mob/recipe catalogs and tilemaps, all checked against typed records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default ./"+config.DefaultFile+" if present)")
	flags.String("data-dir", "", "Data directory")
	flags.String("profile-dir", "", "Profile directory (default <data-dir>/profiles)")
	flags.String("catalog-dir", "", "Catalog directory")
	flags.String("store", "", "Profile store: file, redis or memory")
	flags.String("catalog", "", "Catalog backend: file or loam")
	flags.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newValidateCmd(c),
		newRecordsCmd(c),
		newProfileCmd(c),
		newCatalogCmd(c),
		newTilemapCmd(c),
		newServeCmd(c),
		newVersionCmd(),
	)
	return rootCmd
}

// init resolves configuration: file and env first, then flags.
func (c *cli) init(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	overrides := map[string]*string{
		"data-dir":    &cfg.DataDir,
		"profile-dir": &cfg.ProfileDir,
		"catalog-dir": &cfg.CatalogDir,
		"store":       &cfg.Store,
		"catalog":     &cfg.Catalog,
		"log-level":   &cfg.LogLevel,
	}
	for name, target := range overrides {
		if cmd.Flags().Changed(name) {
			*target, _ = cmd.Flags().GetString(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logging.NewWriter(cmd.ErrOrStderr(), level)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
