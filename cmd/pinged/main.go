package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/johncpakin/pinged/config"
	"github.com/johncpakin/pinged/internal/telemetry"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "pinged",
	Short:         "Pinged.gg API : profils gamers, posts et clips",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		telemetry.InitLogger(os.Stdout, cfg.Env)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, classifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("❌ Command failed", "error", err)
		os.Exit(1)
	}
}
