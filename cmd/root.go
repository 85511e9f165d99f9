package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "esg-screen",
	Short: "Corporate ESG risk screening engine",
	Long:  "Screens companies against investor exclusion lists and World Bank sanctions, scoring exclusion consensus into risk tiers with engagement recommendations.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
