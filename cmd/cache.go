package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage cached artifacts",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the cache currently holds",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		info, err := store.Info(cmd.Context())
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return eris.Wrap(err, "encode cache info")
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached dataset artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(cmd.Context()); err != nil {
			return err
		}
		zap.L().Info("cache cleared", zap.String("path", cfg.Cache.Path))
		return nil
	},
}

var cacheClearTranslationsCmd = &cobra.Command{
	Use:   "clear-translations",
	Short: "Delete the persisted translation cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.ClearTranslations(cmd.Context()); err != nil {
			return err
		}
		zap.L().Info("translation cache cleared", zap.String("path", cfg.Cache.Path))
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheClearTranslationsCmd)
	rootCmd.AddCommand(cacheCmd)
}
