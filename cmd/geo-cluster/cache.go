// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/geo-cluster/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or purge the NCBI response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of cached responses",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := cacheStore()
		if err != nil {
			return err
		}
		defer store.Close()

		st, err := store.Stats(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Cache:   %s\n", st.Path)
		fmt.Fprintf(os.Stdout, "Entries: %d (%d expired)\n", st.Entries, st.Expired)
		fmt.Fprintf(os.Stdout, "Size:    %d bytes\n", st.Bytes)
		return nil
	},
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired cache entries (or all with --all)",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")

		store, err := cacheStore()
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Purge(context.Background(), all)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Removed %d entries\n", n)
		return nil
	},
}

func init() {
	cachePurgeCmd.Flags().Bool("all", false, "Delete every entry, not only expired ones")

	cacheCmd.AddCommand(cacheStatsCmd, cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

func cacheStore() (*cache.Store, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	return cache.NewStore(cfg.Cache)
}
