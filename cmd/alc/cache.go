package main

import (
	"fmt"
	"time"

	"github.com/franz/album-categorizer/internal/discogs"
	"github.com/franz/album-categorizer/internal/util"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the persistent artist cache",
	Long: `Inspect and maintain the SQLite artist cache configured with --cache-db.

Subcommands:
  stats   show entry and hit counts
  clear   remove every cached artist
  prune   remove entries older than --older-than`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show artist cache statistics",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached artist",
	RunE:  runCacheClear,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached artists older than a given age",
	RunE:  runCachePrune,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd, cachePruneCmd)

	cachePruneCmd.Flags().Duration("older-than", 90*24*time.Hour, "maximum age of kept entries")
}

func openConfiguredCache() (*discogs.SQLCache, error) {
	util.SetVerbose(GetConfigBool("verbose"))
	util.SetQuiet(GetConfigBool("quiet"))

	path := GetConfigString("cache-db", "")
	if path == "" {
		return nil, fmt.Errorf("%w: no cache database configured (use --cache-db)", util.ErrInvalidConfig)
	}
	cache, err := discogs.OpenCache(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	return cache, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cache, err := openConfiguredCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	entries, hits, err := cache.GetStats()
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cache: %s\nEntries: %d\nHits: %d\n", GetConfigString("cache-db", ""), entries, hits)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, err := openConfiguredCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	util.SuccessLog("Artist cache cleared")
	return nil
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")

	cache, err := openConfiguredCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	removed, err := cache.ClearOldEntries(olderThan)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	util.SuccessLog("Removed %d entries older than %v", removed, olderThan)
	return nil
}
