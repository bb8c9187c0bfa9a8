package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/franz/album-categorizer/internal/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "alc",
		Short: "Album Categorizer - name, tag and file releases from the Discogs catalog",
		Long: `alc (Album Categorizer) fetches a release from the Discogs catalog and
derives a canonical folder name, an info sheet, an M3U playlist and per-track
tags from it. Paired audio files are copied into the release folder under
their display names and tagged in place.`,
		Version: Version,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/alc.yaml)")
	rootCmd.PersistentFlags().String("token", "", "Discogs personal access token (or DISCOGS_TOKEN)")
	rootCmd.PersistentFlags().String("export-dir", "export", "directory release folders are created in")
	rootCmd.PersistentFlags().String("cache-db", "", "persistent artist cache database (empty = session only)")
	rootCmd.PersistentFlags().Int("artwork-max-size", 1000, "maximum edge length of embedded artwork in pixels")
	rootCmd.PersistentFlags().String("event-log-dir", "artifacts", "directory for JSONL event logs and reports")
	rootCmd.PersistentFlags().String("ffmpeg", "ffmpeg", "ffmpeg binary used to tag non-MP3 files")
	rootCmd.PersistentFlags().String("ffprobe", "ffprobe", "ffprobe binary used to measure track lengths")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client id for streaming search")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret for streaming search")
	rootCmd.PersistentFlags().String("spotify-market", "HU", "Spotify market for streaming search")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output (errors only)")

	// Bind flags to viper
	for _, key := range []string{
		"token", "export-dir", "cache-db", "artwork-max-size", "event-log-dir",
		"ffmpeg", "ffprobe", "spotify-client-id", "spotify-client-secret",
		"spotify-market", "verbose", "quiet",
	} {
		viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
	viper.BindEnv("token", "ALC_TOKEN", "DISCOGS_TOKEN")
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in common locations
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
		viper.SetConfigName("alc")
		viper.SetConfigType("yaml")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("ALC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && !viper.GetBool("quiet") {
		util.InfoLog("Using config file: %s", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
