package main

import (
	"errors"
	"fmt"

	"github.com/franz/album-categorizer/internal/discogs"
	"github.com/franz/album-categorizer/internal/streaming"
	"github.com/franz/album-categorizer/internal/util"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [URL]",
	Short: "Search Spotify for a release",
	Long: `Search the Spotify catalog for albums matching a release.

The artist and title are taken from the release at URL, or given directly
with --artist and --title. Requires spotify-client-id and
spotify-client-secret (flags, config or ALC_SPOTIFY_CLIENT_ID /
ALC_SPOTIFY_CLIENT_SECRET).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().String("artist", "", "artist to search for (instead of a release URL)")
	searchCmd.Flags().String("title", "", "album title to search for (instead of a release URL)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	util.SetVerbose(GetConfigBool("verbose"))
	util.SetQuiet(GetConfigBool("quiet"))

	artist, _ := cmd.Flags().GetString("artist")
	title, _ := cmd.Flags().GetString("title")

	if len(args) == 1 {
		client := discogs.NewClient(&discogs.Config{Token: GetConfigString("token", "")})
		rel, err := client.FetchRelease(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch release: %w", err)
		}
		artist, title = rel.ArtistName(), rel.Title
	}
	if artist == "" || title == "" {
		return fmt.Errorf("%w: give a release URL or both --artist and --title", util.ErrInvalidConfig)
	}

	spotify, err := streaming.NewSpotify(&streaming.SpotifyConfig{
		ClientID:     GetConfigString("spotify-client-id", ""),
		ClientSecret: GetConfigString("spotify-client-secret", ""),
		Market:       GetConfigString("spotify-market", streaming.DefaultMarket),
	})
	if err != nil {
		return err
	}

	util.InfoLog("Searching Spotify: %s", streaming.SearchQuery(artist, title))
	albums, err := spotify.SearchAlbum(ctx, artist, title)
	if errors.Is(err, util.ErrNotFound) {
		util.WarnLog("No albums found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("spotify search failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for i, a := range albums {
		fmt.Fprintf(out, "%d. %s - %s\n", i+1, a.ArtistNames(), a.Name)
		fmt.Fprintf(out, "   Released: %s  Tracks: %d", a.ReleaseDate, a.TotalTracks)
		if a.Label != "" {
			fmt.Fprintf(out, "  Label: %s", a.Label)
		}
		fmt.Fprintf(out, "\n   %s\n", a.URL())
	}
	return nil
}
