package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/tagging"
	"github.com/franz/album-categorizer/internal/util"
	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags FILE...",
	Short: "Show the current tags of audio files",
	Long: `Read and print the tags currently stored in audio files, using the same
tag keys the export writes. The playing time is measured with ffprobe when
it is available.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTags,
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	util.SetVerbose(GetConfigBool("verbose"))
	util.SetQuiet(GetConfigBool("quiet"))

	prober := tagging.NewProber(GetConfigString("ffprobe", "ffprobe"))
	probe := prober.Available()
	out := cmd.OutOrStdout()

	failed := 0
	for _, path := range args {
		tags, err := tagging.ReadTags(path)
		if err != nil {
			util.ErrorLog("%s: %v", path, err)
			failed++
			continue
		}

		if probe {
			if seconds, err := prober.ProbeDuration(cmd.Context(), path); err == nil {
				tags.Set(release.TagLength, fmt.Sprintf("%d:%02d", seconds/60, seconds%60))
			} else {
				util.DebugLog("Could not measure %s: %v", path, err)
			}
		}

		fmt.Fprintf(out, "%s\n", path)
		for _, key := range tags.Keys() {
			fmt.Fprintf(out, "  %-12s %s\n", key, tags.Fields[key])
		}
		if tags.HasArtwork() {
			fmt.Fprintf(out, "  %-12s %s\n", "artwork", humanize.Bytes(uint64(len(tags.Artwork))))
		}
		fmt.Fprintln(out)
	}

	if failed > 0 {
		return fmt.Errorf("failed to read tags of %d file(s)", failed)
	}
	return nil
}
