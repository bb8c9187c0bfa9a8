package main

import (
	"fmt"

	"github.com/franz/album-categorizer/internal/meta"
	"github.com/franz/album-categorizer/internal/util"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch URL",
	Short: "Fetch a release and preview its folder name, info sheet and tracklist",
	Long: `Fetch a release from the Discogs catalog and print what an export would
produce: the canonical folder name, the info sheet and the normalized
tracklist with display names. Nothing is written to disk.

Example:
  alc fetch https://www.discogs.com/release/5887661`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().Bool("tags", false, "also print the tags each track would receive")
}

func runFetch(cmd *cobra.Command, args []string) error {
	util.SetVerbose(GetConfigBool("verbose"))
	util.SetQuiet(GetConfigBool("quiet"))

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.Close()

	lr, err := s.load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Folder: %s\n\n", lr.folder)
	fmt.Fprintln(out, meta.RenderInfoSheet(lr.sheet.Fields, lr.tracks))

	fmt.Fprintln(out, "Tracks:")
	for _, t := range lr.tracks {
		fmt.Fprintf(out, "  %s\n", meta.SanitizeFilename(meta.TrackDisplayName(t)))
	}

	showTags, _ := cmd.Flags().GetBool("tags")
	if showTags {
		for _, t := range lr.tracks {
			tags := meta.BuildTagMetadata(t, lr.sheet.Fields, lr.sheet.CreditLine, nil)
			fmt.Fprintf(out, "\n[%s]\n", t.Position)
			for _, key := range tags.Keys() {
				fmt.Fprintf(out, "  %-12s %s\n", key, tags.Fields[key])
			}
		}
	}

	return nil
}
