package meta

import "github.com/franz/album-categorizer/internal/release"

// BuildFolderName derives the export folder name parts of a release
func BuildFolderName(rel *release.ReleaseMetadata) release.FolderNameParts {
	descriptions := rel.FormatDescriptions()
	label := rel.FirstLabel()
	artist := CleanString(rel.ArtistName())
	normalizedLabel := NormalizeLabel(CleanString(label.Name))

	return release.FolderNameParts{
		Label:         normalizedLabel,
		CatalogNumber: NormalizeCatalog(CleanString(label.CatalogNumber), normalizedLabel),
		Artist:        NormalizeArtist(artist, descriptions),
		Title:         NormalizeTitle(CleanString(rel.Title), descriptions, NormalizeArtistLong(artist)),
	}
}
