package tagging

import (
	"fmt"

	"github.com/bogem/id3v2"
	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/util"
)

// id3TextFrames maps tag keys to the ID3v2 text frames they are written to
var id3TextFrames = map[string]string{
	release.TagAlbumArtist:  "TPE2",
	release.TagTrackNumber:  "TRCK",
	release.TagDiscNumber:   "TPOS",
	release.TagOrganization: "TPUB",
	release.TagCopyright:    "TCOP",
}

// ID3Writer writes tags into MP3 files as ID3v2 frames
type ID3Writer struct{}

// NewID3Writer creates an ID3 tag writer
func NewID3Writer() *ID3Writer {
	return &ID3Writer{}
}

// Write updates the frames for every key in tags. Frames for keys that are
// not present are left untouched.
func (w *ID3Writer) Write(path string, tags release.TagMetadata) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open ID3 tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	for _, key := range tags.Keys() {
		value := tags.Fields[key]
		switch key {
		case release.TagTitle:
			tag.SetTitle(value)
		case release.TagArtist:
			tag.SetArtist(value)
		case release.TagAlbum:
			tag.SetAlbum(value)
		case release.TagGenre:
			tag.SetGenre(value)
		case release.TagDate:
			tag.SetYear(value)
		case release.TagComment:
			tag.DeleteFrames(tag.CommonID("Comments"))
			tag.AddCommentFrame(id3v2.CommentFrame{
				Encoding:    id3v2.EncodingUTF8,
				Language:    "eng",
				Description: "",
				Text:        value,
			})
		default:
			if frameID, ok := id3TextFrames[key]; ok {
				tag.AddTextFrame(frameID, id3v2.EncodingUTF8, value)
				continue
			}
			tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
				Encoding:    id3v2.EncodingUTF8,
				Description: key,
				Value:       value,
			})
		}
	}

	if tags.HasArtwork() {
		tag.DeleteFrames(tag.CommonID("Attached picture"))
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     tags.Artwork,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save ID3 tag: %w", err)
	}

	util.DebugLog("Wrote %d ID3 frames to: %s", tags.Len(), path)
	return nil
}
