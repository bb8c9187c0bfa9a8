package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/franz/album-categorizer/internal/meta"
	"github.com/franz/album-categorizer/internal/release"
	"github.com/franz/album-categorizer/internal/util"
)

type fakeTagger struct {
	mu      sync.Mutex
	written map[string]release.TagMetadata
	fail    bool
}

func (f *fakeTagger) Write(path string, tags release.TagMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("tag write failed")
	}
	if f.written == nil {
		f.written = make(map[string]release.TagMetadata)
	}
	f.written[filepath.Base(path)] = tags
	return nil
}

type fakeImages struct {
	mu    sync.Mutex
	data  map[string][]byte
	calls int
}

func (f *fakeImages) DownloadImage(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if d, ok := f.data[url]; ok {
		return d, nil
	}
	return nil, util.ErrNotFound
}

type fakeProbe map[string]int

func (f fakeProbe) ProbeDuration(ctx context.Context, path string) (int, error) {
	if s, ok := f[filepath.Base(path)]; ok {
		return s, nil
	}
	return 0, util.ErrNotFound
}

func createTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 64))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// testAlbum builds a two-track release where only the first track has a file
func testAlbum(t *testing.T, srcDir string) *Album {
	t.Helper()

	rel := &release.ReleaseMetadata{
		ID:       5887661,
		Title:    "Stormbringer: Remixes",
		Artists:  []release.Artist{{Name: "Adam Beyer"}},
		Labels:   []release.Label{{Name: "Drumcode", CatalogNumber: "DRUMCODE 123"}},
		Formats:  []release.Format{{Quantity: "1", Name: "File", Descriptions: []string{"EP"}}},
		Released: "2014-03-03",
		Styles:   []string{"Techno"},
		Tracklist: []release.RawTrack{
			{Position: "1", Title: "Stormbringer (Joel Mull Remix)"},
			{Position: "2", Title: "Stormbringer", Duration: "7:02"},
		},
		Images: []release.Image{
			{Type: "primary", URI: "https://img/1.png"},
			{Type: "secondary", URI: "https://img/2.png"},
			{Type: "secondary", URI: "https://img/3.png"},
		},
	}

	ctx := context.Background()
	tracks := meta.NormalizeTracklist(ctx, rel.Tracklist, "Adam Beyer", nil)

	src := filepath.Join(srcDir, "01 stormbringer joel mull.mp3")
	createTestFile(t, src, []byte("audio data one"))

	pairs, err := PairFiles(tracks, []string{src}, nil)
	if err != nil {
		t.Fatalf("PairFiles failed: %v", err)
	}

	return &Album{
		Release:   rel,
		Folder:    meta.BuildFolderName(rel),
		Sheet:     meta.BuildInfoSheet(ctx, rel, "", nil),
		Tracks:    tracks,
		Pairs:     pairs,
		Overrides: map[string]string{release.TagGenre: "Techno (Peak Time)"},
	}
}

func TestCopyFile(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "source.txt")
	destPath := filepath.Join(tmpDir, "file.txt")
	content := []byte("test content")
	createTestFile(t, srcPath, content)

	exporter := New(&Config{ExportDir: tmpDir})

	bytesWritten, err := exporter.copyFile(context.Background(), srcPath, destPath)
	if err != nil {
		t.Fatalf("copyFile failed: %v", err)
	}
	if bytesWritten != int64(len(content)) {
		t.Errorf("Expected %d bytes written, got %d", len(content), bytesWritten)
	}

	destContent, err := os.ReadFile(destPath)
	if err != nil {
		t.Fatalf("Failed to read destination file: %v", err)
	}
	if string(destContent) != string(content) {
		t.Errorf("Content mismatch: expected %q, got %q", content, destContent)
	}

	if _, err := os.Stat(destPath + ".part"); !os.IsNotExist(err) {
		t.Errorf(".part file was not cleaned up")
	}
}

func TestCopyWithContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var dst bytes.Buffer
	_, err := copyWithContext(ctx, &dst, strings.NewReader("data"), 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("copyWithContext error = %v, expected context.Canceled", err)
	}
}

func TestImageFileNames(t *testing.T) {
	images := []release.Image{{Type: "primary"}, {Type: "secondary"}, {Type: "secondary"}, {Type: ""}}
	got := ImageFileNames("Folder", images)
	expected := []string{
		"Folder (primary)",
		"Folder (secondary)",
		"Folder (secondary 2)",
		"Folder (image)",
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("ImageFileNames()[%d] = %q, expected %q", i, got[i], expected[i])
		}
	}
}

func TestExport(t *testing.T) {
	tmpDir := t.TempDir()
	exportDir := filepath.Join(tmpDir, "export")
	album := testAlbum(t, filepath.Join(tmpDir, "src"))

	tagger := &fakeTagger{}
	images := &fakeImages{data: map[string][]byte{
		"https://img/1.png": pngBytes(t),
		"https://img/2.png": pngBytes(t),
	}}

	exporter := New(&Config{
		ExportDir:    exportDir,
		SaveImages:   true,
		ArtworkIndex: 0,
		Tagger:       tagger,
		Images:       images,
		Prober:       fakeProbe{"01 stormbringer joel mull.mp3": 405},
	})

	result, err := exporter.Export(context.Background(), album)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	folder := "Drumcode 123 - Adam Beyer - Stormbringer - Remixes EP"
	if result.Folder != folder {
		t.Errorf("Folder = %q, expected %q", result.Folder, folder)
	}
	dir := filepath.Join(exportDir, folder)

	trackFile := "01. Adam Beyer - Stormbringer (Joel Mull Remix).mp3"
	content, err := os.ReadFile(filepath.Join(dir, trackFile))
	if err != nil {
		t.Fatalf("Track file not exported: %v", err)
	}
	if string(content) != "audio data one" {
		t.Errorf("Track content = %q", content)
	}

	if _, err := os.Stat(filepath.Join(dir, folder+".txt")); err != nil {
		t.Errorf("Info sheet missing: %v", err)
	}

	playlist, err := os.ReadFile(filepath.Join(dir, folder+".m3u"))
	if err != nil {
		t.Fatalf("Playlist missing: %v", err)
	}
	for _, want := range []string{
		"#EXTINF:405, 01. Adam Beyer - Stormbringer (Joel Mull Remix)\n01. Adam Beyer - Stormbringer (Joel Mull Remix).mp3\n",
		"#EXTINF:422, 02. Adam Beyer - Stormbringer\n02. Adam Beyer - Stormbringer.mp3\n",
	} {
		if !strings.Contains(string(playlist), want) {
			t.Errorf("Playlist missing %q:\n%s", want, playlist)
		}
	}

	tags, ok := tagger.written[trackFile]
	if !ok {
		t.Fatalf("Track was not tagged, got %v", tagger.written)
	}
	if v, _ := tags.Get(release.TagGenre); v != "Techno (Peak Time)" {
		t.Errorf("genre = %q, expected override", v)
	}
	if v, _ := tags.Get(release.TagOrganization); v != "Drumcode" {
		t.Errorf("organization = %q", v)
	}
	if !tags.HasArtwork() {
		t.Error("Expected artwork to be embedded")
	}

	if result.ImagesSaved != 2 {
		t.Errorf("ImagesSaved = %d, expected 2", result.ImagesSaved)
	}
	if _, err := os.Stat(filepath.Join(dir, folder+" (secondary).png")); err != nil {
		t.Errorf("Secondary image missing or misnamed: %v", err)
	}
	// third image fails to download and is reported
	if len(result.Errors) != 1 {
		t.Errorf("Errors = %v, expected one image failure", result.Errors)
	}

	if result.FilesCopied != 1 || result.FilesTagged != 1 {
		t.Errorf("FilesCopied = %d, FilesTagged = %d, expected 1, 1", result.FilesCopied, result.FilesTagged)
	}
	if len(result.Unpaired) != 1 || result.Unpaired[0] != "02. Adam Beyer - Stormbringer" {
		t.Errorf("Unpaired = %v", result.Unpaired)
	}
}

func TestExportConflict(t *testing.T) {
	tmpDir := t.TempDir()
	exportDir := filepath.Join(tmpDir, "export")
	album := testAlbum(t, filepath.Join(tmpDir, "src"))

	exporter := New(&Config{ExportDir: exportDir, ArtworkIndex: -1})
	first, err := exporter.Export(context.Background(), album)
	if err != nil {
		t.Fatalf("first Export failed: %v", err)
	}

	sheetPath := filepath.Join(first.Path, first.Folder+".txt")
	playlistPath := filepath.Join(first.Path, first.Folder+".m3u")
	for _, path := range []string{sheetPath, playlistPath} {
		if err := os.WriteFile(path, []byte("edited"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	result, err := exporter.Export(context.Background(), album)
	if err != nil {
		t.Fatalf("second Export failed: %v", err)
	}
	// info sheet, track and playlist
	if len(result.Conflicts) != 3 || result.FilesCopied != 0 {
		t.Errorf("Expected three conflicts and no copies, got %+v", result)
	}
	for _, err := range result.Errors {
		if !errors.Is(err, util.ErrConflict) {
			t.Errorf("Error = %v, expected ErrConflict", err)
		}
	}
	for _, path := range []string{sheetPath, playlistPath} {
		if content, _ := os.ReadFile(path); string(content) != "edited" {
			t.Errorf("%s was replaced without overwrite", filepath.Base(path))
		}
	}

	overwriting := New(&Config{ExportDir: exportDir, ArtworkIndex: -1, Overwrite: true})
	result, err = overwriting.Export(context.Background(), album)
	if err != nil {
		t.Fatalf("overwrite Export failed: %v", err)
	}
	if result.FilesCopied != 1 || len(result.Conflicts) != 0 {
		t.Errorf("FilesCopied = %d, Conflicts = %d with overwrite, expected 1, 0", result.FilesCopied, len(result.Conflicts))
	}
	if content, _ := os.ReadFile(sheetPath); string(content) == "edited" {
		t.Error("Info sheet was not rewritten with overwrite")
	}
}

func TestExportTagFailureIsNotFatal(t *testing.T) {
	tmpDir := t.TempDir()
	album := testAlbum(t, filepath.Join(tmpDir, "src"))

	exporter := New(&Config{
		ExportDir:    filepath.Join(tmpDir, "export"),
		ArtworkIndex: -1,
		Tagger:       &fakeTagger{fail: true},
	})

	result, err := exporter.Export(context.Background(), album)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if result.FilesCopied != 1 || result.FilesTagged != 0 || len(result.Errors) != 1 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestDryRun(t *testing.T) {
	tmpDir := t.TempDir()
	exportDir := filepath.Join(tmpDir, "export")
	album := testAlbum(t, filepath.Join(tmpDir, "src"))
	images := &fakeImages{}
	tagger := &fakeTagger{}

	exporter := New(&Config{
		ExportDir:  exportDir,
		DryRun:     true,
		SaveImages: true,
		Tagger:     tagger,
		Images:     images,
	})

	result, err := exporter.Export(context.Background(), album)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	if _, err := os.Stat(exportDir); !os.IsNotExist(err) {
		t.Error("Dry run should not create the export directory")
	}
	if images.calls != 0 || len(tagger.written) != 0 {
		t.Error("Dry run should not download images or write tags")
	}
	if result.FilesCopied != 0 || result.BytesWritten != 0 {
		t.Errorf("Dry run result = %+v", result)
	}
}
