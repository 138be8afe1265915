package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"file_rename_bot/internal/pkg/profile"
	"file_rename_bot/internal/pkg/rename/domain"
)

type fakeGateway struct {
	edits     []string
	deleted   []domain.MessageRef
	uploads   []domain.UploadParams
	downloads []string

	fileData    map[string][]byte // by file id
	downloadErr error
	uploadErr   error
}

func (g *fakeGateway) Send(chatID int64, text string) (domain.MessageRef, error) {
	return domain.MessageRef{ChatID: chatID, MessageID: 1}, nil
}

func (g *fakeGateway) Edit(ref domain.MessageRef, text string) error {
	g.edits = append(g.edits, text)
	return nil
}

func (g *fakeGateway) Delete(ref domain.MessageRef) error {
	g.deleted = append(g.deleted, ref)
	return nil
}

func (g *fakeGateway) Download(fileID, destPath string, progress domain.ProgressFunc) (string, error) {
	if g.downloadErr != nil {
		return "", g.downloadErr
	}
	g.downloads = append(g.downloads, fileID)
	data, ok := g.fileData[fileID]
	if !ok {
		data = []byte("file-bytes")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(destPath, data, 0o644); err != nil {
		return "", err
	}
	if progress != nil {
		progress(int64(len(data)), int64(len(data)))
	}
	return destPath, nil
}

func (g *fakeGateway) Upload(params domain.UploadParams) error {
	if g.uploadErr != nil {
		return g.uploadErr
	}
	g.uploads = append(g.uploads, params)
	return nil
}

func newTestProcessor(t *testing.T, gateway *fakeGateway, store Store) *Processor {
	t.Helper()
	base := t.TempDir()
	p := New(gateway, store, filepath.Join(base, "downloads"), filepath.Join(base, "metadata"))
	// No external tools in tests: metadata degrades to a plain copy.
	p.lookPath = func(string) string { return "" }
	p.sleep = func(time.Duration) {}
	return p
}

func docTask() *domain.RenameTask {
	return &domain.RenameTask{
		ID:             "t1",
		UserID:         7,
		Source:         domain.MessageRef{ChatID: 100, MessageID: 5},
		FileID:         "file-1",
		TargetBaseName: "Movie",
		Media: domain.MediaDescriptor{
			Kind:     profile.MediaDocument,
			FileName: "original.mkv",
			FileSize: 1048576,
		},
	}
}

func TestProcessSuccessDefaultCaption(t *testing.T) {
	gateway := &fakeGateway{}
	store := profile.NewMemoryStore()
	p := newTestProcessor(t, gateway, store)

	ok, msg := p.Process(context.Background(), docTask(), domain.MessageRef{ChatID: 100, MessageID: 9})
	if !ok {
		t.Fatalf("expected success, got %q", msg)
	}
	if len(gateway.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(gateway.uploads))
	}
	up := gateway.uploads[0]
	if up.Kind != profile.MediaDocument {
		t.Fatalf("expected document upload, got %s", up.Kind)
	}
	if up.Caption != "**Movie.mkv**" {
		t.Fatalf("expected default bolded caption, got %q", up.Caption)
	}
	if len(gateway.deleted) != 1 {
		t.Fatal("progress message should be deleted on success")
	}
}

func TestProcessCleansUpTransientFiles(t *testing.T) {
	gateway := &fakeGateway{}
	store := profile.NewMemoryStore()
	p := newTestProcessor(t, gateway, store)

	if ok, msg := p.Process(context.Background(), docTask(), domain.MessageRef{}); !ok {
		t.Fatalf("expected success, got %q", msg)
	}

	for _, path := range []string{
		filepath.Join(p.downloadDir, "Movie.mkv"),
		filepath.Join(p.metadataDir, "Movie.mkv"),
	} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed by cleanup", path)
		}
	}
}

func TestProcessCaptionTemplate(t *testing.T) {
	gateway := &fakeGateway{}
	store := profile.NewMemoryStore()
	if err := store.SetCaption(7, "{filename} - {filesize}"); err != nil {
		t.Fatalf("set caption: %v", err)
	}
	p := newTestProcessor(t, gateway, store)

	if ok, msg := p.Process(context.Background(), docTask(), domain.MessageRef{}); !ok {
		t.Fatalf("expected success, got %q", msg)
	}
	if got := gateway.uploads[0].Caption; got != "Movie.mkv - 1.0 MB" {
		t.Fatalf("caption = %q, want %q", got, "Movie.mkv - 1.0 MB")
	}
}

func TestProcessMediaPreference(t *testing.T) {
	gateway := &fakeGateway{}
	store := profile.NewMemoryStore()
	if err := store.SetMediaPreference(7, "video"); err != nil {
		t.Fatalf("set preference: %v", err)
	}
	p := newTestProcessor(t, gateway, store)

	if ok, msg := p.Process(context.Background(), docTask(), domain.MessageRef{}); !ok {
		t.Fatalf("expected success, got %q", msg)
	}
	if gateway.uploads[0].Kind != profile.MediaVideo {
		t.Fatalf("expected preference to win, got %s", gateway.uploads[0].Kind)
	}
}

func TestProcessInvalidPreferenceFallsBack(t *testing.T) {
	gateway := &fakeGateway{}
	store := profile.NewMemoryStore()
	if err := store.SetMediaPreference(7, "sticker"); err != nil {
		t.Fatalf("set preference: %v", err)
	}
	p := newTestProcessor(t, gateway, store)

	if ok, msg := p.Process(context.Background(), docTask(), domain.MessageRef{}); !ok {
		t.Fatalf("expected success, got %q", msg)
	}
	if gateway.uploads[0].Kind != profile.MediaDocument {
		t.Fatalf("expected fallback to original type, got %s", gateway.uploads[0].Kind)
	}
}

func TestProcessDownloadFailure(t *testing.T) {
	gateway := &fakeGateway{downloadErr: errors.New("network gone")}
	p := newTestProcessor(t, gateway, profile.NewMemoryStore())

	ok, msg := p.Process(context.Background(), docTask(), domain.MessageRef{})
	if ok {
		t.Fatal("expected failure")
	}
	if msg == "" || len(gateway.uploads) != 0 {
		t.Fatalf("expected failure message and no upload, msg=%q uploads=%d", msg, len(gateway.uploads))
	}
}

func TestProcessFloodWait(t *testing.T) {
	gateway := &fakeGateway{uploadErr: &domain.FloodWaitError{Seconds: 30}}
	p := newTestProcessor(t, gateway, profile.NewMemoryStore())

	var slept time.Duration
	p.sleep = func(d time.Duration) { slept = d }

	ok, msg := p.Process(context.Background(), docTask(), domain.MessageRef{})
	if ok {
		t.Fatal("flood wait must report failure, not auto-retry")
	}
	if slept != 30*time.Second {
		t.Fatalf("expected sleep of 30s, got %v", slept)
	}
	if msg != "Flood limit hit, please retry." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestProcessUserThumbnailWins(t *testing.T) {
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 64, 48))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	gateway := &fakeGateway{fileData: map[string][]byte{"user-thumb": img.Bytes()}}
	store := profile.NewMemoryStore()
	if err := store.SetThumbnail(7, "user-thumb"); err != nil {
		t.Fatalf("set thumbnail: %v", err)
	}
	p := newTestProcessor(t, gateway, store)

	task := docTask()
	task.Media.ThumbFileID = "embedded-thumb"

	if ok, msg := p.Process(context.Background(), task, domain.MessageRef{}); !ok {
		t.Fatalf("expected success, got %q", msg)
	}
	for _, id := range gateway.downloads {
		if id == "embedded-thumb" {
			t.Fatal("embedded thumb downloaded although user thumb is set")
		}
	}
	if gateway.uploads[0].ThumbPath == "" {
		t.Fatal("expected a thumbnail on the upload")
	}
}

func TestProcessBrokenThumbnailIsDiscarded(t *testing.T) {
	gateway := &fakeGateway{fileData: map[string][]byte{"user-thumb": []byte("not an image")}}
	store := profile.NewMemoryStore()
	if err := store.SetThumbnail(7, "user-thumb"); err != nil {
		t.Fatalf("set thumbnail: %v", err)
	}
	p := newTestProcessor(t, gateway, store)

	ok, msg := p.Process(context.Background(), docTask(), domain.MessageRef{})
	if !ok {
		t.Fatalf("thumbnail failure must not fail the task: %q", msg)
	}
	if gateway.uploads[0].ThumbPath != "" {
		t.Fatal("broken thumbnail should be discarded")
	}
}

func TestDeriveExtension(t *testing.T) {
	cases := []struct {
		media domain.MediaDescriptor
		want  string
	}{
		{domain.MediaDescriptor{Kind: profile.MediaDocument, FileName: "a.pdf"}, ".pdf"},
		{domain.MediaDescriptor{Kind: profile.MediaVideo}, ".mp4"},
		{domain.MediaDescriptor{Kind: profile.MediaAudio}, ".mp3"},
		{domain.MediaDescriptor{Kind: profile.MediaDocument}, ".bin"},
	}
	for _, tc := range cases {
		if got := deriveExtension(tc.media); got != tc.want {
			t.Fatalf("deriveExtension(%+v) = %q, want %q", tc.media, got, tc.want)
		}
	}
}

func TestCleanupIdempotent(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.bin")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	missing := filepath.Join(dir, "gone.bin")

	cleanupFiles(existing, missing, "")
	if _, err := os.Stat(existing); !os.IsNotExist(err) {
		t.Fatal("existing file should be removed")
	}
	// Second pass over already-removed paths must not panic or error.
	cleanupFiles(existing, missing, "")
}
