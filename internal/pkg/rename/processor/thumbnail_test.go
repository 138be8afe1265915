package processor

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizeThumbnail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 640, 360))); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	f.Close()

	if err := normalizeThumbnail(path); err != nil {
		t.Fatalf("normalize: %v", err)
	}

	out, err := os.Open(path)
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	defer out.Close()
	img, err := jpeg.Decode(out)
	if err != nil {
		t.Fatalf("result is not a JPEG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 320 || bounds.Dy() != 320 {
		t.Fatalf("expected 320x320, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestNormalizeThumbnailRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumb.jpg")
	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := normalizeThumbnail(path); err == nil {
		t.Fatal("expected decode error")
	}
}
