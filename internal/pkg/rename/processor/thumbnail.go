package processor

import (
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

const thumbSide = 320

// normalizeThumbnail rewrites the image at path as a 320x320 JPEG.
func normalizeThumbnail(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	src, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return err
	}

	dst := image.NewRGBA(image.Rect(0, 0, thumbSide, thumbSide))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: 90}); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// resolveThumbnail downloads and normalizes the thumbnail for a task:
// the user-configured one wins over the embedded video thumbnail.
// Returns an empty path when there is none or processing failed;
// thumbnail errors never fail the task.
func (p *Processor) resolveThumbnail(userThumbID, embeddedThumbID, tmpPath string) string {
	fileID := userThumbID
	if fileID == "" {
		fileID = embeddedThumbID
	}
	if fileID == "" {
		return ""
	}

	path, err := p.gateway.Download(fileID, tmpPath, nil)
	if err != nil {
		log.Warn().Err(err).Msg("thumbnail download failed")
		return ""
	}
	if err := normalizeThumbnail(path); err != nil {
		log.Warn().Err(err).Msg("thumbnail processing failed")
		cleanupFiles(path)
		return ""
	}
	return path
}
