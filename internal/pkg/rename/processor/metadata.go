package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/profile"
)

// rewriteMetadata stamps the user's metadata strings into a stream copy
// of the input file and returns the path to upload. A missing ffmpeg
// degrades to a byte-identical copy; an ffmpeg failure degrades to the
// original download. Only a failed copy is fatal.
func (p *Processor) rewriteMetadata(ctx context.Context, inPath, outPath string, s profile.Settings) (string, error) {
	ffmpeg := p.lookPath("ffmpeg")
	if ffmpeg == "" {
		log.Warn().Msg("ffmpeg not found in PATH, copying file without metadata")
		if err := copyFile(inPath, outPath); err != nil {
			return "", fmt.Errorf("copy without metadata: %w", err)
		}
		return outPath, nil
	}

	args := []string{
		"-i", inPath,
		"-metadata", "title=" + s.Title,
		"-metadata", "artist=" + s.Artist,
		"-metadata", "author=" + s.Author,
		"-metadata:s:v", "title=" + s.VideoTitle,
		"-metadata:s:a", "title=" + s.AudioTitle,
		"-metadata:s:s", "title=" + s.Subtitle,
		"-map", "0",
		"-c", "copy",
		"-loglevel", "error",
		outPath,
	}
	if out, err := p.runCommand(ctx, ffmpeg, args...); err != nil {
		log.Warn().Err(err).Str("output", strings.TrimSpace(string(out))).
			Msg("ffmpeg metadata rewrite failed, uploading original file")
		return inPath, nil
	}
	return outPath, nil
}

// probeDurationSeconds reads the container duration via ffprobe.
// Any failure yields 0, which captions render as 00:00:00.
func (p *Processor) probeDurationSeconds(ctx context.Context, path string) int {
	ffprobe := p.lookPath("ffprobe")
	if ffprobe == "" {
		return 0
	}
	out, err := p.runCommand(ctx, ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("ffprobe duration failed")
		return 0
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0
	}
	return int(seconds)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
