package processor

import (
	"context"
	"fmt"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/profile"
	"file_rename_bot/internal/pkg/rename/domain"
)

const progressInterval = 4 * time.Second

// Processor drives one rename task through download, metadata rewrite,
// thumbnail preparation, upload and cleanup. Every stage error is
// converted into the (success, message) result; nothing escapes.
type Processor struct {
	gateway     Gateway
	store       Store
	downloadDir string
	metadataDir string

	// Injection points for tests.
	lookPath   func(name string) string
	runCommand func(ctx context.Context, name string, args ...string) ([]byte, error)
	sleep      func(d time.Duration)
}

func New(gateway Gateway, store Store, downloadDir, metadataDir string) *Processor {
	return &Processor{
		gateway:     gateway,
		store:       store,
		downloadDir: downloadDir,
		metadataDir: metadataDir,
		lookPath: func(name string) string {
			path, err := exec.LookPath(name)
			if err != nil {
				return ""
			}
			return path
		},
		runCommand: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
		sleep: time.Sleep,
	}
}

// Process runs the full pipeline for one task. statusMsg is the
// transient progress message owned by the worker; on success it is
// deleted, on failure the worker edits it with the returned message.
func (p *Processor) Process(ctx context.Context, task *domain.RenameTask, statusMsg domain.MessageRef) (success bool, message string) {
	finalName := task.TargetBaseName + deriveExtension(task.Media)

	downloadPath := filepath.Join(p.downloadDir, finalName)
	metadataPath := filepath.Join(p.metadataDir, finalName)
	thumbPath := ""
	defer func() {
		cleanupFiles(downloadPath, metadataPath, thumbPath)
	}()

	for _, dir := range []string{p.downloadDir, p.metadataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Sprintf("Could not prepare working directory: %v", err)
		}
	}

	settings, err := p.store.Settings(task.UserID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", task.UserID).Msg("profile read failed, using defaults")
		settings = profile.Settings{}
	}

	// Download
	p.editStatus(statusMsg, "**Downloading...**")
	if _, err := p.gateway.Download(task.FileID, downloadPath, p.progressReporter(statusMsg, "Downloading...")); err != nil {
		log.Error().Err(err).Str("task_id", task.ID).Msg("download failed")
		return false, fmt.Sprintf("Download failed: %v", err)
	}

	// Metadata rewrite (non-fatal unless the fallback copy fails)
	p.editStatus(statusMsg, "**Processing metadata...**")
	uploadPath, err := p.rewriteMetadata(ctx, downloadPath, metadataPath, settings)
	if err != nil {
		log.Error().Err(err).Str("task_id", task.ID).Msg("metadata stage failed")
		return false, fmt.Sprintf("File processing failed: %v", err)
	}

	duration := 0
	if task.Media.Kind == profile.MediaVideo || task.Media.Kind == profile.MediaAudio {
		duration = task.Media.Duration
		if duration == 0 {
			duration = p.probeDurationSeconds(ctx, uploadPath)
		}
	}

	// Thumbnail (never fatal)
	p.editStatus(statusMsg, "**Preparing upload...**")
	thumbPath = p.resolveThumbnail(
		settings.ThumbFileID,
		task.Media.ThumbFileID,
		filepath.Join(p.downloadDir, "thumb_"+uuid.NewString()+".jpg"),
	)

	caption := fmt.Sprintf("**%s**", finalName)
	if settings.Caption != "" {
		caption = formatCaption(settings.Caption, finalName, task.Media.FileSize, formatDuration(duration))
	}

	kind := task.Media.Kind
	if pref := profile.MediaKind(strings.ToLower(settings.MediaType)); pref.Valid() {
		kind = pref
	} else if settings.MediaType != "" {
		log.Warn().Str("preference", settings.MediaType).Int64("user_id", task.UserID).
			Msg("invalid media preference, using original type")
	}

	// Upload
	p.editStatus(statusMsg, "**Uploading...**")
	err = p.gateway.Upload(domain.UploadParams{
		ChatID:    task.Source.ChatID,
		Kind:      kind,
		FilePath:  uploadPath,
		ThumbPath: thumbPath,
		Caption:   caption,
		Duration:  duration,
		Width:     task.Media.Width,
		Height:    task.Media.Height,
		Title:     task.Media.Title,
		Performer: task.Media.Performer,
	})
	if err != nil {
		if wait, ok := domain.AsFloodWait(err); ok {
			log.Warn().Int("seconds", wait.Seconds).Int64("user_id", task.UserID).Msg("flood wait on upload")
			p.editStatus(statusMsg, fmt.Sprintf(
				"Telegram is asking me to wait for %d seconds due to flood limits. Please try again after some time.", wait.Seconds))
			p.sleep(time.Duration(wait.Seconds) * time.Second)
			return false, "Flood limit hit, please retry."
		}
		log.Error().Err(err).Str("task_id", task.ID).Msg("upload failed")
		return false, fmt.Sprintf("Upload failed: %v", err)
	}

	if err := p.gateway.Delete(statusMsg); err != nil {
		log.Warn().Err(err).Msg("could not delete progress message")
	}
	return true, "File renamed and uploaded successfully!"
}

func (p *Processor) editStatus(ref domain.MessageRef, text string) {
	if err := p.gateway.Edit(ref, text); err != nil {
		log.Warn().Err(err).Msg("status edit failed")
	}
}

// progressReporter edits the status message at a throttled cadence
// while the gateway moves bytes.
func (p *Processor) progressReporter(ref domain.MessageRef, label string) domain.ProgressFunc {
	var lastEdit time.Time
	return func(current, total int64) {
		if time.Since(lastEdit) < progressInterval {
			return
		}
		lastEdit = time.Now()
		text := fmt.Sprintf("**%s**\n%s", label, humanBytes(current))
		if total > 0 {
			text = fmt.Sprintf("**%s**\n%s of %s (%.1f%%)",
				label, humanBytes(current), humanBytes(total), float64(current)/float64(total)*100)
		}
		p.editStatus(ref, text)
	}
}

// deriveExtension resolves the upload extension from the original
// filename, falling back per media kind.
func deriveExtension(media domain.MediaDescriptor) string {
	if ext := filepath.Ext(media.FileName); ext != "" {
		return ext
	}
	switch media.Kind {
	case profile.MediaVideo:
		return ".mp4"
	case profile.MediaAudio:
		return ".mp3"
	}
	if media.MimeType != "" {
		if exts, err := mime.ExtensionsByType(media.MimeType); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}
	return ".bin"
}

// cleanupFiles removes transient files, tolerating paths that are
// already gone and logging individual failures without stopping.
func cleanupFiles(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", path).Msg("cleanup failed")
		}
	}
}
