package telegram

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/profile"
	"file_rename_bot/internal/pkg/rename/domain"
)

// Gateway implements the messaging transport over the Telegram Bot API.
type Gateway struct {
	api *tgbotapi.BotAPI
}

func NewGateway(api *tgbotapi.BotAPI) *Gateway {
	return &Gateway{api: api}
}

func (g *Gateway) Send(chatID int64, text string) (domain.MessageRef, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := g.api.Send(msg)
	if err != nil {
		return domain.MessageRef{}, mapError(err)
	}
	return domain.MessageRef{ChatID: chatID, MessageID: sent.MessageID}, nil
}

// Edit updates a message. A message that no longer exists is not an
// error for callers; the failure is logged and swallowed.
func (g *Gateway) Edit(ref domain.MessageRef, text string) error {
	edit := tgbotapi.NewEditMessageText(ref.ChatID, ref.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := g.api.Send(edit); err != nil {
		log.Warn().Err(err).Int("message_id", ref.MessageID).Msg("edit failed")
	}
	return nil
}

func (g *Gateway) Delete(ref domain.MessageRef) error {
	if _, err := g.api.Request(tgbotapi.NewDeleteMessage(ref.ChatID, ref.MessageID)); err != nil {
		return mapError(err)
	}
	return nil
}

// Download fetches a remote file by id into destPath, reporting
// progress as bytes arrive.
func (g *Gateway) Download(fileID, destPath string, progress domain.ProgressFunc) (string, error) {
	file, err := g.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file info: %w", mapError(err))
	}

	resp, err := http.Get(file.Link(g.api.Token))
	if err != nil {
		return "", fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch file: unexpected status %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("create download file: %w", err)
	}
	defer out.Close()

	total := int64(file.FileSize)
	reader := io.Reader(resp.Body)
	if progress != nil {
		reader = &progressReader{r: resp.Body, total: total, progress: progress}
	}
	if _, err := io.Copy(out, reader); err != nil {
		return "", fmt.Errorf("write download: %w", err)
	}
	return destPath, nil
}

// Upload sends a local file back as the requested container kind.
func (g *Gateway) Upload(params domain.UploadParams) error {
	var chattable tgbotapi.Chattable

	switch params.Kind {
	case profile.MediaVideo:
		video := tgbotapi.NewVideo(params.ChatID, tgbotapi.FilePath(params.FilePath))
		video.Caption = params.Caption
		video.ParseMode = tgbotapi.ModeMarkdown
		video.Duration = params.Duration
		video.SupportsStreaming = true
		if params.ThumbPath != "" {
			video.Thumb = tgbotapi.FilePath(params.ThumbPath)
		}
		chattable = video
	case profile.MediaAudio:
		audio := tgbotapi.NewAudio(params.ChatID, tgbotapi.FilePath(params.FilePath))
		audio.Caption = params.Caption
		audio.ParseMode = tgbotapi.ModeMarkdown
		audio.Duration = params.Duration
		audio.Title = params.Title
		audio.Performer = params.Performer
		if params.ThumbPath != "" {
			audio.Thumb = tgbotapi.FilePath(params.ThumbPath)
		}
		chattable = audio
	default:
		document := tgbotapi.NewDocument(params.ChatID, tgbotapi.FilePath(params.FilePath))
		document.Caption = params.Caption
		document.ParseMode = tgbotapi.ModeMarkdown
		if params.ThumbPath != "" {
			document.Thumb = tgbotapi.FilePath(params.ThumbPath)
		}
		chattable = document
	}

	if _, err := g.api.Send(chattable); err != nil {
		return mapError(err)
	}
	return nil
}

// mapError converts the transport's rate-limit response into the
// flow-control error the pipeline branches on.
func mapError(err error) error {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) && tgErr.RetryAfter > 0 {
		return &domain.FloodWaitError{Seconds: tgErr.RetryAfter}
	}
	return err
}

type progressReader struct {
	r        io.Reader
	current  int64
	total    int64
	progress domain.ProgressFunc
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.current += int64(n)
		p.progress(p.current, p.total)
	}
	return n, err
}
