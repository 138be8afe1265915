package bot

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/fileparse"
	"file_rename_bot/internal/pkg/profile"
	"file_rename_bot/internal/pkg/rename/domain"
)

// handleFile receives a media message: either auto-renames it through
// the user's saved template, or remembers it and asks for a new name.
func (b *Bot) handleFile(msg *tgbotapi.Message) {
	userID := msg.From.ID

	fileID, media, ok := describeMedia(msg)
	if !ok {
		b.reply(msg.Chat.ID, "Unsupported file type. Send a document, video or audio file.")
		return
	}

	pending := pendingRename{
		source:  domain.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.MessageID},
		fileID:  fileID,
		media:   media,
		caption: msg.Caption,
	}

	settings, err := b.store.Settings(userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("settings read failed")
	}

	if settings.FormatTemplate != "" {
		newName := b.templateName(settings, pending)
		b.enqueueRename(msg.Chat.ID, userID, pending, newName, settings.RenameSource)
		return
	}

	b.setPending(userID, pending)

	prompt := tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf(
		"📄 *Original file:* `%s` (%s)\n\nSend the *new file name* you want, or use `/rename <new name>` as a reply to the file.",
		media.FileName, sizeLabel(media.FileSize)))
	prompt.ParseMode = tgbotapi.ModeMarkdown
	prompt.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Cancel", "cancel_rename"),
		),
	)
	if _, err := b.send(prompt); err != nil {
		log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("prompt failed")
	}
}

// handleNameReply treats plain text from a user with a pending file as
// the requested new name.
func (b *Bot) handleNameReply(msg *tgbotapi.Message) {
	userID := msg.From.ID
	pending, ok := b.takePending(userID)
	if !ok {
		return
	}

	newName := strings.TrimSpace(msg.Text)
	if newName == "" {
		// Keep the file on hold; a blank reply must not discard it.
		b.setPending(userID, pending)
		b.reply(msg.Chat.ID, "Please provide a new file name.")
		return
	}
	b.enqueueWithSource(msg.Chat.ID, userID, pending, newName)
}

// handleRenameCommand serves /rename [new name], either as a reply to a
// file message or right after a file was sent.
func (b *Bot) handleRenameCommand(msg *tgbotapi.Message) {
	userID := msg.From.ID
	newName := strings.TrimSpace(msg.CommandArguments())

	var pending pendingRename
	if reply := msg.ReplyToMessage; reply != nil && (reply.Document != nil || reply.Video != nil || reply.Audio != nil) {
		fileID, media, _ := describeMedia(reply)
		pending = pendingRename{
			source:  domain.MessageRef{ChatID: reply.Chat.ID, MessageID: reply.MessageID},
			fileID:  fileID,
			media:   media,
			caption: reply.Caption,
		}
		// The prompt entry is stale once the command names the file.
		b.takePending(userID)
	} else {
		var ok bool
		pending, ok = b.takePending(userID)
		if !ok {
			b.reply(msg.Chat.ID, "Reply to a *document, video or audio file* with `/rename <new name>`, or send the file first and then the new name.")
			return
		}
	}

	if newName == "" {
		b.setPending(userID, pending)
		b.reply(msg.Chat.ID, "Please send the *new file name* you want, or use `/rename <new name>`.")
		return
	}
	b.enqueueWithSource(msg.Chat.ID, userID, pending, newName)
}

func (b *Bot) enqueueWithSource(chatID, userID int64, pending pendingRename, newName string) {
	settings, err := b.store.Settings(userID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("settings read failed")
	}
	b.enqueueRename(chatID, userID, pending, newName, settings.RenameSource)
}

// enqueueRename runs the admission checks and places the task. Quota is
// charged at accepted enqueue, not at completion, so a task that later
// fails in the pipeline still consumes the user's daily quota; this
// mirrors the established product behavior.
func (b *Bot) enqueueRename(chatID, userID int64, pending pendingRename, newName string, source profile.RenameSource) {
	now := time.Now().UTC()

	isPremium, err := profile.CheckPremium(b.store, userID, now)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("premium check failed")
		isPremium = false
	}

	if !isPremium {
		exceeded, _, limit, err := b.ledger.Exceeded(userID)
		if err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("quota check failed")
			b.reply(chatID, "⚠️ Could not verify your daily limit right now. Please try again later.")
			return
		}
		if exceeded {
			b.reply(chatID, fmt.Sprintf(
				"*Daily limit reached!* 🚫\n\nYou have used your daily limit of *%d* file renames.\nPlease wait for tomorrow to rename more files.\n\n✨ Upgrade to *premium* for *unlimited* renames!", limit))
			return
		}
	}

	if b.checker.IsBlocked(newName) {
		b.reply(chatID, "🚫 This file name is not allowed.")
		return
	}

	task := &domain.RenameTask{
		ID:             uuid.NewString(),
		UserID:         userID,
		Source:         pending.source,
		FileID:         pending.fileID,
		TargetBaseName: newName,
		RenameSource:   source,
		Media:          pending.media,
		IsPriority:     isPremium,
		EnqueuedAt:     now,
	}

	accepted, statusMsg := b.queue.Enqueue(task)
	b.reply(chatID, statusMsg)
	if !accepted {
		return
	}

	log.Info().Str("task_id", task.ID).Int64("user_id", userID).
		Bool("priority", task.IsPriority).Int("queue_size", b.queue.Size()).
		Msg("task enqueued")

	if !isPremium {
		if err := b.ledger.Increment(userID); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("quota increment failed")
		}
	}

	if position, total := b.queue.PositionOf(userID); position > 0 {
		b.reply(chatID, fmt.Sprintf("Your position in queue: *%d/%d*", position, total))
	}
}

// templateName renders the target base name from the user's autorename
// template, sourcing heuristics from the caption or the original
// filename per preference.
func (b *Bot) templateName(settings profile.Settings, pending pendingRename) string {
	sourceName := pending.media.FileName
	if settings.RenameSource == profile.SourceCaption && pending.caption != "" {
		sourceName = pending.caption
	}
	name := fileparse.ApplyTemplate(settings.FormatTemplate, sourceName)
	// The template yields a base name; a pasted extension would double up.
	return strings.TrimSuffix(name, filepath.Ext(pending.media.FileName))
}

// describeMedia snapshots the message's media for the task, so the
// pipeline never needs the original message again.
func describeMedia(msg *tgbotapi.Message) (fileID string, media domain.MediaDescriptor, ok bool) {
	switch {
	case msg.Document != nil:
		d := msg.Document
		media = domain.MediaDescriptor{
			Kind:     profile.MediaDocument,
			FileName: orDefault(d.FileName, "document_file"),
			FileSize: int64(d.FileSize),
			MimeType: d.MimeType,
		}
		if d.Thumbnail != nil {
			media.ThumbFileID = d.Thumbnail.FileID
		}
		return d.FileID, media, true
	case msg.Video != nil:
		v := msg.Video
		media = domain.MediaDescriptor{
			Kind:     profile.MediaVideo,
			FileName: orDefault(v.FileName, "video_file"),
			FileSize: int64(v.FileSize),
			MimeType: v.MimeType,
			Duration: v.Duration,
			Width:    v.Width,
			Height:   v.Height,
		}
		if v.Thumbnail != nil {
			media.ThumbFileID = v.Thumbnail.FileID
		}
		return v.FileID, media, true
	case msg.Audio != nil:
		a := msg.Audio
		media = domain.MediaDescriptor{
			Kind:      profile.MediaAudio,
			FileName:  orDefault(a.FileName, "audio_file"),
			FileSize:  int64(a.FileSize),
			MimeType:  a.MimeType,
			Duration:  a.Duration,
			Title:     a.Title,
			Performer: a.Performer,
		}
		if a.Thumbnail != nil {
			media.ThumbFileID = a.Thumbnail.FileID
		}
		return a.FileID, media, true
	}
	return "", domain.MediaDescriptor{}, false
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func sizeLabel(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTP"[exp])
}
