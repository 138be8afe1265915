package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/profile"
)

const renameSourceText = `*Rename source*
Choose the option below:

» *Caption:* the caption of the file feeds the renaming template.
» *Filename:* the original filename feeds the renaming template.`

// handleAutoRename saves an autorename template: subsequent files are
// renamed through it without asking for a name.
func (b *Bot) handleAutoRename(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if !b.requirePremium(msg.Chat.ID, userID) {
		return
	}

	template := strings.TrimSpace(msg.CommandArguments())
	if template == "" {
		b.reply(msg.Chat.ID, "Please provide a template after the command.\n\n*Example:* `/autorename Overflow [S{season}E{episode}] {quality}`")
		return
	}

	if err := b.store.SetFormatTemplate(userID, template); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("save format template failed")
		b.reply(msg.Chat.ID, "⚠️ Could not save the template. Please try again later.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("🌟 Auto-rename is on. Send your files and I will rename them.\n\n*Saved template:* `%s`", template))
}

func (b *Bot) handleSetMedia(msg *tgbotapi.Message) {
	if !b.requirePremium(msg.Chat.ID, msg.From.ID) {
		return
	}

	prompt := tgbotapi.NewMessage(msg.Chat.ID, "Select the container type for your renamed files:")
	prompt.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📜 Document", "setmedia_document")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎬 Video", "setmedia_video")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎵 Audio", "setmedia_audio")),
	)
	if _, err := b.send(prompt); err != nil {
		log.Warn().Err(err).Msg("setmedia prompt failed")
	}
}

func (b *Bot) handleRenameSource(msg *tgbotapi.Message) {
	prompt := tgbotapi.NewMessage(msg.Chat.ID, renameSourceText)
	prompt.ParseMode = tgbotapi.ModeMarkdown
	prompt.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Caption", "set_rename_source_caption")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Filename", "set_rename_source_filename")),
	)
	if _, err := b.send(prompt); err != nil {
		log.Warn().Err(err).Msg("renamesource prompt failed")
	}
}

// handleSetCaption saves a caption template. {filename}, {filesize} and
// {duration} placeholders are filled in at upload time.
func (b *Bot) handleSetCaption(msg *tgbotapi.Message) {
	userID := msg.From.ID
	caption := strings.TrimSpace(msg.CommandArguments())
	if caption == "" {
		b.reply(msg.Chat.ID, "Please provide a caption after the command.\n\n*Example:* `/set_caption {filename} - {filesize}`\n\nPlaceholders: `{filename}`, `{filesize}`, `{duration}`")
		return
	}
	if err := b.store.SetCaption(userID, caption); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("save caption failed")
		b.reply(msg.Chat.ID, "⚠️ Could not save the caption. Please try again later.")
		return
	}
	b.reply(msg.Chat.ID, "✅ Caption saved. It will be applied to your renamed files.")
}

func (b *Bot) handleDelCaption(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if err := b.store.SetCaption(userID, ""); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("delete caption failed")
		b.reply(msg.Chat.ID, "⚠️ Could not delete the caption. Please try again later.")
		return
	}
	b.reply(msg.Chat.ID, "🗑 Caption deleted.")
}

// handleThumbnailPhoto stores the largest size of an incoming photo as
// the user's custom thumbnail.
func (b *Bot) handleThumbnailPhoto(msg *tgbotapi.Message) {
	userID := msg.From.ID
	photo := msg.Photo[len(msg.Photo)-1]
	if err := b.store.SetThumbnail(userID, photo.FileID); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("save thumbnail failed")
		b.reply(msg.Chat.ID, "⚠️ Could not save the thumbnail. Please try again later.")
		return
	}
	b.reply(msg.Chat.ID, "✅ Thumbnail saved. It will be attached to your renamed files.")
}

func (b *Bot) handleViewThumbnail(msg *tgbotapi.Message) {
	userID := msg.From.ID
	settings, err := b.store.Settings(userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("settings read failed")
		b.reply(msg.Chat.ID, "⚠️ Could not read your settings. Please try again later.")
		return
	}
	if settings.ThumbFileID == "" {
		b.reply(msg.Chat.ID, "You have no saved thumbnail. Send me a photo to set one.")
		return
	}
	photo := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileID(settings.ThumbFileID))
	photo.Caption = "Your saved thumbnail."
	if _, err := b.send(photo); err != nil {
		log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("thumbnail preview failed")
	}
}

func (b *Bot) handleDelThumbnail(msg *tgbotapi.Message) {
	userID := msg.From.ID
	if err := b.store.SetThumbnail(userID, ""); err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("delete thumbnail failed")
		b.reply(msg.Chat.ID, "⚠️ Could not delete the thumbnail. Please try again later.")
		return
	}
	b.reply(msg.Chat.ID, "🗑 Thumbnail deleted.")
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	data := query.Data

	switch {
	case strings.HasPrefix(data, "setmedia_"):
		mediaType := strings.TrimPrefix(data, "setmedia_")
		if !profile.MediaKind(mediaType).Valid() {
			b.answerCallback(query.ID, "Unknown media type")
			return
		}
		if err := b.store.SetMediaPreference(userID, mediaType); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("save media preference failed")
			b.answerCallback(query.ID, "Could not save, try again")
			return
		}
		b.answerCallback(query.ID, "Saved")
		b.editCallbackMessage(query, fmt.Sprintf("🎯 Media preference set to *%s*.", mediaType))

	case strings.HasPrefix(data, "set_rename_source_"):
		source := profile.RenameSource(strings.TrimPrefix(data, "set_rename_source_"))
		if source != profile.SourceCaption && source != profile.SourceFilename {
			b.answerCallback(query.ID, "Unknown source")
			return
		}
		if err := b.store.SetRenameSource(userID, source); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("save rename source failed")
			b.answerCallback(query.ID, "Could not save, try again")
			return
		}
		b.answerCallback(query.ID, "Saved")
		b.editCallbackMessage(query, fmt.Sprintf("✅ Rename source set to *%s*.", source))

	case data == "cancel_rename":
		if _, ok := b.takePending(userID); ok {
			b.answerCallback(query.ID, "Cancelled")
			b.editCallbackMessage(query, "🚫 Rename operation cancelled.")
		} else {
			b.answerCallback(query.ID, "No pending rename to cancel")
		}
	}
}

func (b *Bot) requirePremium(chatID, userID int64) bool {
	isPremium, err := profile.CheckPremium(b.store, userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("premium check failed")
	}
	if !isPremium {
		b.reply(chatID, "❌ *Premium feature*\n\nThis option is available to premium users only.")
		return false
	}
	return true
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.Api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Warn().Err(err).Msg("callback answer failed")
	}
}

func (b *Bot) editCallbackMessage(query *tgbotapi.CallbackQuery, text string) {
	if query.Message == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.send(edit); err != nil {
		log.Warn().Err(err).Msg("callback edit failed")
	}
}
