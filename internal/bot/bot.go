package bot

import (
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/nsfw"
	"file_rename_bot/internal/pkg/profile"
	"file_rename_bot/internal/pkg/quota"
	"file_rename_bot/internal/pkg/rename/domain"
	"file_rename_bot/internal/pkg/rename/queue"
)

type Bot struct {
	Api     *tgbotapi.BotAPI
	store   profile.Store
	ledger  *quota.Ledger
	queue   *queue.Queue
	checker *nsfw.Checker

	adminIDs      map[int64]struct{}
	premiumPeriod time.Duration

	// Injection point for tests.
	send func(c tgbotapi.Chattable) (tgbotapi.Message, error)

	// pending holds the last file each user sent while we wait for a
	// new name. Request-scoped state, never part of the queue.
	mu      sync.Mutex
	pending map[int64]pendingRename
}

type pendingRename struct {
	source  domain.MessageRef
	fileID  string
	media   domain.MediaDescriptor
	caption string
}

func New(api *tgbotapi.BotAPI, store profile.Store, ledger *quota.Ledger, q *queue.Queue,
	checker *nsfw.Checker, adminIDs []int64, premiumPeriod time.Duration) *Bot {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Bot{
		Api:           api,
		store:         store,
		ledger:        ledger,
		queue:         q,
		checker:       checker,
		adminIDs:      admins,
		premiumPeriod: premiumPeriod,
		send:          api.Send,
		pending:       make(map[int64]pendingRename),
	}
}

// Start consumes updates until the update channel closes.
func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.Api.GetUpdatesChan(u)
	log.Info().Str("account", b.Api.Self.UserName).Msg("authorized")

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil || !update.Message.Chat.IsPrivate() {
			continue
		}

		msg := update.Message
		switch {
		case msg.IsCommand():
			b.handleCommand(msg)
		case msg.Document != nil || msg.Video != nil || msg.Audio != nil:
			b.handleFile(msg)
		case len(msg.Photo) > 0:
			b.handleThumbnailPhoto(msg)
		case msg.Text != "":
			b.handleNameReply(msg)
		}
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, "Send me a document, video or audio file and I will rename it for you. Use /rename <new name> after sending a file.")
	case "rename", "rename_file":
		b.handleRenameCommand(msg)
	case "autorename":
		b.handleAutoRename(msg)
	case "setmedia":
		b.handleSetMedia(msg)
	case "renamesource":
		b.handleRenameSource(msg)
	case "set_caption":
		b.handleSetCaption(msg)
	case "del_caption":
		b.handleDelCaption(msg)
	case "view_thumb":
		b.handleViewThumbnail(msg)
	case "del_thumb":
		b.handleDelThumbnail(msg)
	case "my_limit":
		b.handleMyLimit(msg)
	case "queuestatus":
		b.handleQueueStatus(msg)
	case "set_limit":
		b.handleSetLimit(msg)
	case "add_premium":
		b.handleAddPremium(msg)
	case "remove_premium":
		b.handleRemovePremium(msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command 🤔")
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	_, ok := b.adminIDs[userID]
	return ok
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.send(msg); err != nil {
		log.Warn().Err(err).Int64("chat_id", chatID).Msg("reply failed")
	}
}

func (b *Bot) setPending(userID int64, p pendingRename) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = p
}

func (b *Bot) takePending(userID int64) (pendingRename, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[userID]
	if ok {
		delete(b.pending, userID)
	}
	return p, ok
}
