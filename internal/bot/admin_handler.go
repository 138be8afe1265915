package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"file_rename_bot/internal/pkg/profile"
	"file_rename_bot/internal/pkg/quota"
)

func (b *Bot) handleMyLimit(msg *tgbotapi.Message) {
	userID := msg.From.ID

	isPremium, err := profile.CheckPremium(b.store, userID, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("premium check failed")
	}
	if isPremium {
		b.reply(msg.Chat.ID, "✨ *You are a premium user!*\n\nYou have *unlimited* renames.")
		return
	}

	count, limit, err := b.ledger.CountWithRollover(userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("quota read failed")
		b.reply(msg.Chat.ID, "⚠️ Could not read your limit right now. Please try again later.")
		return
	}
	if limit == quota.Unlimited {
		b.reply(msg.Chat.ID, "You have *unlimited* renames.")
		return
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	b.reply(msg.Chat.ID, fmt.Sprintf(
		"📊 *Your daily rename limit:*\nYou have used *%d* out of *%d* renames today.\nYou have *%d* renames remaining.\n\n_The limit resets at midnight UTC._",
		count, limit, remaining))
}

func (b *Bot) handleQueueStatus(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "This command is for bot admins only.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Current queue size: %d tasks.", b.queue.Size()))
}

func (b *Bot) handleSetLimit(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "This command is for bot admins only.")
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		b.reply(msg.Chat.ID, "Usage: `/set_limit <user_id> <limit>`\nUse `-1` for unlimited.")
		return
	}
	userID, err1 := strconv.ParseInt(args[0], 10, 64)
	limit, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || limit < quota.Unlimited {
		b.reply(msg.Chat.ID, "Invalid user id or limit. Please use numbers; limit `-1` means unlimited.")
		return
	}

	if err := b.ledger.SetLimit(userID, limit); err != nil {
		log.Error().Err(err).Int64("target", userID).Msg("set limit failed")
		b.reply(msg.Chat.ID, "⚠️ Could not set the limit. Please try again later.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Daily rename limit for user `%d` set to *%d*.", userID, limit))
}

func (b *Bot) handleAddPremium(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "This command is for bot admins only.")
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 || len(args) > 2 {
		b.reply(msg.Chat.ID, "Usage: `/add_premium <user_id> [days]`")
		return
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Invalid user id. Please use a number.")
		return
	}

	period := b.premiumPeriod
	if len(args) == 2 {
		days, err := strconv.Atoi(args[1])
		if err != nil || days < 1 {
			b.reply(msg.Chat.ID, "Invalid number of days. Please use a positive number.")
			return
		}
		period = time.Duration(days) * 24 * time.Hour
	}

	expiry := time.Now().UTC().Add(period)
	if err := b.store.SetPremium(userID, profile.PremiumStatus{IsPremium: true, ExpiresAt: &expiry}); err != nil {
		log.Error().Err(err).Int64("target", userID).Msg("add premium failed")
		b.reply(msg.Chat.ID, "⚠️ Could not grant premium. Please try again later.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("User `%d` has been granted *premium* until %s.", userID, expiry.Format("2006-01-02")))
}

func (b *Bot) handleRemovePremium(msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) {
		b.reply(msg.Chat.ID, "This command is for bot admins only.")
		return
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		b.reply(msg.Chat.ID, "Usage: `/remove_premium <user_id>`")
		return
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Invalid user id. Please use a number.")
		return
	}

	if err := b.store.SetPremium(userID, profile.PremiumStatus{}); err != nil {
		log.Error().Err(err).Int64("target", userID).Msg("remove premium failed")
		b.reply(msg.Chat.ID, "⚠️ Could not revoke premium. Please try again later.")
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("User `%d` has had *premium* revoked.", userID))
}
