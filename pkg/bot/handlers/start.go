package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smirnovd/tg-couple-bot/pkg/bot/session"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
)

const inviteDeepLinkPrefix = "inv_"

func HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleStart")
		return
	}
	chatID := update.Message.Chat.ID
	from := update.Message.From

	userID, err := service.GetOrCreateUser(profileFromUser(from))
	if err != nil {
		logger.Error("failed to register user", "telegram_id", from.ID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}

	// /start always aborts whatever input the bot was waiting for.
	if err := session.Clear(from.ID); err != nil {
		logger.Error("failed to clear pending action", "telegram_id", from.ID, "error", err)
	}

	payload := strings.TrimSpace(strings.TrimPrefix(update.Message.Text, "/start"))
	if token, ok := strings.CutPrefix(payload, inviteDeepLinkPrefix); ok && token != "" {
		redeemInvite(ctx, b, chatID, userID, token)
		return
	}

	sendHomeScreen(ctx, b, chatID, userID)
}

func redeemInvite(ctx context.Context, b *bot.Bot, chatID int64, userID uint, token string) {
	pair, err := service.RedeemInvite(token, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound):
			sendText(ctx, b, chatID, "This invite link is no longer valid. Ask your partner for a fresh one.")
		case errors.Is(err, service.ErrSelfPairing):
			sendText(ctx, b, chatID, "That is your own invite link. Forward it to your partner instead.")
		case errors.Is(err, service.ErrRedeemerAlreadyPaired):
			sendText(ctx, b, chatID, "You already have a partner. Delete your current pair first.")
		case errors.Is(err, service.ErrCreatorAlreadyPaired):
			sendText(ctx, b, chatID, "The sender of this link already has a partner.")
		default:
			logger.Error("failed to redeem invite", "user_id", userID, "error", err)
			sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		}
		return
	}

	creator, err := service.GetUser(pair.CreatorUserID)
	if err != nil {
		logger.Error("failed to load invite creator", "pair_id", pair.ID, "error", err)
	}
	redeemer, err := service.GetUser(userID)
	if err != nil {
		logger.Error("failed to load redeemer", "pair_id", pair.ID, "error", err)
	}

	sendText(ctx, b, chatID, "💞 You are now paired with "+displayName(creator)+"!")
	if creator != nil {
		sendText(ctx, b, creator.TelegramID, "💞 "+displayName(redeemer)+" accepted your invite. You are a pair now!")
	}
	sendHomeScreen(ctx, b, chatID, userID)
}
