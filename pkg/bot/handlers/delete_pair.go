package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
	"github.com/smirnovd/tg-couple-bot/pkg/ui"
)

func HandleDeletePairCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	env, ok := resolveCallback(ctx, b, update)
	if !ok {
		return
	}

	confirmed, pairID, err := ui.ParseDeletePairCallback(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse delete pair callback", "data", update.CallbackQuery.Data, "error", err)
		env.answer("Unknown command")
		return
	}

	if !confirmed {
		env.answer("")
		sendText(ctx, b, env.chatID, "Good. Your pair stays. ❤️")
		sendHomeScreen(ctx, b, env.chatID, env.userID)
		return
	}

	pair, err := service.GetPair(pairID)
	if err != nil {
		logger.Error("failed to load pair", "pair_id", pairID, "error", err)
		env.answer("Something went wrong")
		return
	}
	if pair == nil {
		// Double tap, or the other member confirmed first.
		env.answer("This pair is already gone")
		return
	}
	if pair.CreatorUserID != env.userID && pair.PartnerUserID != env.userID {
		logger.Error("delete pair requested by an outsider", "pair_id", pairID, "user_id", env.userID)
		env.answer("Unknown command")
		return
	}

	recipients, err := service.PairTelegramIDs(pair)
	if err != nil {
		logger.Error("failed to resolve pair members", "pair_id", pairID, "error", err)
	}

	if err := service.DeletePair(pairID); err != nil {
		if errors.Is(err, service.ErrPairNotFound) {
			env.answer("This pair is already gone")
			return
		}
		logger.Error("failed to delete pair", "pair_id", pairID, "error", err)
		env.answer("Something went wrong")
		return
	}

	env.answer("")
	for _, chatID := range recipients {
		sendText(ctx, b, chatID, "💔 Your pair has been deleted. The wishlist and anniversary data are gone.")
	}
}
