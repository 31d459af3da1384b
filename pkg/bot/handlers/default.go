package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smirnovd/tg-couple-bot/pkg/bot/session"
	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
	"github.com/smirnovd/tg-couple-bot/pkg/ui"
)

const startDateLayout = "02.01.2006"

// HandleDefault consumes free-form text. When the bot is waiting for an
// input the text feeds the pending action, otherwise it falls back to
// the home screen.
func HandleDefault(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		return
	}
	chatID := update.Message.Chat.ID
	from := update.Message.From
	text := strings.TrimSpace(update.Message.Text)

	userID, err := service.GetOrCreateUser(profileFromUser(from))
	if err != nil {
		logger.Error("failed to register user", "telegram_id", from.ID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}

	pending, err := session.Get(from.ID)
	if err != nil {
		logger.Error("failed to load pending action", "telegram_id", from.ID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}
	if pending == nil {
		sendHomeScreen(ctx, b, chatID, userID)
		return
	}

	// "no" backs out of any prompt.
	if strings.EqualFold(text, "no") {
		clearPending(from.ID)
		sendText(ctx, b, chatID, "Cancelled.")
		sendHomeScreen(ctx, b, chatID, userID)
		return
	}

	pair, err := service.FindPairByUser(userID)
	if err != nil {
		logger.Error("failed to load pair", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}
	if pair == nil {
		// The pair was deleted while the prompt was open.
		clearPending(from.ID)
		sendHomeScreen(ctx, b, chatID, userID)
		return
	}

	switch pending.Action {
	case session.ActionWishlistAdd:
		handleWishlistAddInput(ctx, b, chatID, from.ID, userID, pair, text)
	case session.ActionWishlistDelete:
		handleWishlistDeleteInput(ctx, b, chatID, from.ID, userID, pair.ID, text)
	case session.ActionWishlistLink:
		handleWishlistLinkInput(ctx, b, chatID, from.ID, pair.ID, pending.TargetItemID, text)
	case session.ActionCloudSet:
		handleCloudSetInput(ctx, b, chatID, from.ID, pair.ID, text)
	case session.ActionStartDateSet:
		handleStartDateInput(ctx, b, chatID, from.ID, userID, pair, text)
	default:
		logger.Error("unknown pending action", "telegram_id", from.ID, "action", pending.Action)
		clearPending(from.ID)
		sendHomeScreen(ctx, b, chatID, userID)
	}
}

func clearPending(telegramID int64) {
	if err := session.Clear(telegramID); err != nil {
		logger.Error("failed to clear pending action", "telegram_id", telegramID, "error", err)
	}
}

func handleWishlistAddInput(ctx context.Context, b *bot.Bot, chatID, tgID int64, userID uint, pair *db.Pair, text string) {
	if text == "" {
		sendText(ctx, b, chatID, "Send the wish as plain text.")
		return
	}
	if _, err := service.AddWishlistItem(pair.ID, userID, text, nil); err != nil {
		logger.Error("failed to add wishlist item", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}
	clearPending(tgID)
	sendText(ctx, b, chatID, "✨ Added to your wishlist.")
	sendWishlistMenu(ctx, b, chatID)

	// Best effort, the wish itself is already saved.
	partner, err := service.GetUser(service.PartnerID(pair, userID))
	if err != nil {
		logger.Error("failed to load partner", "pair_id", pair.ID, "error", err)
		return
	}
	if partner != nil {
		sendText(ctx, b, partner.TelegramID, "🎁 Your partner just added a new wish. Take a peek!")
	}
}

func handleWishlistDeleteInput(ctx context.Context, b *bot.Bot, chatID, tgID int64, userID, pairID uint, text string) {
	items, err := service.WishlistForOwner(pairID, userID)
	if err != nil {
		logger.Error("failed to load wishlist", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}
	n, convErr := strconv.Atoi(text)
	if convErr != nil || n < 1 || n > len(items) {
		sendText(ctx, b, chatID, "Send a number between 1 and "+strconv.Itoa(len(items))+".")
		return
	}
	if err := service.DeleteWishlistItem(pairID, items[n-1].ID); err != nil {
		logger.Error("failed to delete wishlist item", "user_id", userID, "item_id", items[n-1].ID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}
	clearPending(tgID)
	sendText(ctx, b, chatID, "🗑 Deleted.")
	sendWishlistMenu(ctx, b, chatID)
}

func handleWishlistLinkInput(ctx context.Context, b *bot.Bot, chatID, tgID int64, pairID, itemID uint, text string) {
	link, ok := validHTTPURL(text)
	if !ok {
		sendText(ctx, b, chatID, "That does not look like a link. Send a full http(s) URL.")
		return
	}
	if err := service.SetWishlistItemURL(pairID, itemID, link); err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			clearPending(tgID)
			sendText(ctx, b, chatID, "This wish is gone.")
			return
		}
		logger.Error("failed to set wishlist item url", "item_id", itemID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}
	clearPending(tgID)
	sendText(ctx, b, chatID, "🔗 Link saved.")
}

func handleCloudSetInput(ctx context.Context, b *bot.Bot, chatID, tgID int64, pairID uint, text string) {
	if text == "-" {
		if err := service.SetCloudURL(pairID, nil); err != nil {
			logger.Error("failed to clear cloud url", "pair_id", pairID, "error", err)
			sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
			return
		}
		clearPending(tgID)
		sendText(ctx, b, chatID, "📁 Shared drive link removed.")
		return
	}

	link, ok := validHTTPURL(text)
	if !ok {
		sendText(ctx, b, chatID, "That does not look like a link. Send a full http(s) URL, or - to remove it.")
		return
	}
	if err := service.SetCloudURL(pairID, &link); err != nil {
		logger.Error("failed to set cloud url", "pair_id", pairID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}
	clearPending(tgID)
	sendText(ctx, b, chatID, "📁 Shared drive link saved.")
}

func handleStartDateInput(ctx context.Context, b *bot.Bot, chatID, tgID int64, userID uint, pair *db.Pair, text string) {
	date, err := time.ParseInLocation(startDateLayout, text, time.UTC)
	if err != nil {
		sendText(ctx, b, chatID, "I could not read that date. Use DD.MM.YYYY, for example 14.02.2024.")
		return
	}
	if err := service.SetStartDate(pair.ID, date); err != nil {
		logger.Error("failed to set start date", "pair_id", pair.ID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}
	clearPending(tgID)

	stats := milestone.CalcStats(date, time.Now())
	sendWithKeyboard(ctx, b, chatID, ui.RenderStats(stats), ui.WithHomeButton())

	partner, err := service.GetUser(service.PartnerID(pair, userID))
	if err != nil {
		logger.Error("failed to load partner", "pair_id", pair.ID, "error", err)
		return
	}
	if partner != nil {
		sendText(ctx, b, partner.TelegramID,
			"❤️ Your partner set your anniversary to "+date.Format(startDateLayout)+".")
	}
}
