package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smirnovd/tg-couple-bot/pkg/bot/session"
	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
	"github.com/smirnovd/tg-couple-bot/pkg/ui"
)

func sendWishlistMenu(ctx context.Context, b *bot.Bot, chatID int64) {
	sendWithKeyboard(ctx, b, chatID, "🎁 Wishlist",
		ui.WithHomeButton(
			[]models.InlineKeyboardButton{
				{Text: "My wishlist", CallbackData: ui.BuildWishlistCallback(ui.WishlistMy)},
				{Text: "Partner's wishlist", CallbackData: ui.BuildWishlistCallback(ui.WishlistPartner)},
			},
			[]models.InlineKeyboardButton{
				{Text: "➕ Add a wish", CallbackData: ui.BuildWishlistCallback(ui.WishlistAdd)},
				{Text: "🗑 Delete a wish", CallbackData: ui.BuildWishlistCallback(ui.WishlistDelete)},
			},
		))
}

func renderWishlist(header string, items []db.WishlistItem) string {
	if len(items) == 0 {
		return header + "\n\nNothing here yet."
	}
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	for i, item := range items {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%d. ", i+1)
		if item.IsDone {
			sb.WriteString("✅ ")
		}
		sb.WriteString(item.Title)
		if item.URL != nil {
			sb.WriteString("\n   🔗 " + *item.URL)
		}
	}
	return sb.String()
}

// linkButtons offers an attach-link button for every wish without one.
func linkButtons(items []db.WishlistItem) [][]models.InlineKeyboardButton {
	var rows [][]models.InlineKeyboardButton
	for i, item := range items {
		if item.URL != nil {
			continue
		}
		rows = append(rows, []models.InlineKeyboardButton{{
			Text:         fmt.Sprintf("🔗 Attach link to %d", i+1),
			CallbackData: ui.BuildWishlistLinkCallback(item.ID),
		}})
	}
	return rows
}

func HandleWishlistCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	env, ok := resolveCallback(ctx, b, update)
	if !ok {
		return
	}

	action, err := ui.ParseWishlistCallback(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse wishlist callback", "data", update.CallbackQuery.Data, "error", err)
		env.answer("Unknown command")
		return
	}

	pair, ok := requirePair(env)
	if !ok {
		return
	}

	switch action.Op {
	case ui.WishlistMy:
		items, err := service.WishlistForOwner(pair.ID, env.userID)
		if err != nil {
			logger.Error("failed to load wishlist", "user_id", env.userID, "error", err)
			env.answer("Something went wrong")
			return
		}
		env.answer("")
		rows := append(linkButtons(items), []models.InlineKeyboardButton{
			{Text: "⬅️ Back", CallbackData: ui.BuildWishlistCallback(ui.WishlistBack)},
		})
		sendWithKeyboard(ctx, b, env.chatID,
			renderWishlist("🎁 Your wishlist:", items),
			ui.WithHomeButton(rows...))

	case ui.WishlistPartner:
		partnerID := service.PartnerID(pair, env.userID)
		items, err := service.WishlistForOwner(pair.ID, partnerID)
		if err != nil {
			logger.Error("failed to load partner wishlist", "user_id", env.userID, "error", err)
			env.answer("Something went wrong")
			return
		}
		env.answer("")
		sendWithKeyboard(ctx, b, env.chatID,
			renderWishlist("🎁 Your partner's wishlist:", items),
			ui.WithHomeButton([]models.InlineKeyboardButton{
				{Text: "⬅️ Back", CallbackData: ui.BuildWishlistCallback(ui.WishlistBack)},
			}))

	case ui.WishlistBack:
		env.answer("")
		sendWishlistMenu(ctx, b, env.chatID)

	case ui.WishlistAdd:
		if err := session.Set(env.tgID, session.ActionWishlistAdd, 0); err != nil {
			logger.Error("failed to set pending action", "telegram_id", env.tgID, "error", err)
			env.answer("Something went wrong")
			return
		}
		env.answer("")
		sendText(ctx, b, env.chatID, "Send the wish as a message, for example: a weekend in the mountains.")

	case ui.WishlistDelete:
		items, err := service.WishlistForOwner(pair.ID, env.userID)
		if err != nil {
			logger.Error("failed to load wishlist", "user_id", env.userID, "error", err)
			env.answer("Something went wrong")
			return
		}
		if len(items) == 0 {
			env.answer("Your wishlist is empty")
			return
		}
		if err := session.Set(env.tgID, session.ActionWishlistDelete, 0); err != nil {
			logger.Error("failed to set pending action", "telegram_id", env.tgID, "error", err)
			env.answer("Something went wrong")
			return
		}
		env.answer("")
		sendText(ctx, b, env.chatID,
			renderWishlist("Send the number of the wish to delete:", items))

	case ui.WishlistLink:
		// The button only shows up under the user's own list, but the
		// item could have been deleted since then.
		items, err := service.WishlistForOwner(pair.ID, env.userID)
		if err != nil {
			logger.Error("failed to load wishlist", "user_id", env.userID, "error", err)
			env.answer("Something went wrong")
			return
		}
		found := false
		for _, item := range items {
			if item.ID == action.ItemID {
				found = true
				break
			}
		}
		if !found {
			env.answer("This wish is gone")
			return
		}
		if err := session.Set(env.tgID, session.ActionWishlistLink, action.ItemID); err != nil {
			logger.Error("failed to set pending action", "telegram_id", env.tgID, "error", err)
			env.answer("Something went wrong")
			return
		}
		env.answer("")
		sendText(ctx, b, env.chatID, "Send the link for this wish.")
	}
}
