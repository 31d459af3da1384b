package ui

import (
	"net/url"

	"github.com/go-telegram/bot/models"
)

func homeButtonRow() []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{
		{Text: "🏠 Main menu", CallbackData: BuildMenuCallback(MenuHome)},
	}
}

// WithHomeButton appends the main-menu row below the given rows.
func WithHomeButton(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: append(rows, homeButtonRow()),
	}
}

// MainMenu is the keyboard under the home screen. An unpaired user only
// sees the add-partner entry.
func MainMenu(paired bool) *models.InlineKeyboardMarkup {
	if !paired {
		return WithHomeButton(
			[]models.InlineKeyboardButton{
				{Text: "➕ Add partner", CallbackData: BuildMenuCallback(MenuInvite)},
			},
		)
	}
	return WithHomeButton(
		[]models.InlineKeyboardButton{
			{Text: "🎁 Wishlist", CallbackData: BuildMenuCallback(MenuWishlist)},
		},
		[]models.InlineKeyboardButton{
			{Text: "📁 Shared drive", CallbackData: BuildMenuCallback(MenuCloud)},
		},
		[]models.InlineKeyboardButton{
			{Text: "❤️ Anniversary ❤️", CallbackData: BuildMenuCallback(MenuStartDate)},
		},
		[]models.InlineKeyboardButton{
			{Text: "Delete pair ❌", CallbackData: BuildMenuCallback(MenuDeletePair)},
		},
	)
}

// InviteDeepLink builds the t.me link the creator forwards to a partner.
func InviteDeepLink(botUsername, token string) string {
	return "https://t.me/" + botUsername + "?start=" + url.QueryEscape("inv_"+token)
}
