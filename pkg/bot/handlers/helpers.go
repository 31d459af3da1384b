// Package handlers wires Telegram updates to the pairing, wishlist and
// anniversary operations. Every handler resolves the sender to an
// internal user first and answers on the chat the update came from.
package handlers

import (
	"context"
	"net/url"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
	"github.com/smirnovd/tg-couple-bot/pkg/ui"
)

func profileFromUser(u *models.User) service.TelegramProfile {
	return service.TelegramProfile{
		TelegramID: u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
	}
}

func displayName(u *db.User) string {
	if u == nil {
		return "your partner"
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return "your partner"
}

// validHTTPURL trims the input and reports whether it is an absolute
// http(s) URL users can follow.
func validHTTPURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", false
	}
	if parsed.Host == "" {
		return "", false
	}
	return raw, true
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func sendWithKeyboard(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

// sendHomeScreen renders the main menu for the user, paired or not.
func sendHomeScreen(ctx context.Context, b *bot.Bot, chatID int64, userID uint) {
	pair, err := service.FindPairByUser(userID)
	if err != nil {
		logger.Error("failed to load pair for home screen", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Something went wrong. Please try again later.")
		return
	}

	if pair == nil {
		sendWithKeyboard(ctx, b, chatID,
			"💞 Welcome! This bot keeps track of your life as a couple:\n"+
				"anniversaries, beautiful day counts and a shared wishlist.\n\n"+
				"Start by inviting your partner.",
			ui.MainMenu(false))
		return
	}

	partner, err := service.GetUser(service.PartnerID(pair, userID))
	if err != nil {
		logger.Error("failed to load partner for home screen", "user_id", userID, "error", err)
	}

	var sb strings.Builder
	sb.WriteString("💞 You are paired with " + displayName(partner) + ".")
	if pair.StartDate != nil {
		sb.WriteString("\nTogether since " + pair.StartDate.Format(startDateLayout) + ".")
	} else {
		sb.WriteString("\nSet your anniversary date to unlock the countdown.")
	}
	sendWithKeyboard(ctx, b, chatID, sb.String(), ui.MainMenu(true))
}
