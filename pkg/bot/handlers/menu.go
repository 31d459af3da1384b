package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smirnovd/tg-couple-bot/pkg/bot/session"
	"github.com/smirnovd/tg-couple-bot/pkg/config"
	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
	"github.com/smirnovd/tg-couple-bot/pkg/ui"
)

type callbackEnv struct {
	userID uint
	tgID   int64
	chatID int64
	answer func(text string)
}

// resolveCallback validates a callback update, registers the sender and
// returns an answer closure that fires at most once.
func resolveCallback(ctx context.Context, b *bot.Bot, update *models.Update) (callbackEnv, bool) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid callback update")
		return callbackEnv{}, false
	}

	callbackID := update.CallbackQuery.ID
	answered := false
	answer := func(text string) {
		if answered || callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer callback query", "error", err)
		}
		answered = true
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		logger.Error("callback query message is inaccessible", "user_id", update.CallbackQuery.From.ID)
		answer("Message is not available")
		return callbackEnv{}, false
	}

	userID, err := service.GetOrCreateUser(profileFromUser(&update.CallbackQuery.From))
	if err != nil {
		logger.Error("failed to register user", "telegram_id", update.CallbackQuery.From.ID, "error", err)
		answer("Something went wrong")
		return callbackEnv{}, false
	}

	return callbackEnv{
		userID: userID,
		tgID:   update.CallbackQuery.From.ID,
		chatID: message.Message.Chat.ID,
		answer: answer,
	}, true
}

// requirePair answers the callback itself when the user has no pair.
func requirePair(env callbackEnv) (*db.Pair, bool) {
	pair, err := service.FindPairByUser(env.userID)
	if err != nil {
		logger.Error("failed to load pair", "user_id", env.userID, "error", err)
		env.answer("Something went wrong")
		return nil, false
	}
	if pair == nil {
		env.answer("You need a partner first")
		return nil, false
	}
	return pair, true
}

func HandleMenuCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	env, ok := resolveCallback(ctx, b, update)
	if !ok {
		return
	}

	screen, err := ui.ParseMenuCallback(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse menu callback", "data", update.CallbackQuery.Data, "error", err)
		env.answer("Unknown command")
		return
	}

	switch screen {
	case ui.MenuHome:
		if err := session.Clear(env.tgID); err != nil {
			logger.Error("failed to clear pending action", "telegram_id", env.tgID, "error", err)
		}
		env.answer("")
		sendHomeScreen(ctx, b, env.chatID, env.userID)

	case ui.MenuInvite:
		showInvite(ctx, b, env)

	case ui.MenuWishlist:
		if _, ok := requirePair(env); !ok {
			return
		}
		env.answer("")
		sendWishlistMenu(ctx, b, env.chatID)

	case ui.MenuCloud:
		showCloud(ctx, b, env)

	case ui.MenuCloudSet:
		if _, ok := requirePair(env); !ok {
			return
		}
		if err := session.Set(env.tgID, session.ActionCloudSet, 0); err != nil {
			logger.Error("failed to set pending action", "telegram_id", env.tgID, "error", err)
			env.answer("Something went wrong")
			return
		}
		env.answer("")
		sendText(ctx, b, env.chatID, "Send the link to your shared drive.\nSend a single dash (-) to remove the current one.")

	case ui.MenuStartDate:
		showStartDate(ctx, b, env)

	case ui.MenuStartDateSet:
		if _, ok := requirePair(env); !ok {
			return
		}
		if err := session.Set(env.tgID, session.ActionStartDateSet, 0); err != nil {
			logger.Error("failed to set pending action", "telegram_id", env.tgID, "error", err)
			env.answer("Something went wrong")
			return
		}
		env.answer("")
		sendText(ctx, b, env.chatID, "Send the date your relationship started as DD.MM.YYYY, for example 14.02.2024.")

	case ui.MenuDeletePair:
		pair, ok := requirePair(env)
		if !ok {
			return
		}
		env.answer("")
		sendWithKeyboard(ctx, b, env.chatID,
			"⚠️ Delete your pair? The wishlist and anniversary history go with it.",
			ui.WithHomeButton([]models.InlineKeyboardButton{
				{Text: "Yes, delete", CallbackData: ui.BuildDeletePairConfirmCallback(pair.ID)},
				{Text: "No, keep it", CallbackData: ui.BuildDeletePairCancelCallback()},
			}))
	}
}

func showInvite(ctx context.Context, b *bot.Bot, env callbackEnv) {
	pair, err := service.FindPairByUser(env.userID)
	if err != nil {
		logger.Error("failed to load pair", "user_id", env.userID, "error", err)
		env.answer("Something went wrong")
		return
	}
	if pair != nil {
		env.answer("You already have a partner")
		return
	}

	invite, err := service.GetOrCreateInvite(env.userID)
	if err != nil {
		logger.Error("failed to create invite", "user_id", env.userID, "error", err)
		env.answer("Something went wrong")
		return
	}

	link := ui.InviteDeepLink(config.AppConfig.Telegram.BotUsername, invite.InviteToken)
	env.answer("")
	sendWithKeyboard(ctx, b, env.chatID,
		"💌 Forward this link to your partner:\n"+link+"\n\n"+
			"The link works once. As soon as your partner opens it, you become a pair.",
		ui.WithHomeButton())
}

func showCloud(ctx context.Context, b *bot.Bot, env callbackEnv) {
	pair, ok := requirePair(env)
	if !ok {
		return
	}
	env.answer("")

	text := "📁 No shared drive link yet."
	if pair.CloudDriveURL != nil {
		text = "📁 Your shared drive:\n" + *pair.CloudDriveURL
	}
	sendWithKeyboard(ctx, b, env.chatID, text,
		ui.WithHomeButton([]models.InlineKeyboardButton{
			{Text: "Set link", CallbackData: ui.BuildMenuCallback(ui.MenuCloudSet)},
		}))
}

func showStartDate(ctx context.Context, b *bot.Bot, env callbackEnv) {
	pair, ok := requirePair(env)
	if !ok {
		return
	}
	env.answer("")

	if pair.StartDate == nil {
		sendWithKeyboard(ctx, b, env.chatID,
			"❤️ No anniversary date yet. Set it to see your day count and get reminders.",
			ui.WithHomeButton([]models.InlineKeyboardButton{
				{Text: "Set date", CallbackData: ui.BuildMenuCallback(ui.MenuStartDateSet)},
			}))
		return
	}

	stats := milestone.CalcStats(*pair.StartDate, time.Now())
	sendWithKeyboard(ctx, b, env.chatID, ui.RenderStats(stats),
		ui.WithHomeButton([]models.InlineKeyboardButton{
			{Text: "Change date", CallbackData: ui.BuildMenuCallback(ui.MenuStartDateSet)},
		}))
}
