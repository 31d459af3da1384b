package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot"
	"github.com/smirnovd/tg-couple-bot/pkg/bot/handlers"
	"github.com/smirnovd/tg-couple-bot/pkg/bot/session"
	"github.com/smirnovd/tg-couple-bot/pkg/config"
	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/notifier"
	"github.com/smirnovd/tg-couple-bot/pkg/ui"
	"github.com/smirnovd/tg-couple-bot/pkg/web"
)

type botSender struct {
	b *bot.Bot
}

func (s botSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := s.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []bot.Option{
		bot.WithDefaultHandler(handlers.HandleDefault),
	}
	b, err := bot.New(config.AppConfig.Telegram.Token, opts...)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, handlers.HandleStart)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.MenuCallbackPrefix, bot.MatchTypePrefix, handlers.HandleMenuCallback)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.WishlistCallbackPrefix, bot.MatchTypePrefix, handlers.HandleWishlistCallback)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.DeletePairCallbackPrefix, bot.MatchTypePrefix, handlers.HandleDeletePairCallback)

	interval := notifier.DefaultInterval
	if config.AppConfig.Notifier.IntervalMinutes > 0 {
		interval = time.Duration(config.AppConfig.Notifier.IntervalMinutes) * time.Minute
	}
	go notifier.StartPeriodicNotifications(ctx, botSender{b: b}, interval)
	go session.StartCleanup(ctx, session.CleanupInterval)

	if config.AppConfig.Webapp.Listen != "" {
		go web.Serve(ctx, web.NewServer(), config.AppConfig.Webapp.Listen)
	}

	logger.Info("Starting bot...")
	b.Start(ctx)
}
