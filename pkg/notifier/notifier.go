// Package notifier is the periodic milestone pass: it derives due events
// for every pair with a start date, delivers them to both members and
// records each delivery in the dedup log exactly once.
package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
)

const DefaultInterval = time.Hour

// Sender is the delivery primitive; best-effort, no ordering guarantee.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// StartPeriodicNotifications runs the milestone pass on a ticker until
// the context is canceled. The dedup log makes the pass idempotent, so
// the interval may be much shorter than a day.
func StartPeriodicNotifications(ctx context.Context, s Sender, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if err := RunOnce(ctx, s, now.UTC()); err != nil {
				logger.Error("notification pass failed", "error", err)
			}
		}
	}
}

// RunOnce executes a single pass for the given reference time. A failure
// on one pair is logged and does not abort the others.
func RunOnce(ctx context.Context, s Sender, now time.Time) error {
	var pairs []db.Pair
	if err := db.DB.Where("start_date IS NOT NULL").Find(&pairs).Error; err != nil {
		logger.Error("failed to fetch pairs for notifications", "error", err)
		return err
	}

	today := milestone.Normalize(now)
	for _, pair := range pairs {
		if err := processPair(ctx, s, pair, today); err != nil {
			logger.Error("failed to process pair", "pair_id", pair.ID, "error", err)
		}
	}
	return nil
}

func processPair(ctx context.Context, s Sender, pair db.Pair, today time.Time) error {
	if pair.StartDate == nil {
		return nil
	}
	events := milestone.DueEvents(*pair.StartDate, today)
	if len(events) == 0 {
		return nil
	}

	recipients, err := service.PairTelegramIDs(&pair)
	if err != nil {
		return err
	}

	for _, event := range events {
		sent, err := AlreadySent(pair.ID, event.Kind, event.Key)
		if err != nil {
			return err
		}
		if sent {
			continue
		}

		// Deliver first, record after: a failed delivery leaves the
		// event unrecorded so the next pass retries it.
		if err := deliver(ctx, s, recipients, BuildEventMessage(event)); err != nil {
			logger.Error("delivery failed, event left for retry",
				"pair_id", pair.ID, "kind", event.Kind, "key", event.Key, "error", err)
			continue
		}
		if _, err := Record(pair.ID, event, time.Now().UTC()); err != nil {
			return err
		}
	}
	return nil
}

func deliver(ctx context.Context, s Sender, recipients []int64, text string) error {
	var errs []error
	for _, chatID := range recipients {
		if err := s.SendMessage(ctx, chatID, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
