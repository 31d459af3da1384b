// Package session persists what the bot currently expects a user to
// type: a wish title, a date, a link. One pending action per user,
// expired rows are swept periodically.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"gorm.io/gorm"
)

const (
	ActionWishlistAdd    = "wishlist_add"
	ActionWishlistDelete = "wishlist_delete"
	ActionWishlistLink   = "wishlist_link"
	ActionCloudSet       = "cloud_set"
	ActionStartDateSet   = "startdate_set"
)

const (
	DefaultTTL      = 24 * time.Hour
	CleanupInterval = time.Hour
)

// Set stores or replaces the pending action for a user and refreshes
// its expiry.
func Set(userTelegramID int64, action string, targetItemID uint) error {
	pending := db.PendingAction{
		UserTelegramID: userTelegramID,
		Action:         action,
		TargetItemID:   targetItemID,
		ExpiresAt:      time.Now().UTC().Add(DefaultTTL),
	}
	return db.DB.
		Where("user_telegram_id = ?", userTelegramID).
		Assign(pending).
		FirstOrCreate(&pending).Error
}

// Get returns the live pending action for a user, or nil when there is
// none or it has expired.
func Get(userTelegramID int64) (*db.PendingAction, error) {
	var pending db.PendingAction
	err := db.DB.Where("user_telegram_id = ?", userTelegramID).First(&pending).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !pending.ExpiresAt.After(time.Now().UTC()) {
		if err := Clear(userTelegramID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &pending, nil
}

// Clear drops the pending action for a user, if any.
func Clear(userTelegramID int64) error {
	return db.DB.Where("user_telegram_id = ?", userTelegramID).Delete(&db.PendingAction{}).Error
}

// CleanupExpired removes all actions whose expiry has passed.
func CleanupExpired(now time.Time) (int64, error) {
	if db.DB == nil {
		return 0, nil
	}
	res := db.DB.Where("expires_at <= ?", now).Delete(&db.PendingAction{})
	return res.RowsAffected, res.Error
}

// StartCleanup sweeps expired actions on a ticker until the context is
// canceled.
func StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = CleanupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := CleanupExpired(time.Now().UTC()); err != nil {
				logger.Error("failed to cleanup expired pending actions", "error", err)
			}
		}
	}
}
