// pkg/db/models.go
package db

import (
	"time"

	"gorm.io/datatypes"
)

// User is created on first contact with the bot or webapp and never
// deleted. TelegramID is the external identity.
type User struct {
	ID         uint   `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex;not null"`
	Username   string `gorm:"default:''"`
	FirstName  string `gorm:"default:''"`
	LastName   string `gorm:"default:''"`
	CreatedAt  time.Time
}

// PairInvite is a single-use pairing offer. One live invite per creator;
// the row is deleted in the same transaction that creates the pair.
type PairInvite struct {
	ID            uint   `gorm:"primaryKey"`
	CreatorUserID uint   `gorm:"uniqueIndex;not null"`
	InviteToken   string `gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time
}

// Pair is the exclusive two-member relationship unit. A user id may
// appear in at most one pair across both member columns; the redeem
// transaction enforces this.
type Pair struct {
	ID            uint       `gorm:"primaryKey"`
	CreatorUserID uint       `gorm:"index;not null"`
	PartnerUserID uint       `gorm:"index;not null"`
	StartDate     *time.Time `gorm:"type:date"`
	CloudDriveURL *string
	InviteToken   string // source invite, kept for audit
	CreatedAt     time.Time
}

type WishlistItem struct {
	ID          uint   `gorm:"primaryKey"`
	PairID      uint   `gorm:"index;not null"`
	OwnerUserID uint   `gorm:"index;not null"`
	Title       string `gorm:"not null"`
	Description *string
	URL         *string
	IsDone      bool `gorm:"not null;default:false"`
	CreatedAt   time.Time
}

// NotificationLogEntry makes milestone delivery idempotent: the
// (pair_id, notif_type, event_key) tuple is unique, so a concurrent or
// repeated notifier pass cannot record the same event twice.
type NotificationLogEntry struct {
	ID        uint           `gorm:"primaryKey"`
	PairID    uint           `gorm:"index;uniqueIndex:idx_notification_dedup;not null"`
	NotifType string         `gorm:"uniqueIndex:idx_notification_dedup;not null"`
	EventKey  string         `gorm:"uniqueIndex:idx_notification_dedup;not null"`
	Payload   datatypes.JSON `gorm:"not null"`
	SentAt    time.Time      `gorm:"not null"`
}

// PendingAction holds what the bot currently expects a user to type
// (a wish title, a date, a link). Expired rows are swept periodically.
type PendingAction struct {
	ID             uint      `gorm:"primaryKey"`
	UserTelegramID int64     `gorm:"uniqueIndex;not null"`
	Action         string    `gorm:"not null"`
	TargetItemID   uint      `gorm:"not null;default:0"`
	ExpiresAt      time.Time `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
