package notifier

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AlreadySent reports whether the (pair, kind, key) tuple is in the log.
func AlreadySent(pairID uint, kind milestone.EventKind, key int) (bool, error) {
	var count int64
	err := db.DB.Model(&db.NotificationLogEntry{}).
		Where("pair_id = ? AND notif_type = ? AND event_key = ?", pairID, string(kind), strconv.Itoa(key)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Record appends the delivered event to the log. The insert is atomic:
// a duplicate-key violation means a concurrent pass already recorded the
// event, which is reported as recorded=false, not as an error.
func Record(pairID uint, event milestone.Event, sentAt time.Time) (bool, error) {
	payload, err := eventPayload(event)
	if err != nil {
		return false, err
	}
	entry := db.NotificationLogEntry{
		PairID:    pairID,
		NotifType: string(event.Kind),
		EventKey:  strconv.Itoa(event.Key),
		Payload:   payload,
		SentAt:    sentAt,
	}
	if err := db.DB.Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func eventPayload(event milestone.Event) (datatypes.JSON, error) {
	var payload map[string]int
	if event.Kind == milestone.EventBeautifulDay {
		payload = map[string]int{"days": event.Key}
	} else {
		payload = map[string]int{"year": event.Key}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
