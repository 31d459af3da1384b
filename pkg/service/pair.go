package service

import (
	"errors"
	"time"

	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"gorm.io/gorm"
)

var ErrPairNotFound = errors.New("pair not found")

func findPairByUser(tx *gorm.DB, userID uint) (*db.Pair, error) {
	var pair db.Pair
	err := tx.Where("creator_user_id = ? OR partner_user_id = ?", userID, userID).First(&pair).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// FindPairByUser looks a user up across both member columns. Returns
// (nil, nil) when the user is not paired.
func FindPairByUser(userID uint) (*db.Pair, error) {
	return findPairByUser(db.DB, userID)
}

// GetPair loads a pair by id, (nil, nil) when absent.
func GetPair(pairID uint) (*db.Pair, error) {
	var pair db.Pair
	err := db.DB.First(&pair, pairID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// PartnerID returns the other member of the pair.
func PartnerID(pair *db.Pair, userID uint) uint {
	if pair.CreatorUserID == userID {
		return pair.PartnerUserID
	}
	return pair.CreatorUserID
}

// SetStartDate stores the relationship start date. Future dates are
// accepted; the stats screen flags them instead of rejecting.
func SetStartDate(pairID uint, startDate time.Time) error {
	res := db.DB.Model(&db.Pair{}).Where("id = ?", pairID).Update("start_date", startDate)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPairNotFound
	}
	return nil
}

// SetCloudURL stores or clears the shared drive link.
func SetCloudURL(pairID uint, url *string) error {
	res := db.DB.Model(&db.Pair{}).Where("id = ?", pairID).Update("cloud_drive_url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPairNotFound
	}
	return nil
}

// DeletePair removes the pair together with its wishlist items and
// notification log rows. Member notification is the caller's concern.
func DeletePair(pairID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pair_id = ?", pairID).Delete(&db.WishlistItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("pair_id = ?", pairID).Delete(&db.NotificationLogEntry{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", pairID).Delete(&db.Pair{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrPairNotFound
		}
		return nil
	})
}

// PairTelegramIDs resolves the Telegram chat ids of both members.
func PairTelegramIDs(pair *db.Pair) ([]int64, error) {
	var ids []int64
	for _, userID := range []uint{pair.CreatorUserID, pair.PartnerUserID} {
		if userID == 0 {
			continue
		}
		user, err := GetUser(userID)
		if err != nil {
			return nil, err
		}
		if user != nil && user.TelegramID != 0 {
			ids = append(ids, user.TelegramID)
		}
	}
	return ids, nil
}
