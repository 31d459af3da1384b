package service

import (
	"errors"

	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"gorm.io/gorm"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

// AddWishlistItem creates a wish owned by one member of the pair.
func AddWishlistItem(pairID, ownerUserID uint, title string, description *string) (db.WishlistItem, error) {
	item := db.WishlistItem{
		PairID:      pairID,
		OwnerUserID: ownerUserID,
		Title:       title,
		Description: description,
	}
	if err := db.DB.Create(&item).Error; err != nil {
		return db.WishlistItem{}, err
	}
	return item, nil
}

// WishlistForOwner lists one member's wishes in creation order.
func WishlistForOwner(pairID, ownerUserID uint) ([]db.WishlistItem, error) {
	var items []db.WishlistItem
	err := db.DB.
		Where("pair_id = ? AND owner_user_id = ?", pairID, ownerUserID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// WishlistForPair lists both members' wishes in creation order.
func WishlistForPair(pairID uint) ([]db.WishlistItem, error) {
	var items []db.WishlistItem
	err := db.DB.
		Where("pair_id = ?", pairID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteWishlistItem removes one wish, scoped to its pair.
func DeleteWishlistItem(pairID, itemID uint) error {
	res := db.DB.Where("pair_id = ? AND id = ?", pairID, itemID).Delete(&db.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

// SetWishlistItemURL attaches a product link to a wish.
func SetWishlistItemURL(pairID, itemID uint, url string) error {
	res := db.DB.Model(&db.WishlistItem{}).
		Where("pair_id = ? AND id = ?", pairID, itemID).
		Update("url", url)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWishlistItemNotFound
	}
	return nil
}

// ToggleWishlistItemDone flips the done flag and reports the new value.
func ToggleWishlistItemDone(pairID, itemID uint) (bool, error) {
	var item db.WishlistItem
	err := db.DB.Where("pair_id = ? AND id = ?", pairID, itemID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, ErrWishlistItemNotFound
	}
	if err != nil {
		return false, err
	}
	item.IsDone = !item.IsDone
	if err := db.DB.Model(&db.WishlistItem{}).Where("id = ?", item.ID).Update("is_done", item.IsDone).Error; err != nil {
		return false, err
	}
	return item.IsDone, nil
}

// ClearWishlist deletes all wishes one member owns within the pair.
func ClearWishlist(pairID, ownerUserID uint) error {
	return db.DB.Where("pair_id = ? AND owner_user_id = ?", pairID, ownerUserID).
		Delete(&db.WishlistItem{}).Error
}
