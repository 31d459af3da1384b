// Package service holds the storage-backed operations shared by the bot
// and the webapp: users, invites, pairs and wishlists.
package service

import (
	"errors"

	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"gorm.io/gorm"
)

// TelegramProfile is the slice of a Telegram user the registry persists.
type TelegramProfile struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
}

// GetOrCreateUser resolves a Telegram identity to the internal user id,
// inserting a row on first contact. Safe under concurrent calls for the
// same Telegram id: a duplicate-key insert falls back to a re-read.
func GetOrCreateUser(profile TelegramProfile) (uint, error) {
	var user db.User
	err := db.DB.Where("telegram_id = ?", profile.TelegramID).First(&user).Error
	if err == nil {
		return user.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	user = db.User{
		TelegramID: profile.TelegramID,
		Username:   profile.Username,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.DB.Where("telegram_id = ?", profile.TelegramID).First(&user).Error; err != nil {
				return 0, err
			}
			return user.ID, nil
		}
		return 0, err
	}
	return user.ID, nil
}

// GetUser loads a user row by internal id.
func GetUser(userID uint) (*db.User, error) {
	var user db.User
	err := db.DB.First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
