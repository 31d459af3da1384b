package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"gorm.io/gorm"
)

const inviteTokenBytes = 12

// Redemption failure reasons. Conflicts leave no state behind; the caller
// renders a human message per reason.
var (
	ErrInviteNotFound        = errors.New("invite not found")
	ErrSelfPairing           = errors.New("cannot pair with yourself")
	ErrRedeemerAlreadyPaired = errors.New("you already belong to a pair")
	ErrCreatorAlreadyPaired  = errors.New("invite creator already belongs to a pair")
)

func newInviteToken() (string, error) {
	buf := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GetOrCreateInvite returns the live invite for a creator, minting one if
// absent. Idempotent: repeated calls hand back the same token until it is
// redeemed.
func GetOrCreateInvite(creatorUserID uint) (db.PairInvite, error) {
	var invite db.PairInvite
	err := db.DB.Where("creator_user_id = ?", creatorUserID).First(&invite).Error
	if err == nil {
		return invite, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return db.PairInvite{}, err
	}

	token, err := newInviteToken()
	if err != nil {
		return db.PairInvite{}, err
	}
	invite = db.PairInvite{CreatorUserID: creatorUserID, InviteToken: token}
	if err := db.DB.Create(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := db.DB.Where("creator_user_id = ?", creatorUserID).First(&invite).Error; err != nil {
				return db.PairInvite{}, err
			}
			return invite, nil
		}
		return db.PairInvite{}, err
	}
	return invite, nil
}

// RedeemInvite turns an invite token into a pair. The pair insert and the
// invite delete happen in one transaction; when two redemptions race, the
// loser sees the invite already gone and gets ErrInviteNotFound.
func RedeemInvite(token string, redeemerUserID uint) (db.Pair, error) {
	var pair db.Pair
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var invite db.PairInvite
		if err := tx.Where("invite_token = ?", token).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInviteNotFound
			}
			return err
		}

		if invite.CreatorUserID == redeemerUserID {
			return ErrSelfPairing
		}

		existing, err := findPairByUser(tx, redeemerUserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrRedeemerAlreadyPaired
		}

		// A stale invite can outlive a pairing formed through another
		// invite; reject it here instead of creating a second pair.
		existing, err = findPairByUser(tx, invite.CreatorUserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrCreatorAlreadyPaired
		}

		pair = db.Pair{
			CreatorUserID: invite.CreatorUserID,
			PartnerUserID: redeemerUserID,
			InviteToken:   token,
		}
		if err := tx.Create(&pair).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", invite.ID).Delete(&db.PairInvite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInviteNotFound
		}
		return nil
	})
	if err != nil {
		return db.Pair{}, err
	}
	return pair, nil
}
