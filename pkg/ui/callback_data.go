package ui

import (
	"errors"
	"strconv"
	"strings"
)

const (
	MenuCallbackPrefix       = "m:"
	WishlistCallbackPrefix   = "w:"
	DeletePairCallbackPrefix = "d:"
	MaxCallbackDataLen       = 64
)

type MenuScreen string

const (
	MenuHome         MenuScreen = "home"
	MenuInvite       MenuScreen = "invite"
	MenuWishlist     MenuScreen = "wishlist"
	MenuCloud        MenuScreen = "cloud"
	MenuCloudSet     MenuScreen = "cloudset"
	MenuStartDate    MenuScreen = "date"
	MenuStartDateSet MenuScreen = "dateset"
	MenuDeletePair   MenuScreen = "delete"
)

type WishlistOp string

const (
	WishlistMy      WishlistOp = "my"
	WishlistPartner WishlistOp = "partner"
	WishlistBack    WishlistOp = "back"
	WishlistAdd     WishlistOp = "add"
	WishlistDelete  WishlistOp = "del"
	WishlistLink    WishlistOp = "link"
)

type WishlistAction struct {
	Op     WishlistOp
	ItemID uint
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidValue        = errors.New("invalid callback value")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildMenuCallback(screen MenuScreen) string {
	return MenuCallbackPrefix + string(screen)
}

func ParseMenuCallback(data string) (MenuScreen, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	value, ok := strings.CutPrefix(data, MenuCallbackPrefix)
	if !ok {
		return "", errInvalidPrefix
	}
	switch screen := MenuScreen(value); screen {
	case MenuHome, MenuInvite, MenuWishlist, MenuCloud, MenuCloudSet,
		MenuStartDate, MenuStartDateSet, MenuDeletePair:
		return screen, nil
	default:
		return "", errInvalidAction
	}
}

func BuildWishlistCallback(op WishlistOp) string {
	return WishlistCallbackPrefix + string(op)
}

func BuildWishlistLinkCallback(itemID uint) string {
	return WishlistCallbackPrefix + string(WishlistLink) + ":" + strconv.FormatUint(uint64(itemID), 10)
}

func ParseWishlistCallback(data string) (WishlistAction, error) {
	if data == "" {
		return WishlistAction{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return WishlistAction{}, errCallbackDataTooLong
	}
	value, ok := strings.CutPrefix(data, WishlistCallbackPrefix)
	if !ok {
		return WishlistAction{}, errInvalidPrefix
	}

	parts := strings.Split(value, ":")
	switch op := WishlistOp(parts[0]); op {
	case WishlistMy, WishlistPartner, WishlistBack, WishlistAdd, WishlistDelete:
		if len(parts) != 1 {
			return WishlistAction{}, errInvalidAction
		}
		return WishlistAction{Op: op}, nil
	case WishlistLink:
		if len(parts) != 2 {
			return WishlistAction{}, errInvalidAction
		}
		itemID, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil || itemID == 0 {
			return WishlistAction{}, errInvalidValue
		}
		return WishlistAction{Op: op, ItemID: uint(itemID)}, nil
	default:
		return WishlistAction{}, errInvalidAction
	}
}

func BuildDeletePairConfirmCallback(pairID uint) string {
	return DeletePairCallbackPrefix + "yes:" + strconv.FormatUint(uint64(pairID), 10)
}

func BuildDeletePairCancelCallback() string {
	return DeletePairCallbackPrefix + "no"
}

// ParseDeletePairCallback returns (confirmed, pairID). pairID is only
// meaningful when confirmed.
func ParseDeletePairCallback(data string) (bool, uint, error) {
	if data == "" {
		return false, 0, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return false, 0, errCallbackDataTooLong
	}
	value, ok := strings.CutPrefix(data, DeletePairCallbackPrefix)
	if !ok {
		return false, 0, errInvalidPrefix
	}
	if value == "no" {
		return false, 0, nil
	}
	pairIDStr, ok := strings.CutPrefix(value, "yes:")
	if !ok {
		return false, 0, errInvalidAction
	}
	pairID, err := strconv.ParseUint(pairIDStr, 10, 32)
	if err != nil || pairID == 0 {
		return false, 0, errInvalidValue
	}
	return true, uint(pairID), nil
}
