package ui

import (
	"strings"
	"testing"
)

func TestMenuCallbackRoundTrip(t *testing.T) {
	screens := []MenuScreen{
		MenuHome, MenuInvite, MenuWishlist, MenuCloud, MenuCloudSet,
		MenuStartDate, MenuStartDateSet, MenuDeletePair,
	}
	for _, screen := range screens {
		data := BuildMenuCallback(screen)
		if len(data) > MaxCallbackDataLen {
			t.Fatalf("callback data for %q exceeds limit: %q", screen, data)
		}
		got, err := ParseMenuCallback(data)
		if err != nil {
			t.Fatalf("ParseMenuCallback(%q) failed: %v", data, err)
		}
		if got != screen {
			t.Fatalf("expected screen %q, got %q", screen, got)
		}
	}
}

func TestParseMenuCallbackRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "m:", "m:nope", "w:my", "home"} {
		if _, err := ParseMenuCallback(data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
	if _, err := ParseMenuCallback("m:" + strings.Repeat("x", MaxCallbackDataLen)); err != errCallbackDataTooLong {
		t.Fatalf("expected errCallbackDataTooLong, got %v", err)
	}
}

func TestWishlistCallbackRoundTrip(t *testing.T) {
	for _, op := range []WishlistOp{WishlistMy, WishlistPartner, WishlistBack, WishlistAdd, WishlistDelete} {
		action, err := ParseWishlistCallback(BuildWishlistCallback(op))
		if err != nil {
			t.Fatalf("ParseWishlistCallback for %q failed: %v", op, err)
		}
		if action.Op != op || action.ItemID != 0 {
			t.Fatalf("expected op %q without item id, got %+v", op, action)
		}
	}

	action, err := ParseWishlistCallback(BuildWishlistLinkCallback(42))
	if err != nil {
		t.Fatalf("ParseWishlistCallback for link failed: %v", err)
	}
	if action.Op != WishlistLink || action.ItemID != 42 {
		t.Fatalf("expected link action for item 42, got %+v", action)
	}
}

func TestParseWishlistCallbackRejectsGarbage(t *testing.T) {
	cases := []string{
		"", "w:", "w:unknown", "w:my:1", "w:link", "w:link:", "w:link:0",
		"w:link:abc", "w:link:1:2", "m:home",
	}
	for _, data := range cases {
		if _, err := ParseWishlistCallback(data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestDeletePairCallbackRoundTrip(t *testing.T) {
	confirmed, pairID, err := ParseDeletePairCallback(BuildDeletePairConfirmCallback(7))
	if err != nil {
		t.Fatalf("confirm parse failed: %v", err)
	}
	if !confirmed || pairID != 7 {
		t.Fatalf("expected confirmed pair 7, got confirmed=%v pairID=%d", confirmed, pairID)
	}

	confirmed, _, err = ParseDeletePairCallback(BuildDeletePairCancelCallback())
	if err != nil {
		t.Fatalf("cancel parse failed: %v", err)
	}
	if confirmed {
		t.Fatalf("expected cancel to be unconfirmed")
	}
}

func TestParseDeletePairCallbackRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "d:", "d:yes", "d:yes:", "d:yes:0", "d:yes:x", "d:maybe", "w:my"} {
		if _, _, err := ParseDeletePairCallback(data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}
