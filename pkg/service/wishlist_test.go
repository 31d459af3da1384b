package service

import (
	"errors"
	"testing"

	"github.com/smirnovd/tg-couple-bot/pkg/internal/testutil"
)

func TestWishlistAddAndListPerOwner(t *testing.T) {
	testutil.SetupTestDB(t)
	pair, creator, partner := createPair(t, 1, 2)

	if _, err := AddWishlistItem(pair.ID, creator, "new plaid", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	desc := "the blue one"
	if _, err := AddWishlistItem(pair.ID, creator, "mug", &desc); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := AddWishlistItem(pair.ID, partner, "book", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	mine, err := WishlistForOwner(pair.ID, creator)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 2 || mine[0].Title != "new plaid" || mine[1].Title != "mug" {
		t.Fatalf("unexpected owner list: %+v", mine)
	}

	all, err := WishlistForPair(pair.ID)
	if err != nil {
		t.Fatalf("pair list failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items for the pair, got %d", len(all))
	}
}

func TestWishlistDeleteIsPairScoped(t *testing.T) {
	testutil.SetupTestDB(t)
	pair, creator, _ := createPair(t, 1, 2)
	otherPair, otherOwner, _ := createPair(t, 3, 4)

	item, err := AddWishlistItem(pair.ID, creator, "plaid", nil)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := AddWishlistItem(otherPair.ID, otherOwner, "kettle", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := DeleteWishlistItem(otherPair.ID, item.ID); !errors.Is(err, ErrWishlistItemNotFound) {
		t.Fatalf("expected cross-pair delete to fail, got %v", err)
	}
	if err := DeleteWishlistItem(pair.ID, item.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	mine, err := WishlistForOwner(pair.ID, creator)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 0 {
		t.Fatalf("expected empty list after delete, got %+v", mine)
	}
}

func TestWishlistSetURLAndToggleDone(t *testing.T) {
	testutil.SetupTestDB(t)
	pair, creator, _ := createPair(t, 1, 2)

	item, err := AddWishlistItem(pair.ID, creator, "plaid", nil)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := SetWishlistItemURL(pair.ID, item.ID, "https://shop.example.com/plaid"); err != nil {
		t.Fatalf("set url failed: %v", err)
	}

	done, err := ToggleWishlistItemDone(pair.ID, item.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !done {
		t.Fatalf("expected item to become done")
	}
	done, err = ToggleWishlistItemDone(pair.ID, item.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if done {
		t.Fatalf("expected item to become undone")
	}

	items, err := WishlistForOwner(pair.ID, creator)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if items[0].URL == nil || *items[0].URL != "https://shop.example.com/plaid" {
		t.Fatalf("unexpected url: %v", items[0].URL)
	}
}

func TestClearWishlistOnlyTouchesOwner(t *testing.T) {
	testutil.SetupTestDB(t)
	pair, creator, partner := createPair(t, 1, 2)

	if _, err := AddWishlistItem(pair.ID, creator, "plaid", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := AddWishlistItem(pair.ID, partner, "book", nil); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if err := ClearWishlist(pair.ID, creator); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	all, err := WishlistForPair(pair.ID)
	if err != nil {
		t.Fatalf("pair list failed: %v", err)
	}
	if len(all) != 1 || all[0].OwnerUserID != partner {
		t.Fatalf("expected only partner items to remain, got %+v", all)
	}
}
