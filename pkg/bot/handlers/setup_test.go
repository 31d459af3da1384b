package handlers

import (
	"fmt"
	"testing"

	telegram "github.com/go-telegram/bot"
	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/internal/testutil"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
)

func registerUser(t *testing.T, telegramID int64) uint {
	t.Helper()
	userID, err := service.GetOrCreateUser(service.TelegramProfile{
		TelegramID: telegramID,
		FirstName:  fmt.Sprintf("user%d", telegramID),
	})
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	return userID
}

// pairUsers registers two users and pairs them through the invite flow.
func pairUsers(t *testing.T, creatorTG, partnerTG int64) (uint, uint, *db.Pair) {
	t.Helper()
	creatorID := registerUser(t, creatorTG)
	partnerID := registerUser(t, partnerTG)

	invite, err := service.GetOrCreateInvite(creatorID)
	if err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}
	if _, err := service.RedeemInvite(invite.InviteToken, partnerID); err != nil {
		t.Fatalf("failed to redeem invite: %v", err)
	}

	pair, err := service.FindPairByUser(creatorID)
	if err != nil || pair == nil {
		t.Fatalf("failed to load pair: %v", err)
	}
	return creatorID, partnerID, pair
}

func setupHandlerTest(t *testing.T) (*mockClient, *telegram.Bot) {
	t.Helper()
	testutil.SetupTestDB(t)
	client := newMockClient()
	return client, newTestTelegramBot(t, client)
}
