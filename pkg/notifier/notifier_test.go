package notifier

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smirnovd/tg-couple-bot/pkg/internal/testutil"
	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeSender struct {
	sent    []sentMessage
	failFor map[int64]bool
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	if f.failFor[chatID] {
		return errors.New("send failed")
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

func setupPairWithStartDate(t *testing.T, creatorTG, partnerTG int64, start time.Time) uint {
	t.Helper()
	creator, err := service.GetOrCreateUser(service.TelegramProfile{TelegramID: creatorTG})
	if err != nil {
		t.Fatalf("failed to create creator: %v", err)
	}
	partner, err := service.GetOrCreateUser(service.TelegramProfile{TelegramID: partnerTG})
	if err != nil {
		t.Fatalf("failed to create partner: %v", err)
	}
	invite, err := service.GetOrCreateInvite(creator)
	if err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}
	pair, err := service.RedeemInvite(invite.InviteToken, partner)
	if err != nil {
		t.Fatalf("failed to redeem invite: %v", err)
	}
	if err := service.SetStartDate(pair.ID, start); err != nil {
		t.Fatalf("failed to set start date: %v", err)
	}
	return pair.ID
}

func TestRunOnceDeliversBeautifulDayToBothMembers(t *testing.T) {
	testutil.SetupTestDB(t)

	start := milestone.Date(2024, time.January, 1)
	setupPairWithStartDate(t, 10, 20, start)

	sender := &fakeSender{}
	today := milestone.Date(2024, time.April, 10) // 100 days together
	if err := RunOnce(context.Background(), sender, today); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected delivery to both members, got %d messages", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if !strings.Contains(msg.text, "100 days") {
			t.Fatalf("unexpected message text: %q", msg.text)
		}
	}
	if sender.sent[0].chatID == sender.sent[1].chatID {
		t.Fatalf("expected two distinct recipients, got %v", sender.sent)
	}
}

func TestRunOnceIsIdempotentWithinADay(t *testing.T) {
	testutil.SetupTestDB(t)

	start := milestone.Date(2024, time.January, 1)
	setupPairWithStartDate(t, 10, 20, start)

	sender := &fakeSender{}
	today := milestone.Date(2024, time.April, 10)
	if err := RunOnce(context.Background(), sender, today); err != nil {
		t.Fatalf("first pass failed: %v", err)
	}
	if err := RunOnce(context.Background(), sender, today); err != nil {
		t.Fatalf("second pass failed: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected no re-delivery on the second pass, got %d messages", len(sender.sent))
	}
}

func TestRunOnceRetriesAfterDeliveryFailure(t *testing.T) {
	testutil.SetupTestDB(t)

	start := milestone.Date(2024, time.January, 1)
	setupPairWithStartDate(t, 10, 20, start)

	today := milestone.Date(2024, time.April, 10)
	failing := &fakeSender{failFor: map[int64]bool{10: true, 20: true}}
	if err := RunOnce(context.Background(), failing, today); err != nil {
		t.Fatalf("pass with failing sender returned error: %v", err)
	}
	if len(failing.sent) != 0 {
		t.Fatalf("expected no successful delivery, got %v", failing.sent)
	}

	// The event must not have been recorded, so a later pass delivers it.
	working := &fakeSender{}
	if err := RunOnce(context.Background(), working, today); err != nil {
		t.Fatalf("retry pass failed: %v", err)
	}
	if len(working.sent) != 2 {
		t.Fatalf("expected retry delivery to both members, got %d", len(working.sent))
	}
}

func TestRunOnceIsolatesPairFailures(t *testing.T) {
	testutil.SetupTestDB(t)

	start := milestone.Date(2024, time.January, 1)
	setupPairWithStartDate(t, 10, 20, start)
	setupPairWithStartDate(t, 30, 40, start)

	sender := &fakeSender{failFor: map[int64]bool{10: true, 20: true}}
	today := milestone.Date(2024, time.April, 10)
	if err := RunOnce(context.Background(), sender, today); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Fatalf("expected the healthy pair to be served, got %d messages", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if msg.chatID != 30 && msg.chatID != 40 {
			t.Fatalf("unexpected recipient %d", msg.chatID)
		}
	}
}

func TestRunOnceAnniversaryAndWarnings(t *testing.T) {
	testutil.SetupTestDB(t)

	start := milestone.Date(2024, time.February, 14)
	setupPairWithStartDate(t, 10, 20, start)

	cases := []struct {
		today    time.Time
		fragment string
	}{
		{milestone.Date(2025, time.February, 7), "7 days away"},
		{milestone.Date(2025, time.February, 13), "Tomorrow"},
		{milestone.Date(2025, time.February, 14), "little celebration"},
	}
	for _, tc := range cases {
		sender := &fakeSender{}
		if err := RunOnce(context.Background(), sender, tc.today); err != nil {
			t.Fatalf("RunOnce failed for %v: %v", tc.today, err)
		}
		if len(sender.sent) != 2 {
			t.Fatalf("expected 2 messages for %v, got %d", tc.today, len(sender.sent))
		}
		if !strings.Contains(sender.sent[0].text, tc.fragment) {
			t.Fatalf("expected %q in message for %v, got %q", tc.fragment, tc.today, sender.sent[0].text)
		}
	}
}

func TestRunOnceIgnoresFutureStartDates(t *testing.T) {
	testutil.SetupTestDB(t)

	setupPairWithStartDate(t, 10, 20, milestone.Date(2030, time.January, 1))

	sender := &fakeSender{}
	if err := RunOnce(context.Background(), sender, milestone.Date(2025, time.June, 1)); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no messages for a future start date, got %v", sender.sent)
	}
}
