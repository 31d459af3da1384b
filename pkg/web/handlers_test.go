package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/smirnovd/tg-couple-bot/pkg/internal/testutil"
	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
)

func setupWebTest(t *testing.T) *echo.Echo {
	t.Helper()
	testutil.SetupTestDB(t)
	return NewServer()
}

func doJSON(t *testing.T, e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func pairMembers(t *testing.T, creatorTG, partnerTG int64) (uint, uint, uint) {
	t.Helper()
	creatorID, err := service.GetOrCreateUser(service.TelegramProfile{TelegramID: creatorTG, FirstName: "Anna"})
	if err != nil {
		t.Fatalf("failed to register creator: %v", err)
	}
	partnerID, err := service.GetOrCreateUser(service.TelegramProfile{TelegramID: partnerTG, FirstName: "Boris"})
	if err != nil {
		t.Fatalf("failed to register partner: %v", err)
	}
	invite, err := service.GetOrCreateInvite(creatorID)
	if err != nil {
		t.Fatalf("failed to create invite: %v", err)
	}
	pair, err := service.RedeemInvite(invite.InviteToken, partnerID)
	if err != nil {
		t.Fatalf("failed to redeem invite: %v", err)
	}
	return creatorID, partnerID, pair.ID
}

func TestInitUnpaired(t *testing.T) {
	e := setupWebTest(t)

	rec := doJSON(t, e, "/api/init", `{"telegram_id":100,"first_name":"Anna"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp initResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Paired {
		t.Fatalf("expected unpaired response, got %+v", resp)
	}
}

func TestInitPairedWithStats(t *testing.T) {
	e := setupWebTest(t)

	creatorID, _, pairID := pairMembers(t, 100, 200)
	if err := service.SetStartDate(pairID, milestone.Date(2024, time.February, 14)); err != nil {
		t.Fatalf("failed to set start date: %v", err)
	}
	if _, err := service.AddWishlistItem(pairID, creatorID, "flowers", nil); err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}

	rec := doJSON(t, e, "/api/init", `{"telegram_id":100,"first_name":"Anna"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp initResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Paired || resp.PartnerName != "Boris" {
		t.Fatalf("expected paired response with partner name, got %+v", resp)
	}
	if resp.StartDate != "14.02.2024" || resp.Stats == nil {
		t.Fatalf("expected start date and stats, got %+v", resp)
	}
	if len(resp.MyWishlist) != 1 || resp.MyWishlist[0].Title != "flowers" {
		t.Fatalf("expected own wishlist item, got %+v", resp.MyWishlist)
	}
}

func TestInitRejectsMissingTelegramID(t *testing.T) {
	e := setupWebTest(t)

	rec := doJSON(t, e, "/api/init", `{"first_name":"Anna"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWishlistAddAndToggle(t *testing.T) {
	e := setupWebTest(t)

	pairMembers(t, 100, 200)

	rec := doJSON(t, e, "/api/wishlist/add", `{"telegram_id":100,"title":"flowers"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var item wishlistItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if item.ID == 0 || item.Title != "flowers" || item.IsDone {
		t.Fatalf("unexpected item response: %+v", item)
	}

	rec = doJSON(t, e, "/api/wishlist/toggle_done",
		`{"telegram_id":200,"item_id":`+itoa(item.ID)+`}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var toggled toggleDoneResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &toggled); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !toggled.OK || !toggled.IsDone {
		t.Fatalf("expected item marked done, got %+v", toggled)
	}
}

func TestWishlistAddWithoutPair(t *testing.T) {
	e := setupWebTest(t)

	rec := doJSON(t, e, "/api/wishlist/add", `{"telegram_id":100,"title":"flowers"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWishlistDeleteUnknownItem(t *testing.T) {
	e := setupWebTest(t)

	pairMembers(t, 100, 200)

	rec := doJSON(t, e, "/api/wishlist/delete", `{"telegram_id":100,"item_id":999}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestWishlistSetLinkRejectsBadURL(t *testing.T) {
	e := setupWebTest(t)

	creatorID, _, pairID := pairMembers(t, 100, 200)
	item, err := service.AddWishlistItem(pairID, creatorID, "flowers", nil)
	if err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}

	for _, bad := range []string{"not a url", "ftp://example.com/flowers"} {
		rec := doJSON(t, e, "/api/wishlist/set_link",
			`{"telegram_id":100,"item_id":`+itoa(item.ID)+`,"url":"`+bad+`"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %q, got %d: %s", bad, rec.Code, rec.Body.String())
		}
	}

	items, err := service.WishlistForOwner(pairID, creatorID)
	if err != nil || items[0].URL != nil {
		t.Fatalf("expected item without link, err=%v item=%+v", err, items[0])
	}
}

func TestCloudSetAndClear(t *testing.T) {
	e := setupWebTest(t)

	_, _, pairID := pairMembers(t, 100, 200)

	rec := doJSON(t, e, "/api/cloud/set", `{"telegram_id":100,"url":"https://drive.example.com/abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	pair, err := service.GetPair(pairID)
	if err != nil || pair.CloudDriveURL == nil || *pair.CloudDriveURL != "https://drive.example.com/abc" {
		t.Fatalf("expected stored cloud url, err=%v pair=%+v", err, pair)
	}

	rec = doJSON(t, e, "/api/cloud/set", `{"telegram_id":100,"url":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	pair, err = service.GetPair(pairID)
	if err != nil || pair.CloudDriveURL != nil {
		t.Fatalf("expected cleared cloud url, err=%v pair=%+v", err, pair)
	}
}

func TestStartDateSetRejectsBadFormat(t *testing.T) {
	e := setupWebTest(t)

	pairMembers(t, 100, 200)

	rec := doJSON(t, e, "/api/startdate/set", `{"telegram_id":100,"date":"2024-02-14"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPairDelete(t *testing.T) {
	e := setupWebTest(t)

	creatorID, _, _ := pairMembers(t, 100, 200)

	rec := doJSON(t, e, "/api/pair/delete", `{"telegram_id":100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	pair, err := service.FindPairByUser(creatorID)
	if err != nil || pair != nil {
		t.Fatalf("expected pair gone, err=%v pair=%+v", err, pair)
	}
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
