package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/smirnovd/tg-couple-bot/pkg/db"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
	"github.com/smirnovd/tg-couple-bot/pkg/milestone"
	"github.com/smirnovd/tg-couple-bot/pkg/service"
)

const dateLayout = "02.01.2006"

type initRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

type statsResponse struct {
	DaysTogether      int     `json:"days_together"`
	Years             int     `json:"years"`
	Months            int     `json:"months"`
	NextAnniversary   string  `json:"next_anniversary"`
	DaysUntilNext     int     `json:"days_until_next"`
	Progress          float64 `json:"progress"`
	NextMilestoneDays int     `json:"next_milestone_days,omitempty"`
	NextMilestoneDate string  `json:"next_milestone_date,omitempty"`
	NextBigYear       int     `json:"next_big_year"`
	NextBigDate       string  `json:"next_big_date"`
}

type wishlistItemResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	IsDone      bool   `json:"is_done"`
}

type initResponse struct {
	Paired          bool                   `json:"paired"`
	PartnerName     string                 `json:"partner_name,omitempty"`
	StartDate       string                 `json:"start_date,omitempty"`
	CloudURL        string                 `json:"cloud_url,omitempty"`
	Stats           *statsResponse         `json:"stats,omitempty"`
	MyWishlist      []wishlistItemResponse `json:"my_wishlist"`
	PartnerWishlist []wishlistItemResponse `json:"partner_wishlist"`
}

type memberRequest struct {
	TelegramID int64 `json:"telegram_id" validate:"required"`
}

type wishlistAddRequest struct {
	TelegramID  int64  `json:"telegram_id" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

type wishlistItemRequest struct {
	TelegramID int64 `json:"telegram_id" validate:"required"`
	ItemID     uint  `json:"item_id" validate:"required"`
}

type wishlistSetLinkRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	ItemID     uint   `json:"item_id" validate:"required"`
	URL        string `json:"url" validate:"required,url"`
}

type cloudSetRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	URL        string `json:"url"`
}

type startDateSetRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	Date       string `json:"date" validate:"required"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type toggleDoneResponse struct {
	OK     bool `json:"ok"`
	IsDone bool `json:"is_done"`
}

// memberPair resolves a Telegram id to the caller's internal user id and
// pair. Unknown users and unpaired users both map to 404.
func memberPair(telegramID int64) (uint, *db.Pair, error) {
	userID, err := service.GetOrCreateUser(service.TelegramProfile{TelegramID: telegramID})
	if err != nil {
		logger.Error("failed to resolve user", "telegram_id", telegramID, "error", err)
		return 0, nil, echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	pair, err := service.FindPairByUser(userID)
	if err != nil {
		logger.Error("failed to load pair", "user_id", userID, "error", err)
		return 0, nil, echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if pair == nil {
		return 0, nil, echo.NewHTTPError(http.StatusNotFound, "no pair")
	}
	return userID, pair, nil
}

// validHTTPURL mirrors the bot input check: absolute http(s) only.
func validHTTPURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	return c.Validate(req)
}

func toWishlistResponse(items []db.WishlistItem) []wishlistItemResponse {
	out := make([]wishlistItemResponse, 0, len(items))
	for _, item := range items {
		resp := wishlistItemResponse{
			ID:     item.ID,
			Title:  item.Title,
			IsDone: item.IsDone,
		}
		if item.Description != nil {
			resp.Description = *item.Description
		}
		if item.URL != nil {
			resp.URL = *item.URL
		}
		out = append(out, resp)
	}
	return out
}

func toStatsResponse(s milestone.Stats) *statsResponse {
	if s.Future {
		return nil
	}
	resp := &statsResponse{
		DaysTogether:    s.DaysTogether,
		Years:           s.Years,
		Months:          s.Months,
		NextAnniversary: s.NextAnniversary.Format(dateLayout),
		DaysUntilNext:   s.DaysUntilNext,
		Progress:        s.Progress,
		NextBigYear:     s.NextBigYear,
		NextBigDate:     s.NextBigDate.Format(dateLayout),
	}
	if s.NextMilestoneDays > 0 {
		resp.NextMilestoneDays = s.NextMilestoneDays
		resp.NextMilestoneDate = s.NextMilestoneDate.Format(dateLayout)
	}
	return resp
}

func handleInit(c echo.Context) error {
	var req initRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	userID, err := service.GetOrCreateUser(service.TelegramProfile{
		TelegramID: req.TelegramID,
		Username:   req.Username,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
	})
	if err != nil {
		logger.Error("failed to resolve user", "telegram_id", req.TelegramID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	pair, err := service.FindPairByUser(userID)
	if err != nil {
		logger.Error("failed to load pair", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	resp := initResponse{
		MyWishlist:      []wishlistItemResponse{},
		PartnerWishlist: []wishlistItemResponse{},
	}
	if pair == nil {
		return c.JSON(http.StatusOK, resp)
	}

	resp.Paired = true
	partner, err := service.GetUser(service.PartnerID(pair, userID))
	if err != nil {
		logger.Error("failed to load partner", "pair_id", pair.ID, "error", err)
	}
	if partner != nil {
		resp.PartnerName = partner.FirstName
		if resp.PartnerName == "" {
			resp.PartnerName = partner.Username
		}
	}
	if pair.CloudDriveURL != nil {
		resp.CloudURL = *pair.CloudDriveURL
	}
	if pair.StartDate != nil {
		resp.StartDate = pair.StartDate.Format(dateLayout)
		resp.Stats = toStatsResponse(milestone.CalcStats(*pair.StartDate, time.Now()))
	}

	mine, err := service.WishlistForOwner(pair.ID, userID)
	if err != nil {
		logger.Error("failed to load wishlist", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	theirs, err := service.WishlistForOwner(pair.ID, service.PartnerID(pair, userID))
	if err != nil {
		logger.Error("failed to load partner wishlist", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	resp.MyWishlist = toWishlistResponse(mine)
	resp.PartnerWishlist = toWishlistResponse(theirs)

	return c.JSON(http.StatusOK, resp)
}

func handleWishlistAdd(c echo.Context) error {
	var req wishlistAddRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, pair, err := memberPair(req.TelegramID)
	if err != nil {
		return err
	}

	var description *string
	if req.Description != "" {
		description = &req.Description
	}
	item, err := service.AddWishlistItem(pair.ID, userID, strings.TrimSpace(req.Title), description)
	if err != nil {
		logger.Error("failed to add wishlist item", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, toWishlistResponse([]db.WishlistItem{item})[0])
}

func handleWishlistDelete(c echo.Context) error {
	var req wishlistItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, pair, err := memberPair(req.TelegramID)
	if err != nil {
		return err
	}

	if err := service.DeleteWishlistItem(pair.ID, req.ItemID); err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		logger.Error("failed to delete wishlist item", "item_id", req.ItemID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func handleWishlistSetLink(c echo.Context) error {
	var req wishlistSetLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, pair, err := memberPair(req.TelegramID)
	if err != nil {
		return err
	}

	if !validHTTPURL(req.URL) {
		return echo.NewHTTPError(http.StatusBadRequest, "url must be http(s)")
	}
	if err := service.SetWishlistItemURL(pair.ID, req.ItemID, req.URL); err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		logger.Error("failed to set wishlist item url", "item_id", req.ItemID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func handleWishlistToggleDone(c echo.Context) error {
	var req wishlistItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, pair, err := memberPair(req.TelegramID)
	if err != nil {
		return err
	}

	isDone, err := service.ToggleWishlistItemDone(pair.ID, req.ItemID)
	if err != nil {
		if errors.Is(err, service.ErrWishlistItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		logger.Error("failed to toggle wishlist item", "item_id", req.ItemID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, toggleDoneResponse{OK: true, IsDone: isDone})
}

func handleWishlistClear(c echo.Context) error {
	var req memberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	userID, pair, err := memberPair(req.TelegramID)
	if err != nil {
		return err
	}

	if err := service.ClearWishlist(pair.ID, userID); err != nil {
		logger.Error("failed to clear wishlist", "user_id", userID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func handleCloudSet(c echo.Context) error {
	var req cloudSetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, pair, err := memberPair(req.TelegramID)
	if err != nil {
		return err
	}

	var link *string
	if req.URL != "" {
		if !validHTTPURL(req.URL) {
			return echo.NewHTTPError(http.StatusBadRequest, "url must be http(s)")
		}
		link = &req.URL
	}
	if err := service.SetCloudURL(pair.ID, link); err != nil {
		logger.Error("failed to set cloud url", "pair_id", pair.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func handleStartDateSet(c echo.Context) error {
	var req startDateSetRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, pair, err := memberPair(req.TelegramID)
	if err != nil {
		return err
	}

	date, parseErr := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if parseErr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be DD.MM.YYYY")
	}
	if err := service.SetStartDate(pair.ID, date); err != nil {
		logger.Error("failed to set start date", "pair_id", pair.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}

func handlePairDelete(c echo.Context) error {
	var req memberRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, pair, err := memberPair(req.TelegramID)
	if err != nil {
		return err
	}

	if err := service.DeletePair(pair.ID); err != nil {
		logger.Error("failed to delete pair", "pair_id", pair.ID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, okResponse{OK: true})
}
