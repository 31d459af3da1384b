// Package web exposes the couple data over a small JSON API so the
// Telegram web app can read and mutate the same records as the bot.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/smirnovd/tg-couple-bot/pkg/logger"
)

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewServer builds the echo instance with middleware, validation and all
// API routes registered.
func NewServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Validator = &requestValidator{validate: validator.New()}

	api := e.Group("/api")
	api.POST("/init", handleInit)
	api.POST("/wishlist/add", handleWishlistAdd)
	api.POST("/wishlist/delete", handleWishlistDelete)
	api.POST("/wishlist/set_link", handleWishlistSetLink)
	api.POST("/wishlist/toggle_done", handleWishlistToggleDone)
	api.POST("/wishlist/clear", handleWishlistClear)
	api.POST("/cloud/set", handleCloudSet)
	api.POST("/startdate/set", handleStartDateSet)
	api.POST("/pair/delete", handlePairDelete)

	return e
}

// Serve runs the API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, e *echo.Echo, listen string) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down web server", "error", err)
		}
	}()

	logger.Info("starting web server", "listen", listen)
	if err := e.Start(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("web server stopped", "error", err)
	}
}
