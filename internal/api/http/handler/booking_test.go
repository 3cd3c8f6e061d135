package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/internal/api/http/middleware"
	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/service/booking"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

func newBookingApp(t *testing.T) (*fiber.App, *store.Stores) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	stores := store.New(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewBookingHandler(booking.New(stores, 15, logger), NewRecorder(stores, logger))

	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Post("/bookings/:id/status", h.SetStatus)
	return app, stores
}

func TestSetStatusEmptyStatusFinalizesLog(t *testing.T) {
	app, stores := newBookingApp(t)

	req := httptest.NewRequest("POST", "/bookings/BK-X/status", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// The audit row must not stay pending when the handler rejects
	// the payload before reaching the service.
	var logs []model.RequestLog
	require.NoError(t, stores.DB().Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, model.RequestStateFailed, logs[0].State)
	require.Equal(t, "status is required", logs[0].ErrorMessage)
}
