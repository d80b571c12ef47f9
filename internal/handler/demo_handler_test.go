package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/tilinsmath/tuition-api/internal/dto"
	"github.com/tilinsmath/tuition-api/internal/handler"
)

type mockDemoService struct {
	lastPayload dto.CreateDemoBookingRequest
	response    dto.DemoBookingResponse
	bookings    []dto.DemoBookingResponse
	err         error
}

func (m *mockDemoService) Book(_ context.Context, payload dto.CreateDemoBookingRequest) (dto.DemoBookingResponse, error) {
	m.lastPayload = payload
	if m.err != nil {
		return dto.DemoBookingResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockDemoService) List(_ context.Context) ([]dto.DemoBookingResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bookings, nil
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestDemoHandler_BookSuccess(t *testing.T) {
	svc := &mockDemoService{response: dto.DemoBookingResponse{ID: "booking-1", FullName: "Priya Sharma"}}
	logger := zerolog.New(io.Discard)
	app := fiber.New()
	handler.NewDemoHandler(svc, logger).RegisterPublic(app.Group("/api/v1"))

	payload := dto.CreateDemoBookingRequest{
		FullName:      "Priya Sharma",
		Email:         "priya@example.com",
		Phone:         "9876543210",
		Board:         "cbse",
		PreferredMode: "online",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/demo-bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                    `json:"success"`
		Data    dto.DemoBookingResponse `json:"data"`
		Message string                  `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "demo class booked", response.Message)
	require.Equal(t, "booking-1", response.Data.ID)
	require.Equal(t, payload.Email, svc.lastPayload.Email)
}

func TestDemoHandler_BookRejectsMalformedBody(t *testing.T) {
	svc := &mockDemoService{}
	logger := zerolog.New(io.Discard)
	app := fiber.New()
	handler.NewDemoHandler(svc, logger).RegisterPublic(app.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/demo-bookings", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Empty(t, svc.lastPayload.FullName)
}

func TestDemoHandler_BookServiceFailure(t *testing.T) {
	svc := &mockDemoService{err: errors.New("boom")}
	logger := zerolog.New(io.Discard)
	app := fiber.New()
	handler.NewDemoHandler(svc, logger).RegisterPublic(app.Group("/api/v1"))

	payload := dto.CreateDemoBookingRequest{
		FullName:      "Priya Sharma",
		Email:         "priya@example.com",
		Phone:         "9876543210",
		Board:         "cbse",
		PreferredMode: "online",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/demo-bookings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestDemoHandler_ListBookings(t *testing.T) {
	svc := &mockDemoService{bookings: []dto.DemoBookingResponse{{ID: "booking-1"}, {ID: "booking-2"}}}
	logger := zerolog.New(io.Discard)
	app := fiber.New()
	handler.NewDemoHandler(svc, logger).RegisterAdmin(app.Group("/api/v1/admin"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/demo-bookings", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                      `json:"success"`
		Data    []dto.DemoBookingResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data, 2)
}
