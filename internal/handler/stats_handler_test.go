package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/snaplinkhq/snaplink/internal/domain"
	"github.com/snaplinkhq/snaplink/internal/registry"
	"github.com/snaplinkhq/snaplink/internal/service"
	"github.com/snaplinkhq/snaplink/tests/mocks"
)

func TestGetStats_Success(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewStatsHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.GET("/shorturls/:shortcode", h.GetStats)

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	stats := &domain.URLStats{
		ShortCode:   "abc123",
		OriginalURL: "https://example.com",
		CreatedAt:   now,
		ExpiryDate:  now.Add(30 * time.Minute),
		IsActive:    true,
		TotalClicks: 2,
		Clicks: []domain.ClickRecord{
			{
				Timestamp:  now.Add(time.Minute),
				IP:         "203.0.113.7",
				UserAgent:  "curl/8.4.0",
				Referrer:   "direct",
				DeviceType: "bot",
				Location:   domain.UnknownLocation(),
			},
			{
				Timestamp:  now.Add(2 * time.Minute),
				IP:         "127.0.0.1",
				UserAgent:  "Unknown",
				Referrer:   "example.org",
				DeviceType: "unknown",
				Location:   domain.LocalLocation("UTC"),
			},
		},
	}

	mockService.On("Stats", mock.Anything, "abc123").Return(stats, nil).Once()

	req := httptest.NewRequest("GET", "/shorturls/abc123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "abc123", body["shortcode"])
	assert.Equal(t, "https://example.com", body["originalUrl"])
	assert.Equal(t, true, body["isActive"])
	assert.Equal(t, float64(2), body["totalClicks"])

	details := body["clickDetails"].([]interface{})
	require.Len(t, details, 2)
	first := details[0].(map[string]interface{})
	assert.Equal(t, "direct", first["referrer"])
	assert.Equal(t, "Unknown", first["location"].(map[string]interface{})["country"])

	mockService.AssertExpectations(t)
}

func TestGetStats_InvalidFormat(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewStatsHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.GET("/shorturls/:shortcode", h.GetStats)

	req := httptest.NewRequest("GET", "/shorturls/a!", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Stats")
}

func TestGetStats_NotFound(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewStatsHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.GET("/shorturls/:shortcode", h.GetStats)

	mockService.On("Stats", mock.Anything, "ghost1").Return(nil, domain.ErrNotFound).Once()

	req := httptest.NewRequest("GET", "/shorturls/ghost1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}

func TestGetStats_ExpiredBeforeCleanup_NotFound(t *testing.T) {
	clock := domain.NewMockClock(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	reg := registry.New(clock, registry.NopSink{})
	svc := service.NewShortenerService(reg, new(mocks.MockGeoResolver), registry.NopSink{}, clock)

	h := NewStatsHandler(svc, testBaseURL)
	router := setupTestRouter()
	router.GET("/shorturls/:shortcode", h.GetStats)

	_, err := reg.Create("abc123", "https://example.com", clock.Now().Add(time.Minute))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/shorturls/abc123", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	clock.Advance(61 * time.Second)

	// The hourly sweep has not run, so the record is still stored; the
	// endpoint must answer 404 all the same.
	req = httptest.NewRequest("GET", "/shorturls/abc123", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, reg.Exists("abc123"))
}

func TestGetQRCode_Success(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewStatsHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.GET("/shorturls/:shortcode/qr", h.GetQRCode)

	mockService.On("Resolve", mock.Anything, "abc123").
		Return(&domain.URLRecord{ShortCode: "abc123", OriginalURL: "https://example.com"}, nil).Once()

	req := httptest.NewRequest("GET", "/shorturls/abc123/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.Bytes())

	mockService.AssertExpectations(t)
}

func TestGetQRCode_NotFound(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewStatsHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.GET("/shorturls/:shortcode/qr", h.GetQRCode)

	mockService.On("Resolve", mock.Anything, "ghost1").Return(nil, domain.ErrNotFound).Once()

	req := httptest.NewRequest("GET", "/shorturls/ghost1/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
