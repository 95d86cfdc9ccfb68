package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/snaplinkhq/snaplink/internal/domain"
	"github.com/snaplinkhq/snaplink/tests/mocks"
)

const testBaseURL = "http://localhost:8080"

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestCreateShortURL_Success(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.POST("/shorturls", h.CreateShortURL)

	reqBody := `{"url": "https://example.com", "validity": 1, "shortcode": "abc123"}`
	req := httptest.NewRequest("POST", "/shorturls", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	mockService.On("Shorten", mock.Anything, mock.MatchedBy(func(req *domain.CreateURLRequest) bool {
		return req.URL == "https://example.com" && req.ShortCode == "abc123" && req.ValidityMinutes == 1
	})).Return(&domain.URLRecord{
		ShortCode:   "abc123",
		OriginalURL: "https://example.com",
		CreatedAt:   now,
		ExpiryDate:  now.Add(time.Minute),
	}, nil).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, strings.HasSuffix(response["shortLink"].(string), "/abc123"))
	assert.NotEmpty(t, response["expiry"])

	mockService.AssertExpectations(t)
}

func TestCreateShortURL_InvalidJSON(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.POST("/shorturls", h.CreateShortURL)

	req := httptest.NewRequest("POST", "/shorturls", strings.NewReader(`{invalid json}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Shorten")
}

func TestCreateShortURL_InvalidURL(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.POST("/shorturls", h.CreateShortURL)

	req := httptest.NewRequest("POST", "/shorturls", strings.NewReader(`{"url": "not-a-url"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Shorten")
}

func TestCreateShortURL_ShortcodeTooShort(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.POST("/shorturls", h.CreateShortURL)

	req := httptest.NewRequest("POST", "/shorturls",
		strings.NewReader(`{"url": "https://example.com", "shortcode": "ab"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Shorten")
}

func TestCreateShortURL_ValidityOutOfBounds(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.POST("/shorturls", h.CreateShortURL)

	for _, body := range []string{
		`{"url": "https://example.com", "validity": -5}`,
		`{"url": "https://example.com", "validity": 525601}`,
	} {
		req := httptest.NewRequest("POST", "/shorturls", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
	mockService.AssertNotCalled(t, "Shorten")
}

func TestCreateShortURL_DuplicateShortcode(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.POST("/shorturls", h.CreateShortURL)

	req := httptest.NewRequest("POST", "/shorturls",
		strings.NewReader(`{"url": "https://example.com", "shortcode": "abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mockService.On("Shorten", mock.Anything, mock.Anything).
		Return(nil, domain.ErrCodeExists).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockService.AssertExpectations(t)
}

func TestCreateShortURL_GenerationExhausted(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.POST("/shorturls", h.CreateShortURL)

	req := httptest.NewRequest("POST", "/shorturls",
		strings.NewReader(`{"url": "https://example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	mockService.On("Shorten", mock.Anything, mock.Anything).
		Return(nil, domain.ErrGenerationExhausted).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	mockService.AssertExpectations(t)
}

func TestRedirect_Success(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.GET("/:shortcode", h.Redirect)

	req := httptest.NewRequest("GET", "/abc123", nil)
	req.Header.Set("User-Agent", "curl/8.4.0")
	req.Header.Set("Referer", "https://news.ycombinator.com/")
	req.RemoteAddr = "203.0.113.7:51100"
	w := httptest.NewRecorder()

	clicked := make(chan struct{})
	mockService.On("Resolve", mock.Anything, "abc123").
		Return(&domain.URLRecord{ShortCode: "abc123", OriginalURL: "https://example.com"}, nil).Once()
	mockService.On("TrackClick", mock.Anything, "abc123", "203.0.113.7", "curl/8.4.0", "https://news.ycombinator.com/").
		Run(func(mock.Arguments) { close(clicked) }).Return().Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))

	// The click is recorded off the request path.
	select {
	case <-clicked:
	case <-time.After(time.Second):
		t.Fatal("click was never recorded")
	}
	mockService.AssertExpectations(t)
}

func TestRedirect_InvalidFormat(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.GET("/:shortcode", h.Redirect)

	req := httptest.NewRequest("GET", "/ab", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Resolve")
}

func TestRedirect_NotFound(t *testing.T) {
	mockService := new(mocks.MockShortenerService)
	h := NewShortenerHandler(mockService, testBaseURL)
	router := setupTestRouter()
	router.GET("/:shortcode", h.Redirect)

	req := httptest.NewRequest("GET", "/ghost1", nil)
	w := httptest.NewRecorder()

	mockService.On("Resolve", mock.Anything, "ghost1").
		Return(nil, domain.ErrNotFound).Once()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertNotCalled(t, "TrackClick")
	mockService.AssertExpectations(t)
}
