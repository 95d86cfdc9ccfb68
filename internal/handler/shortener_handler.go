package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snaplinkhq/snaplink/internal/domain"
	"github.com/snaplinkhq/snaplink/pkg/detector"
	"github.com/snaplinkhq/snaplink/pkg/response"
	"github.com/snaplinkhq/snaplink/pkg/validator"
)

// ShortenerService is the orchestration layer behind the HTTP surface.
type ShortenerService interface {
	Shorten(ctx context.Context, req *domain.CreateURLRequest) (*domain.URLRecord, error)
	Resolve(ctx context.Context, code string) (*domain.URLRecord, error)
	TrackClick(ctx context.Context, code, ip, userAgent, referrer string)
	Stats(ctx context.Context, code string) (*domain.URLStats, error)
}

type ShortenerHandler struct {
	service ShortenerService
	baseURL string
}

func NewShortenerHandler(service ShortenerService, baseURL string) *ShortenerHandler {
	return &ShortenerHandler{
		service: service,
		baseURL: baseURL,
	}
}

// CreateShortURL handles POST /shorturls.
func (h *ShortenerHandler) CreateShortURL(c *gin.Context) {
	var req domain.CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if errs := validator.Validate(&req); len(errs) > 0 {
		response.ValidationErrors(c, errs)
		return
	}

	record, err := h.service.Shorten(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeExists):
			response.Conflict(c, "shortcode already in use")
		case errors.Is(err, domain.ErrGenerationExhausted):
			response.InternalServerError(c, "unable to generate a unique shortcode")
		default:
			response.InternalServerError(c, "internal server error")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"shortLink": h.baseURL + "/" + record.ShortCode,
		"expiry":    record.ExpiryDate,
	})
}

// Redirect handles GET /:shortcode. The click is recorded off the request
// path so analytics never delay the visitor.
func (h *ShortenerHandler) Redirect(c *gin.Context) {
	code := c.Param("shortcode")
	if !validator.ValidShortCode(code) {
		response.BadRequest(c, "invalid shortcode format")
		return
	}

	record, err := h.service.Resolve(c.Request.Context(), code)
	if err != nil {
		response.NotFound(c, "short url not found")
		return
	}

	ip := detector.ClientIP(c.Request.RemoteAddr, c.GetHeader("X-Forwarded-For"), c.GetHeader("X-Real-IP"))
	userAgent := c.Request.UserAgent()
	referrer := c.Request.Referer()

	go h.service.TrackClick(context.WithoutCancel(c.Request.Context()), code, ip, userAgent, referrer)

	c.Redirect(http.StatusFound, record.OriginalURL)
}
