package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/snaplinkhq/snaplink/pkg/response"
	"github.com/snaplinkhq/snaplink/pkg/validator"
)

type StatsHandler struct {
	service ShortenerService
	baseURL string
}

func NewStatsHandler(service ShortenerService, baseURL string) *StatsHandler {
	return &StatsHandler{
		service: service,
		baseURL: baseURL,
	}
}

// GetStats handles GET /shorturls/:shortcode. Expired links report 404
// exactly like absent ones.
func (h *StatsHandler) GetStats(c *gin.Context) {
	code := c.Param("shortcode")
	if !validator.ValidShortCode(code) {
		response.BadRequest(c, "invalid shortcode format")
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), code)
	if err != nil {
		response.NotFound(c, "short url not found")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetQRCode handles GET /shorturls/:shortcode/qr with a PNG of the short
// link. Only active links get a code.
func (h *StatsHandler) GetQRCode(c *gin.Context) {
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

	png, err := qrcode.Encode(h.baseURL+"/"+record.ShortCode, qrcode.Medium, 256)
	if err != nil {
		response.InternalServerError(c, "failed to render qr code")
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
