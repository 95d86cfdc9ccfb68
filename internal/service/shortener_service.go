package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/snaplinkhq/snaplink/internal/domain"
	"github.com/snaplinkhq/snaplink/internal/logger"
	"github.com/snaplinkhq/snaplink/internal/registry"
	"github.com/snaplinkhq/snaplink/pkg/detector"
	"github.com/snaplinkhq/snaplink/pkg/validator"
)

// URLRegistry is the store the service drives. Validation happens here at
// the boundary; the registry only enforces uniqueness, expiry and atomic
// click recording.
type URLRegistry interface {
	Create(code, originalURL string, expiryDate time.Time) (*domain.URLRecord, error)
	CreateGenerated(originalURL string, expiryDate time.Time) (*domain.URLRecord, error)
	FindActive(code string) (*domain.URLRecord, error)
	RecordClick(code string, click domain.Click) bool
	GetStats(code string) (*domain.URLStats, error)
}

// GeoResolver maps an IP to an approximate location, best-effort.
type GeoResolver interface {
	Lookup(ip string) domain.Location
}

type ShortenerService struct {
	registry URLRegistry
	geo      GeoResolver
	sink     registry.EventSink
	clock    domain.Clock
}

func NewShortenerService(reg URLRegistry, geo GeoResolver, sink registry.EventSink, clock domain.Clock) *ShortenerService {
	return &ShortenerService{
		registry: reg,
		geo:      geo,
		sink:     sink,
		clock:    clock,
	}
}

// Shorten creates a short link. The request is assumed syntactically
// valid; validity falls back to the 30 minute default when omitted.
func (s *ShortenerService) Shorten(ctx context.Context, req *domain.CreateURLRequest) (*domain.URLRecord, error) {
	minutes := req.ValidityMinutes
	if minutes == 0 {
		minutes = domain.DefaultValidityMinutes
	}
	expiry := s.clock.Now().Add(time.Duration(minutes) * time.Minute)

	if validator.IsInternalHost(req.URL) {
		s.sink.Log(registry.Stack, "warn", "service",
			fmt.Sprintf("short url targets internal host: %s", req.URL))
		logger.FromContext(ctx).Warn("short url targets internal host", "url", req.URL)
	}

	if req.ShortCode != "" {
		return s.registry.Create(req.ShortCode, req.URL, expiry)
	}
	return s.registry.CreateGenerated(req.URL, expiry)
}

// Resolve returns the record behind code if it is present and unexpired.
func (s *ShortenerService) Resolve(ctx context.Context, code string) (*domain.URLRecord, error) {
	return s.registry.FindActive(code)
}

// TrackClick records one redirect event: it normalizes the user agent and
// referrer, classifies the device, resolves the approximate location and
// appends the click. A missing analytics entry means the resolver and the
// store disagree; that is escalated as an internal event, never surfaced
// to the visitor.
func (s *ShortenerService) TrackClick(ctx context.Context, code, ip, userAgent, referrer string) {
	if userAgent == "" {
		userAgent = domain.ValueUnknown
	}

	ok := s.registry.RecordClick(code, domain.Click{
		IP:         ip,
		UserAgent:  userAgent,
		Referrer:   referrerHost(referrer),
		DeviceType: detector.DetectDeviceType(userAgent),
		Location:   s.geo.Lookup(ip),
	})
	if !ok {
		s.sink.Log(registry.Stack, "error", "service",
			fmt.Sprintf("click against shortcode with no analytics entry: %s", code))
		logger.FromContext(ctx).Error("click against shortcode with no analytics entry", "shortcode", code)
	}
}

// Stats returns the analytics view for code. Expired links answer as
// not-found just like the resolver, even while the record physically
// remains until the next cleanup sweep; stats must not leak that an
// expired code ever existed.
func (s *ShortenerService) Stats(ctx context.Context, code string) (*domain.URLStats, error) {
	stats, err := s.registry.GetStats(code)
	if err != nil {
		return nil, err
	}
	if !stats.IsActive {
		return nil, domain.ErrNotFound
	}
	return stats, nil
}

// referrerHost reduces a Referer header to its hostname: "direct" when
// the header is absent, "unknown" when it does not parse.
func referrerHost(referrer string) string {
	if referrer == "" {
		return domain.ReferrerDirect
	}

	u, err := url.Parse(referrer)
	if err != nil || u.Hostname() == "" {
		return domain.ReferrerUnknown
	}
	return u.Hostname()
}
