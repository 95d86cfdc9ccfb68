package geo

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/snaplinkhq/snaplink/internal/domain"
)

const (
	defaultLookupTimeout = 2 * time.Second
	defaultCacheSize     = 1024
	defaultCacheTTL      = 12 * time.Hour
)

// Config controls the provider endpoint and cache behavior.
type Config struct {
	ProviderURL string
	Timeout     time.Duration
	CacheSize   int
	CacheTTL    time.Duration
}

// Resolver maps client IPs to approximate locations. Lookups are
// best-effort: loopback and private-range addresses resolve locally,
// anything the provider cannot answer within the timeout comes back with
// every field set to "Unknown". Lookup never returns an error.
type Resolver struct {
	providerURL string
	client      *http.Client
	cache       *expirable.LRU[string, domain.Location]
}

func NewResolver(cfg Config) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLookupTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}

	return &Resolver{
		providerURL: strings.TrimSuffix(cfg.ProviderURL, "/"),
		client:      &http.Client{Timeout: cfg.Timeout},
		cache:       expirable.NewLRU[string, domain.Location](cfg.CacheSize, nil, cfg.CacheTTL),
	}
}

// Lookup resolves ip to an approximate location.
func (r *Resolver) Lookup(ip string) domain.Location {
	if isLocalIP(ip) {
		return domain.LocalLocation(localTimezone())
	}

	if loc, ok := r.cache.Get(ip); ok {
		return loc
	}

	loc := r.query(ip)
	r.cache.Add(ip, loc)
	return loc
}

// providerResponse is the ipwho.is answer shape.
type providerResponse struct {
	Success  bool   `json:"success"`
	Country  string `json:"country"`
	Region   string `json:"region"`
	City     string `json:"city"`
	Timezone struct {
		ID string `json:"id"`
	} `json:"timezone"`
}

func (r *Resolver) query(ip string) domain.Location {
	if r.providerURL == "" {
		return domain.UnknownLocation()
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.client.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.providerURL+"/"+ip, nil)
	if err != nil {
		return domain.UnknownLocation()
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return domain.UnknownLocation()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.UnknownLocation()
	}

	var out providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.UnknownLocation()
	}
	if !out.Success {
		return domain.UnknownLocation()
	}

	return domain.Location{
		Country:  orUnknown(out.Country),
		Region:   orUnknown(out.Region),
		City:     orUnknown(out.City),
		Timezone: orUnknown(out.Timezone.ID),
	}
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.ValueUnknown
	}
	return s
}

func localTimezone() string {
	zone, _ := time.Now().Zone()
	if zone == "" {
		return domain.ValueUnknown
	}
	return zone
}

func isLocalIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	if parsed.IsLoopback() {
		return true
	}
	if v4 := parsed.To4(); v4 != nil {
		switch {
		case v4[0] == 10:
			return true
		case v4[0] == 172 && v4[1] >= 16 && v4[1] <= 31:
			return true
		case v4[0] == 192 && v4[1] == 168:
			return true
		case v4[0] == 169 && v4[1] == 254:
			return true
		}
	}
	return false
}
