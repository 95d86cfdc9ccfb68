package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/snaplinkhq/snaplink/internal/domain"
	"github.com/snaplinkhq/snaplink/pkg/generator"
)

// Stack identifies this service in forwarded log events.
const Stack = "backend"

// maxGenerateAttempts bounds auto-generation retries. Ten collisions in a
// row against a 62^6 code space is an operational anomaly, not bad luck.
const maxGenerateAttempts = 10

// EventSink receives significant registry events for best-effort remote
// delivery. Implementations must never block.
type EventSink interface {
	Log(stack, level, pkg, msg string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Log(stack, level, pkg, msg string) {}

// GenerateFunc produces candidate shortcodes for auto-generation.
type GenerateFunc func() (string, error)

// Option configures a Registry.
type Option func(*Registry)

// WithGenerator overrides the shortcode generator. Used by tests to force
// collisions deterministically.
func WithGenerator(gen GenerateFunc) Option {
	return func(r *Registry) {
		r.gen = gen
	}
}

type entry struct {
	record      domain.URLRecord
	totalClicks int64
	clicks      []domain.ClickRecord
}

// Registry owns the shortcode -> URL record mapping and each record's
// click history. All access goes through one mutex so check-then-insert
// and append-and-increment are atomic; readers get cloned data and never
// observe a partial append.
//
// Expiry is evaluated lazily: FindActive and GetStats compute activity at
// call time, so an expired record behaves as not-found even before the
// next cleanup sweep physically removes it. Until that removal the code
// stays reserved (Exists reports true); it becomes reusable only after
// the purge.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	clock   domain.Clock
	sink    EventSink
	gen     GenerateFunc
}

// New creates an empty registry.
func New(clock domain.Clock, sink EventSink, opts ...Option) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		clock:   clock,
		sink:    sink,
		gen:     generator.ShortCode,
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Exists reports whether a record for code is present, regardless of
// expiry state. Expired-but-unpurged codes still count as taken.
func (r *Registry) Exists(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[code]
	return ok
}

// Create inserts a new record with an empty click history. The existence
// check and the insert happen under one lock, so two concurrent creates
// can never both claim the same code.
func (r *Registry) Create(code, originalURL string, expiryDate time.Time) (*domain.URLRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.createLocked(code, originalURL, expiryDate)
}

// CreateGenerated inserts a new record under a freshly generated
// shortcode, retrying on collision up to maxGenerateAttempts times. The
// whole generate-check-insert sequence runs under the write lock, so a
// returned code was free at insert time.
func (r *Registry) CreateGenerated(originalURL string, expiryDate time.Time) (*domain.URLRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < maxGenerateAttempts; i++ {
		code, err := r.gen()
		if err != nil {
			return nil, fmt.Errorf("generate shortcode: %w", err)
		}

		if _, taken := r.entries[code]; taken {
			continue
		}
		return r.createLocked(code, originalURL, expiryDate)
	}

	r.sink.Log(Stack, "error", "registry",
		fmt.Sprintf("shortcode generation exhausted after %d attempts", maxGenerateAttempts))
	return nil, domain.ErrGenerationExhausted
}

// createLocked assumes r.mu is held for writing.
func (r *Registry) createLocked(code, originalURL string, expiryDate time.Time) (*domain.URLRecord, error) {
	if _, taken := r.entries[code]; taken {
		return nil, domain.ErrCodeExists
	}

	record := domain.URLRecord{
		ShortCode:   code,
		OriginalURL: originalURL,
		CreatedAt:   r.clock.Now(),
		ExpiryDate:  expiryDate,
	}
	r.entries[code] = &entry{record: record}

	r.sink.Log(Stack, "info", "registry", fmt.Sprintf("short url created: %s", code))
	return record.Clone(), nil
}

// FindActive returns the record for code only if it is present and not
// expired. Expired and absent codes are indistinguishable to the caller.
func (r *Registry) FindActive(code string) (*domain.URLRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[code]
	if !ok {
		r.sink.Log(Stack, "warn", "registry", fmt.Sprintf("shortcode not found: %s", code))
		return nil, domain.ErrNotFound
	}

	if !e.record.IsActive(r.clock.Now()) {
		r.sink.Log(Stack, "warn", "registry", fmt.Sprintf("expired shortcode accessed: %s", code))
		return nil, domain.ErrNotFound
	}

	return e.record.Clone(), nil
}

// RecordClick appends a click with a server-assigned timestamp and bumps
// the counter in one critical section. It does not check expiry: a click
// racing the cleanup sweep may still land, or may find the entry already
// gone and return false. Both outcomes are acceptable; a false return on
// the request path means the resolver and the store disagree, which the
// caller escalates as an internal error.
func (r *Registry) RecordClick(code string, click domain.Click) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[code]
	if !ok {
		return false
	}

	e.clicks = append(e.clicks, domain.ClickRecord{
		Timestamp:  r.clock.Now(),
		IP:         click.IP,
		UserAgent:  click.UserAgent,
		Referrer:   click.Referrer,
		DeviceType: click.DeviceType,
		Location:   click.Location,
	})
	e.totalClicks++

	r.sink.Log(Stack, "info", "registry", fmt.Sprintf("click recorded: %s", code))
	return true
}

// GetStats returns the record plus its full click history. Activity is
// recomputed at call time, so stats for an expired-but-unpurged record
// report isActive false.
func (r *Registry) GetStats(code string) (*domain.URLStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[code]
	if !ok {
		return nil, domain.ErrNotFound
	}

	clicks := make([]domain.ClickRecord, len(e.clicks))
	copy(clicks, e.clicks)

	return &domain.URLStats{
		ShortCode:   e.record.ShortCode,
		OriginalURL: e.record.OriginalURL,
		CreatedAt:   e.record.CreatedAt,
		ExpiryDate:  e.record.ExpiryDate,
		IsActive:    e.record.IsActive(r.clock.Now()),
		TotalClicks: e.totalClicks,
		Clicks:      clicks,
	}, nil
}

// CleanupExpired removes every record whose expiry passed before now and
// returns how many were removed. Idempotent; a second sweep with the same
// cutoff removes nothing.
func (r *Registry) CleanupExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for code, e := range r.entries {
		if e.record.ExpiryDate.Before(now) {
			delete(r.entries, code)
			removed++
		}
	}

	if removed > 0 {
		r.sink.Log(Stack, "info", "registry", fmt.Sprintf("cleanup removed %d expired records", removed))
	}
	return removed
}

// Len reports the number of records currently held, expired or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
