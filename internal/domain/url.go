package domain

import "time"

// DefaultValidityMinutes is applied when a create request omits the
// validity field.
const DefaultValidityMinutes = 30

// MaxValidityMinutes is one calendar year.
const MaxValidityMinutes = 525600

// URLRecord is a stored short link. ShortCode, OriginalURL, CreatedAt and
// ExpiryDate are immutable after creation; activity is always derived from
// the expiry date, never stored.
type URLRecord struct {
	ShortCode   string    `json:"shortcode"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiryDate  time.Time `json:"expiryDate"`
}

// IsActive reports whether the record is still live at the given time.
func (r *URLRecord) IsActive(now time.Time) bool {
	return !now.After(r.ExpiryDate)
}

// Clone returns a copy safe to hand out past the registry lock.
func (r *URLRecord) Clone() *URLRecord {
	c := *r
	return &c
}

// CreateURLRequest is the POST /shorturls payload.
type CreateURLRequest struct {
	URL             string `json:"url" validate:"required,httpurl"`
	ValidityMinutes int    `json:"validity,omitempty" validate:"omitempty,gte=1,lte=525600"`
	ShortCode       string `json:"shortcode,omitempty" validate:"omitempty,shortcode"`
}

// URLStats is the full analytics view of one short link.
type URLStats struct {
	ShortCode   string        `json:"shortcode"`
	OriginalURL string        `json:"originalUrl"`
	CreatedAt   time.Time     `json:"createdAt"`
	ExpiryDate  time.Time     `json:"expiryDate"`
	IsActive    bool          `json:"isActive"`
	TotalClicks int64         `json:"totalClicks"`
	Clicks      []ClickRecord `json:"clickDetails"`
}
