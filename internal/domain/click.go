package domain

import "time"

// Referrer and location placeholders used when click metadata cannot be
// resolved.
const (
	ReferrerDirect  = "direct"
	ReferrerUnknown = "unknown"
	ValueUnknown    = "Unknown"
	ValueLocal      = "Local"
)

// Location is an approximate geolocation for a click. Every field falls
// back to "Unknown" on a failed lookup; loopback and private-range
// addresses resolve to "Local" with the host timezone.
type Location struct {
	Country  string `json:"country"`
	Region   string `json:"region"`
	City     string `json:"city"`
	Timezone string `json:"timezone"`
}

// UnknownLocation returns a location with every field unresolved.
func UnknownLocation() Location {
	return Location{
		Country:  ValueUnknown,
		Region:   ValueUnknown,
		City:     ValueUnknown,
		Timezone: ValueUnknown,
	}
}

// LocalLocation marks a click from a loopback or private-range address.
func LocalLocation(timezone string) Location {
	return Location{
		Country:  ValueLocal,
		Region:   ValueLocal,
		City:     ValueLocal,
		Timezone: timezone,
	}
}

// ClickRecord is one redirect event against a short link. Records are
// append-only and owned by the URLRecord they belong to.
type ClickRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer"`
	DeviceType string    `json:"deviceType"`
	Location   Location  `json:"location"`
}

// Click carries the caller-supplied click metadata; the registry assigns
// the timestamp when the click is recorded.
type Click struct {
	IP         string
	UserAgent  string
	Referrer   string
	DeviceType string
	Location   Location
}
