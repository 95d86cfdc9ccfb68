package domain

import "errors"

var (
	// ErrNotFound indicates the shortcode is absent or already expired.
	// Callers cannot distinguish the two cases.
	ErrNotFound = errors.New("short url not found")

	// ErrCodeExists indicates the shortcode is already taken.
	ErrCodeExists = errors.New("shortcode already exists")

	// ErrGenerationExhausted indicates auto-generation collided on every
	// attempt. Treated as an operational alarm, not user error.
	ErrGenerationExhausted = errors.New("shortcode generation exhausted")
)
