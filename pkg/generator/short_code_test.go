package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortCode_BasicProperties(t *testing.T) {
	code, err := ShortCode()

	assert.NoError(t, err)

	assert.Len(t, code, 6, "short code should be 6 characters long")

	assert.Regexp(t, "^[a-zA-Z0-9]+$", code, "short code should only contain alphanumeric characters")
}

func TestShortCode_Uniqueness(t *testing.T) {
	codes := make(map[string]bool, 1000)

	for i := 0; i < 1000; i++ {
		code, err := ShortCode()
		assert.NoError(t, err)

		assert.False(t, codes[code], "duplicate code generated: %s", code)
		codes[code] = true
	}

	assert.Equal(t, 1000, len(codes), "should generate 1000 unique codes")
}
