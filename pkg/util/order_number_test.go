package util

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^TUFF-\d{8}-[A-HJ-NP-Z2-9]{6}$`)

	number := GenerateOrderNumber()
	assert.Regexp(t, pattern, number)
	assert.Contains(t, number, time.Now().Format("20060102"))

	// Ambiguous characters are excluded from the suffix alphabet.
	for _, forbidden := range []string{"0", "O", "1", "I"} {
		assert.NotContains(t, number[14:], forbidden)
	}
}
