package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "0", FormatTokens(0))
	assert.Equal(t, "1", FormatTokens(1_000_000_000))
	assert.Equal(t, "1.5", FormatTokens(1_500_000_000))
	assert.Equal(t, "0.000000001", FormatTokens(1))
	assert.Equal(t, "12.5", FormatTokens(12_500_000_000))
	assert.Equal(t, "50,000,000", FormatTokens(50_000_000_000_000_000))
	assert.Equal(t, "1,234.000000567", FormatTokens(1_234_000_000_567))
}

func TestFormatDay(t *testing.T) {
	assert.Equal(t, "day 7/20", FormatDay(7))
	assert.Equal(t, "day 20/20", FormatDay(20))
}
