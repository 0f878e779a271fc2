package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDecimal(t *testing.T) {
	assert.Equal(t, 3.14, RoundDecimal(3.14159, 2))
	assert.Equal(t, 1.23, RoundDecimal(1.2345, 2))
	assert.Equal(t, -100.0, RoundDecimal(-100, 2))
	assert.Equal(t, -0.5, RoundDecimal(-0.4999, 1))
	assert.Equal(t, 7.0, RoundDecimal(7.4, 0))
	assert.Zero(t, RoundDecimal(0, 4))
}
