package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericGenerator_SixDigitRange(t *testing.T) {
	g := NewNumericGenerator()

	for i := 0; i < 1000; i++ {
		code := g.RandomCode(6)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGOTPGenerator_Length(t *testing.T) {
	g := NewGOTPGenerator()

	for _, length := range []int{4, 6, 8} {
		code := g.RandomCode(length)
		assert.Len(t, code, length)
		_, err := strconv.Atoi(code)
		assert.NoError(t, err)
	}
}

func TestClampDigits(t *testing.T) {
	assert.Equal(t, 6, clampDigits(0))
	assert.Equal(t, 9, clampDigits(20))
	assert.Equal(t, 4, clampDigits(4))
}
