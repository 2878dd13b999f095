package otp

import (
	"math/rand/v2"
	"strconv"

	"github.com/xlzd/gotp"
)

const (
	secretLength    = 16
	defaultInterval = 30
	maxDigits       = 9
)

// Generator produces numeric one time codes.
type Generator interface {
	RandomCode(length int) string
}

// GOTPGenerator derives a code from a TOTP over a fresh random secret.
type GOTPGenerator struct{}

func NewGOTPGenerator() *GOTPGenerator {
	return &GOTPGenerator{}
}

func (g *GOTPGenerator) RandomCode(length int) string {
	length = clampDigits(length)
	secret := gotp.RandomSecret(secretLength)
	return gotp.NewTOTP(secret, length, defaultInterval, nil).Now()
}

// NumericGenerator draws a code uniformly from [10^(n-1), 10^n - 1], so the
// first digit is never zero. It uses math/rand, not crypto/rand.
type NumericGenerator struct{}

func NewNumericGenerator() *NumericGenerator {
	return &NumericGenerator{}
}

func (g *NumericGenerator) RandomCode(length int) string {
	length = clampDigits(length)
	low := pow10(length - 1)
	high := pow10(length) - 1
	return strconv.Itoa(low + rand.IntN(high-low+1))
}

func clampDigits(length int) int {
	if length < 1 {
		return 6
	}
	if length > maxDigits {
		return maxDigits
	}
	return length
}

func pow10(n int) int {
	res := 1
	for i := 0; i < n; i++ {
		res *= 10
	}
	return res
}
