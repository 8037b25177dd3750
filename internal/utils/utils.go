package utils

import (
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

const (
	// BpsBase is the denominator of basis point values.
	BpsBase = 10_000
	// PercentBase is the denominator of percent values.
	PercentBase = 100
)

// MulDiv returns floor(a * b / c) using a big.Int intermediate so the
// product may exceed the 256 bit range of sdkmath.Int.
func MulDiv(a, b, c sdkmath.Int) (sdkmath.Int, error) {
	q, _, err := MulDivRem(a, b, c)
	return q, err
}

// MulDivRem is MulDiv that also returns the remainder of the division.
func MulDivRem(a, b, c sdkmath.Int) (sdkmath.Int, sdkmath.Int, error) {
	if c.IsZero() {
		return sdkmath.ZeroInt(), sdkmath.ZeroInt(), fmt.Errorf("division by zero in MulDiv")
	}

	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())
	quo, rem := new(big.Int).QuoRem(intermediate, c.BigInt(), new(big.Int))

	return sdkmath.NewIntFromBigInt(quo), sdkmath.NewIntFromBigInt(rem), nil
}

// MulDivCeil returns ceil(a * b / c) for non negative operands.
func MulDivCeil(a, b, c sdkmath.Int) (sdkmath.Int, error) {
	q, r, err := MulDivRem(a, b, c)
	if err != nil {
		return q, err
	}
	if r.IsPositive() {
		q = q.AddRaw(1)
	}
	return q, nil
}

// Percent returns floor(amount * pct / 100).
func Percent(amount sdkmath.Int, pct uint64) sdkmath.Int {
	return amount.Mul(sdkmath.NewIntFromUint64(pct)).QuoRaw(PercentBase)
}

// Bps returns floor(amount * bps / 10000).
func Bps(amount sdkmath.Int, bps uint64) sdkmath.Int {
	return amount.Mul(sdkmath.NewIntFromUint64(bps)).QuoRaw(BpsBase)
}

// ParseAmount parses a non negative base unit integer. The empty string
// parses to zero so freshly created documents need no special casing.
func ParseAmount(s string) (sdkmath.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return sdkmath.ZeroInt(), nil
	}

	v, ok := sdkmath.NewIntFromString(s)
	if !ok {
		return sdkmath.ZeroInt(), fmt.Errorf("invalid amount %q", s)
	}
	if v.IsNegative() {
		return sdkmath.ZeroInt(), fmt.Errorf("negative amount %q", s)
	}

	return v, nil
}

// MinInt returns the smaller of a and b.
func MinInt(a, b sdkmath.Int) sdkmath.Int {
	if a.LT(b) {
		return a
	}
	return b
}

// Contains checks if a slice contains a specific element
func Contains[T comparable](slice []T, item T) bool {
	for _, elem := range slice {
		if elem == item {
			return true
		}
	}
	return false
}
