// Package oddsmath provides exact decimal arithmetic for combining leg
// odds. Multiplying float64 odds accumulates drift (1.1*1.1*1.1 is
// already off in the 16th digit), which matters when a product sits on
// the boundary of a target interval, so products and range checks go
// through decimal values and only the final rounded total is exported
// as a float.
package oddsmath

import (
	"github.com/shopspring/decimal"
)

// Product multiplies decimal odds exactly. An empty input yields 1.
func Product(odds []float64) decimal.Decimal {
	total := decimal.NewFromInt(1)
	for _, o := range odds {
		total = total.Mul(decimal.NewFromFloat(o))
	}
	return total
}

// InRange reports whether total lies in the closed interval [lo, hi].
func InRange(total decimal.Decimal, lo, hi float64) bool {
	if total.Cmp(decimal.NewFromFloat(lo)) < 0 {
		return false
	}
	return total.Cmp(decimal.NewFromFloat(hi)) <= 0
}

// Rounded returns the total rounded half-up to two decimal places, the
// convention used everywhere a total appears in output.
func Rounded(total decimal.Decimal) float64 {
	f, _ := total.Round(2).Float64()
	return f
}

// RoundedProduct combines Product and Rounded for callers that only
// need the published value.
func RoundedProduct(odds []float64) float64 {
	return Rounded(Product(odds))
}

// Implied converts decimal odds to an implied probability in (0, 1].
// Odds at or below 1.0 yield 0.
func Implied(odds float64) float64 {
	if odds <= 1.0 {
		return 0
	}
	return 1.0 / odds
}
