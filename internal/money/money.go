// Package money holds the fixed-point helpers every monetary value in the
// billing engine flows through. Amounts are decimal.Decimal; binary floats
// are never used for money.
package money

import "github.com/shopspring/decimal"

// Quantize rounds a monetary value to two decimal places, half up: a value
// exactly at the midpoint moves away from zero, so 1.005 becomes 1.01 while
// 1.004 becomes 1.00. Every arithmetic step in the bill engine quantizes its
// result once to keep rounding drift out of the aggregates.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FloorUnits truncates a value toward zero to whole currency units. This is
// the rounding used for the amount actually charged: fractional cents below
// one unit are waived, never collected.
func FloorUnits(d decimal.Decimal) int64 {
	return d.IntPart()
}

// Parse converts a decimal string into a quantized monetary value.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return Quantize(d), nil
}
