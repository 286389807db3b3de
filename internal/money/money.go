// Package money holds the arithmetic shared by every cost calculation.
package money

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Cents is the precision reported for every cost and savings figure.
const Cents int32 = 2

// Round rounds the exact binary value of x to places decimal places, ties to
// even. 1.005 is stored as 1.00499999999999989... and so rounds to 1.0, while
// an exact tie such as 0.125 goes to the even digit, 0.12.
func Round(x float64, places int32) float64 {
	d, err := exact(x)
	if err != nil {
		return x
	}
	f, _ := d.RoundBank(places).Float64()
	return f
}

// RoundCents rounds x to whole cents.
func RoundCents(x float64) float64 {
	return Round(x, Cents)
}

// exact expands x into every decimal digit of its binary value.
func exact(x float64) (decimal.Decimal, error) {
	_, exp := math.Frexp(x)
	digits := 53 - exp
	if digits < 0 {
		digits = 0
	}
	if digits > 1074 {
		digits = 1074
	}
	return decimal.NewFromString(strconv.FormatFloat(x, 'f', digits, 64))
}

// RowCost prices one period: energy imported is paid at the full price, energy
// exported is credited at price×exportFactor. Negative results are income.
func RowCost(fromGridKWh, toGridKWh, price, exportFactor float64) float64 {
	return fromGridKWh*price - toGridKWh*price*exportFactor
}
