// Package money holds the USD/DOP conversion rule, input sanitising helpers and
// the 2-decimal display formatting used by every calculator response.
package money

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// displayCap is the largest amount rendered verbatim; larger values are shown as "999,999,999.00+".
const displayCap = 999999999

var printer = message.NewPrinter(language.English)

// NonNegative maps negative, NaN and infinite values to 0.
func NonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// Clamp bounds v to [lo, hi]. NaN becomes lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RateSet reports whether fx is a usable USD→DOP rate. A rate of 0 means "not entered".
func RateSet(fx float64) bool {
	return fx > 0 && !math.IsInf(fx, 0) && !math.IsNaN(fx)
}

// ToDOP converts usd at fx. The second result is false when no rate is set,
// in which case the amount is 0 and must not be displayed as a real figure.
func ToDOP(usd, fx float64) (float64, bool) {
	if !RateSet(fx) {
		return 0, false
	}
	return usd * fx, true
}

// exactExp is small enough for NewFromFloatWithExponent to keep every binary
// digit of a float64.
const exactExp = -1074

// Round2 rounds the exact binary value of v half away from zero to 2 decimal
// places, so 1.005 (stored as 1.00499...) renders as 1.00.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloatWithExponent(v, exactExp).Round(2).InexactFloat64()
}

// FormatUSD renders n as "US$ 1,234.56".
func FormatUSD(n float64) string { return format("US$", n) }

// FormatDOP renders n as "RD$ 1,234.56".
func FormatDOP(n float64) string { return format("RD$", n) }

func format(prefix string, n float64) string {
	if math.IsNaN(n) {
		n = 0
	}
	if n > displayCap {
		return prefix + " 999,999,999.00+"
	}
	return prefix + " " + printer.Sprintf("%.2f", Round2(n))
}
