package estimate

import (
	"math"
	"strings"

	"importcalc/internal/courier"
	"importcalc/internal/money"
)

// MaxCustomRate bounds a user-entered USD per pound rate.
const MaxCustomRate = 100.0

// CustomRule is the billed weight rule applied to a custom rate.
type CustomRule string

const (
	CustomCeil  CustomRule = "ceil"
	CustomExact CustomRule = "exact"
	CustomMin1  CustomRule = "min1"
)

// ParseCustomRule maps s to a rule; empty or unknown values yield CustomCeil and false.
func ParseCustomRule(s string) (CustomRule, bool) {
	switch r := CustomRule(strings.ToLower(strings.TrimSpace(s))); r {
	case CustomCeil, CustomExact, CustomMin1:
		return r, true
	default:
		return CustomCeil, false
	}
}

// Billed returns the billed weight for weightLb.
func (r CustomRule) Billed(weightLb float64) float64 {
	if weightLb <= 0 {
		return 0
	}
	switch r {
	case CustomMin1:
		return math.Max(1, math.Ceil(weightLb))
	case CustomExact:
		return weightLb
	default:
		return math.Ceil(weightLb)
	}
}

// Custom prices a shipment at a rate the shopper already knows. There is no
// range: min, median and max are the same figure.
type Custom struct {
	RatePerLb float64
	Rule      CustomRule
}

func (c Custom) rate() float64 {
	return money.Clamp(c.RatePerLb, 0, MaxCustomRate)
}

// Estimate multiplies the billed weight by the custom rate.
func (c Custom) Estimate(req Request) Estimate {
	weight := money.NonNegative(req.WeightLb)
	if weight <= 0 {
		return unavailable(ReasonWeightRequired)
	}
	billed := c.Rule.Billed(weight)
	total := billed * c.rate()

	est := Estimate{
		Available:      true,
		Custom:         true,
		BilledWeightLb: billed,
		MinUSD:         total,
		MedianUSD:      total,
		MaxUSD:         total,
	}
	est.convert(req.FXRate)
	return est
}

// New picks the custom estimator when a positive custom rate is given and the
// catalog's market estimate otherwise.
func New(catalog *courier.Catalog, custom Custom) Estimator {
	if custom.rate() > 0 {
		return custom
	}
	return NewMarket(catalog)
}
