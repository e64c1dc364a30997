// Package quote combines the tax and courier calculators into the full figure
// a shopper sees: taxes, courier estimate and the local total in pesos.
package quote

import (
	"errors"

	"importcalc/internal/courier"
	"importcalc/internal/estimate"
	"importcalc/internal/money"
	"importcalc/internal/tax"
	"importcalc/internal/units"
)

// Input carries every value a calculation depends on. Nothing is kept between calls.
type Input struct {
	ValueUSD    float64
	Weight      float64
	Unit        units.Unit
	ShippingUSD float64
	// StoreShippingUSD and CheckoutTaxUSD are what the store charged on top
	// of the item at checkout. They only feed PaidOnlineUSD.
	StoreShippingUSD float64
	CheckoutTaxUSD   float64
	TariffPct        float64
	SelectivoPct     float64
	ImportFeesPaid   bool
	Interior         bool
	FXRate           float64
	CustomRate       float64
	CustomRule       estimate.CustomRule
	// Mode forces a regime; empty selects it from ValueUSD.
	Mode tax.Mode
}

// Quote is the result of Calculate.
type Quote struct {
	Mode     tax.Mode          `json:"mode"`
	Tax      tax.Result        `json:"tax"`
	Warnings []string          `json:"warnings"`
	WeightLb float64           `json:"weight_lb"`
	Courier  estimate.Estimate `json:"courier"`
	// PaidOnlineUSD is what the shopper already paid the store: item value,
	// store shipping and checkout tax.
	PaidOnlineUSD float64        `json:"paid_online_usd"`
	Local         estimate.Local `json:"local"`
	FXRate        float64        `json:"fx_rate"`
}

// Calculator runs calculations against a courier catalog.
type Calculator struct {
	catalog *courier.Catalog
}

// NewCalculator returns a Calculator backed by catalog.
func NewCalculator(catalog *courier.Catalog) (*Calculator, error) {
	if catalog == nil {
		return nil, errors.New("quote: courier catalog is required")
	}
	return &Calculator{catalog: catalog}, nil
}

// Catalog returns the courier catalog the calculator quotes against.
func (c *Calculator) Catalog() *courier.Catalog { return c.catalog }

// Tax runs the tax regime for in alone.
func (c *Calculator) Tax(in Input) tax.Result {
	if modeOf(in) == tax.ModeOver200 {
		return tax.CalcOver200(tax.OverInput{
			ValueUSD:       in.ValueUSD,
			ShippingUSD:    in.ShippingUSD,
			TariffPct:      in.TariffPct,
			SelectivoPct:   in.SelectivoPct,
			ImportFeesPaid: in.ImportFeesPaid,
		})
	}
	return tax.CalcUnder200(tax.UnderInput{
		ValueUSD: in.ValueUSD,
		Weight:   in.Weight,
		Unit:     in.Unit,
	})
}

// Calculate computes taxes, the courier estimate and the local total for in.
func (c *Calculator) Calculate(in Input) Quote {
	mode := modeOf(in)
	taxRes := c.Tax(in)
	weightLb := units.ToLb(in.Weight, in.Unit)

	est := estimate.New(c.catalog, estimate.Custom{RatePerLb: in.CustomRate, Rule: in.CustomRule}).
		Estimate(estimate.Request{
			WeightLb: weightLb,
			ValueUSD: in.ValueUSD,
			Interior: in.Interior,
			FXRate:   in.FXRate,
		})

	warnings := tax.Warnings(mode, in.ValueUSD, in.ShippingUSD, in.TariffPct)
	if warnings == nil {
		warnings = []string{}
	}

	paidOnline := money.NonNegative(in.ValueUSD) +
		money.NonNegative(in.StoreShippingUSD) +
		money.NonNegative(in.CheckoutTaxUSD)

	return Quote{
		Mode:          mode,
		Tax:           taxRes,
		Warnings:      warnings,
		WeightLb:      weightLb,
		Courier:       est,
		PaidOnlineUSD: paidOnline,
		Local:         estimate.LocalTotal(taxRes.TaxDueUSD, est, in.FXRate),
		FXRate:        in.FXRate,
	}
}

func modeOf(in Input) tax.Mode {
	if in.Mode.Valid() {
		return in.Mode
	}
	return tax.ModeFor(in.ValueUSD)
}
