// Package tax computes Dominican Republic import taxes for courier shipments.
//
// Shipments declared below Threshold pay only the DGA service fee per kilogram
// or fraction. Shipments at or above it pay tariff, selectivo and ITBIS on the
// CIF value. Callers choose the regime; see ModeFor.
package tax

import (
	"fmt"
	"math"
	"strconv"

	"importcalc/internal/money"
	"importcalc/internal/units"
)

const (
	// Threshold is the declared value in USD from which the CIF regime applies.
	Threshold = 200.0

	dgaFeePerKg = 0.25
	itbisRate   = 0.18
)

// Mode selects the tax regime.
type Mode string

const (
	ModeUnder200 Mode = "under200"
	ModeOver200  Mode = "over200"
)

// Valid reports whether m is a known regime.
func (m Mode) Valid() bool {
	return m == ModeUnder200 || m == ModeOver200
}

// ModeFor returns the regime for a declared value.
func ModeFor(valueUSD float64) Mode {
	if money.NonNegative(valueUSD) >= Threshold {
		return ModeOver200
	}
	return ModeUnder200
}

// LineItem is one tax component.
type LineItem struct {
	Label    string  `json:"label"`
	ValueUSD float64 `json:"value_usd"`
	Note     string  `json:"note,omitempty"`
}

// Result is an itemised tax breakdown.
// GrandTotalUSD == BaseUSD + TaxDueUSD and TaxDueUSD <= TaxTotalUSD.
type Result struct {
	Mode          Mode       `json:"mode"`
	BaseUSD       float64    `json:"base_usd"`
	TaxTotalUSD   float64    `json:"tax_total_usd"`
	TaxDueUSD     float64    `json:"tax_due_usd"`
	GrandTotalUSD float64    `json:"grand_total_usd"`
	LineItems     []LineItem `json:"line_items"`
}

// UnderInput is the input of CalcUnder200.
type UnderInput struct {
	ValueUSD float64
	Weight   float64
	Unit     units.Unit
}

// OverInput is the input of CalcOver200.
type OverInput struct {
	ValueUSD       float64
	ShippingUSD    float64
	TariffPct      float64
	SelectivoPct   float64
	ImportFeesPaid bool
}

// CalcUnder200 charges the DGA service fee per kilogram or fraction.
// Invalid numbers are treated as 0.
func CalcUnder200(in UnderInput) Result {
	value := money.NonNegative(in.ValueUSD)
	weight := money.NonNegative(in.Weight)

	kg := units.ToKg(weight, in.Unit)
	var billedKg float64
	if kg > 0 {
		billedKg = math.Ceil(kg)
	}
	fee := dgaFeePerKg * billedKg

	item := LineItem{
		Label:    fmt.Sprintf("Tasa DGA (US$0.25 × %.0f kg)", billedKg),
		ValueUSD: fee,
	}
	if kg > 0 {
		item.Note = fmt.Sprintf("Peso: %.2f kg (redondeado a %.0f kg)", kg, billedKg)
	}

	return Result{
		Mode:          ModeUnder200,
		BaseUSD:       value,
		TaxTotalUSD:   fee,
		TaxDueUSD:     fee,
		GrandTotalUSD: value + fee,
		LineItems:     []LineItem{item},
	}
}

// CalcOver200 applies tariff and selectivo on CIF, then ITBIS on CIF plus both.
// When import fees were already paid at checkout the taxes are still reported
// in TaxTotalUSD but nothing is due.
func CalcOver200(in OverInput) Result {
	value := money.NonNegative(in.ValueUSD)
	shipping := money.NonNegative(in.ShippingUSD)
	tariffPct := money.Clamp(in.TariffPct, 0, 100)
	selectivoPct := money.Clamp(in.SelectivoPct, 0, 100)

	cif := value + shipping
	tariff := cif * tariffPct / 100
	selectivo := cif * selectivoPct / 100
	itbis := (cif + tariff + selectivo) * itbisRate

	items := []LineItem{{
		Label:    fmt.Sprintf("Arancel (%s%%)", pct(tariffPct)),
		ValueUSD: tariff,
	}}
	itbisNote := "Sobre CIF + Arancel"
	if selectivo > 0 {
		items = append(items, LineItem{
			Label:    fmt.Sprintf("Selectivo (%s%%)", pct(selectivoPct)),
			ValueUSD: selectivo,
		})
		itbisNote = "Sobre CIF + Arancel + Selectivo"
	}
	items = append(items, LineItem{Label: "ITBIS (18%)", ValueUSD: itbis, Note: itbisNote})

	total := tariff + selectivo + itbis
	due := total
	if in.ImportFeesPaid {
		due = 0
	}

	return Result{
		Mode:          ModeOver200,
		BaseUSD:       cif,
		TaxTotalUSD:   total,
		TaxDueUSD:     due,
		GrandTotalUSD: cif + due,
		LineItems:     items,
	}
}

func pct(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
