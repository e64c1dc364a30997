package courier

import (
	"fmt"

	"importcalc/internal/money"
)

// Request is the input of a fee computation.
type Request struct {
	CourierID string
	WeightLb  float64
	ValueUSD  float64
	Interior  bool
	// FXRate converts USD to DOP; 0 means no rate was entered.
	FXRate float64
}

// LineItem is one charge of a courier result. AmountDOP is set only when a
// rate was applied.
type LineItem struct {
	Label     string  `json:"label"`
	AmountUSD float64 `json:"amount_usd"`
	AmountDOP float64 `json:"amount_dop,omitempty"`
	Note      string  `json:"note,omitempty"`
}

// Result is a courier fee breakdown.
type Result struct {
	CourierID      string     `json:"courier_id"`
	Name           string     `json:"name"`
	BilledWeightLb float64    `json:"billed_weight_lb"`
	LineItems      []LineItem `json:"line_items"`
	SubtotalUSD    float64    `json:"subtotal_usd"`
	SubtotalDOP    float64    `json:"subtotal_dop"`
	FXApplied      bool       `json:"fx_applied"`
	Notes          []string   `json:"notes"`
}

func emptyResult(id string) Result {
	return Result{CourierID: id, LineItems: []LineItem{}, Notes: []string{}}
}

// Fees computes base freight plus extra fees for p. The manual profile, and any
// profile billing by RoundNone, yields a zero result carrying only its notes.
func (p Profile) Fees(req Request) Result {
	res := emptyResult(p.ID)
	res.Name = p.Name
	res.Notes = append(res.Notes, p.Notes...)
	if p.ID == ManualID || p.RoundingRule == RoundNone {
		return res
	}

	weight := money.NonNegative(req.WeightLb)
	value := money.NonNegative(req.ValueUSD)
	billed := p.RoundingRule.Billed(weight)
	res.BilledWeightLb = billed

	if base := billed * lookup(p.RateTiers, billed).Rate; base > 0 {
		res.LineItems = append(res.LineItems, LineItem{
			Label:     fmt.Sprintf("Flete base (%.2f lb)", billed),
			AmountUSD: base,
		})
	}
	for _, f := range p.ExtraFees {
		if !f.Condition.met(req.Interior) {
			continue
		}
		if amt := f.amount(p.RoundingRule, weight, value); amt > 0 {
			res.LineItems = append(res.LineItems, LineItem{Label: f.Name, AmountUSD: amt, Note: f.Note})
		}
	}

	for _, it := range res.LineItems {
		res.SubtotalUSD += it.AmountUSD
	}
	if dop, ok := money.ToDOP(res.SubtotalUSD, req.FXRate); ok {
		res.SubtotalDOP = dop
		res.FXApplied = true
		for i := range res.LineItems {
			res.LineItems[i].AmountDOP = res.LineItems[i].AmountUSD * req.FXRate
		}
	}
	return res
}
