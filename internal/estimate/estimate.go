// Package estimate turns courier rate cards into a market estimate: the
// min, median and max of what the known couriers would charge.
package estimate

import (
	"sort"

	"importcalc/internal/courier"
	"importcalc/internal/money"
)

// Reasons an estimate is not available.
const (
	ReasonWeightRequired = "weight_required"
	ReasonNoCourierRates = "no_courier_rates"
)

// Estimator defines the interface for courier cost estimation.
type Estimator interface {
	Estimate(req Request) Estimate
}

// Request is the shipment an estimate is computed for.
type Request struct {
	WeightLb float64
	ValueUSD float64
	Interior bool
	// FXRate converts USD to DOP; 0 means no rate was entered.
	FXRate float64
}

// CourierQuote is one courier's contribution to a market estimate.
type CourierQuote struct {
	CourierID   string  `json:"courier_id"`
	Name        string  `json:"name"`
	SubtotalUSD float64 `json:"subtotal_usd"`
}

// Estimate is a min/median/max range. When Available is false the figures are
// meaningless and Reason says why; it must not be shown as a $0 cost.
type Estimate struct {
	Available      bool           `json:"available"`
	Reason         string         `json:"reason,omitempty"`
	Custom         bool           `json:"custom"`
	BilledWeightLb float64        `json:"billed_weight_lb,omitempty"`
	Quotes         []CourierQuote `json:"quotes,omitempty"`
	MinUSD         float64        `json:"min_usd"`
	MedianUSD      float64        `json:"median_usd"`
	MaxUSD         float64        `json:"max_usd"`
	MinDOP         float64        `json:"min_dop"`
	MedianDOP      float64        `json:"median_dop"`
	MaxDOP         float64        `json:"max_dop"`
	FXApplied      bool           `json:"fx_applied"`
}

func unavailable(reason string) Estimate {
	return Estimate{Reason: reason}
}

// Market aggregates every non-manual courier of a catalog.
type Market struct {
	catalog *courier.Catalog
}

func NewMarket(catalog *courier.Catalog) *Market { return &Market{catalog: catalog} }

// Estimate quotes each courier without currency conversion, keeps the positive
// subtotals and summarises them. Couriers that fail or charge nothing are skipped.
func (m *Market) Estimate(req Request) Estimate {
	weight := money.NonNegative(req.WeightLb)
	if weight <= 0 {
		return unavailable(ReasonWeightRequired)
	}

	var (
		totals []float64
		quotes []CourierQuote
	)
	for _, id := range m.catalog.IDs() {
		if id == courier.ManualID {
			continue
		}
		res, err := m.catalog.Quote(courier.Request{
			CourierID: id,
			WeightLb:  weight,
			ValueUSD:  req.ValueUSD,
			Interior:  req.Interior,
		})
		if err != nil || res.SubtotalUSD <= 0 {
			continue
		}
		totals = append(totals, res.SubtotalUSD)
		quotes = append(quotes, CourierQuote{CourierID: res.CourierID, Name: res.Name, SubtotalUSD: res.SubtotalUSD})
	}

	est, ok := Summarize(totals, req.FXRate)
	if !ok {
		return unavailable(ReasonNoCourierRates)
	}
	est.Quotes = quotes
	return est
}

// Summarize returns the min, median and max of totals converted at fx.
// It reports false when totals is empty.
func Summarize(totals []float64, fx float64) (Estimate, bool) {
	if len(totals) == 0 {
		return Estimate{}, false
	}
	sorted := append([]float64(nil), totals...)
	sort.Float64s(sorted)

	est := Estimate{
		Available: true,
		MinUSD:    sorted[0],
		MedianUSD: Median(sorted),
		MaxUSD:    sorted[len(sorted)-1],
	}
	est.convert(fx)
	return est, true
}

// Median of an ascending slice; the mean of the middle pair for even lengths.
// Median of an empty slice is 0.
func Median(sorted []float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n%2 == 1:
		return sorted[n/2]
	default:
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
}

func (e *Estimate) convert(fx float64) {
	if !money.RateSet(fx) {
		return
	}
	e.MinDOP = e.MinUSD * fx
	e.MedianDOP = e.MedianUSD * fx
	e.MaxDOP = e.MaxUSD * fx
	e.FXApplied = true
}
