package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"strconv"
	"strings"

	"importcalc/internal/estimate"
	"importcalc/internal/money"
	"importcalc/internal/quote"
	"importcalc/internal/tax"
	"importcalc/internal/units"
)

var (
	// ErrInvalidUnit is returned when the weight unit is neither lb nor kg.
	ErrInvalidUnit = errors.New("unit must be lb or kg")
	// ErrInvalidMode is returned for a mode other than under200/over200.
	ErrInvalidMode = errors.New("mode must be under200 or over200")
)

type bound struct{ min, max float64 }

// Form limits. Raw input is clamped to them before reaching the calculators.
var (
	boundValue      = bound{0, 100000}
	boundShipping   = bound{0, 10000}
	boundStore      = bound{0, 10000}
	boundCheckout   = bound{0, 10000}
	boundWeight     = bound{0, 500}
	boundTariff     = bound{0, 50}
	boundSelectivo  = bound{0, 50}
	boundFX         = bound{0, 1000}
	boundCustomRate = bound{0, estimate.MaxCustomRate}
)

// Normalizer maps loosely typed form input, from JSON bodies or query strings,
// into a calculator Input. Several spellings of each key are accepted.
type Normalizer struct {
	// DefaultFXRate applies when the input carries no rate at all.
	DefaultFXRate float64
}

// FromJSON decodes a JSON object body.
func (n Normalizer) FromJSON(body []byte) (quote.Input, error) {
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return quote.Input{}, err
	}
	return n.Normalize(payload)
}

// FromQuery reads the first value of each query parameter.
func (n Normalizer) FromQuery(q url.Values) (quote.Input, error) {
	payload := make(map[string]any, len(q))
	for k := range q {
		payload[k] = q.Get(k)
	}
	return n.Normalize(payload)
}

// Normalize applies defaults and form limits to payload.
func (n Normalizer) Normalize(payload map[string]any) (quote.Input, error) {
	in := quote.Input{
		ValueUSD:         getNumber(payload, boundValue, "value_usd", "value"),
		Weight:           getNumber(payload, boundWeight, "weight", "weight_lb", "weight_kg"),
		ShippingUSD:      getNumber(payload, boundShipping, "shipping_usd", "shipping"),
		StoreShippingUSD: getNumber(payload, boundStore, "store_shipping_usd", "storeShipping"),
		CheckoutTaxUSD:   getNumber(payload, boundCheckout, "checkout_tax_usd", "checkoutTax"),
		TariffPct:        getNumber(payload, boundTariff, "tariff_pct", "tariff"),
		SelectivoPct:     getNumber(payload, boundSelectivo, "selectivo_pct", "selectivo"),
		ImportFeesPaid:   getBool(payload, "import_fees_paid", "importFeesPaid"),
		Interior:         getBool(payload, "interior", "is_interior"),
		CustomRate:       getNumber(payload, boundCustomRate, "custom_rate", "customRate"),
		Unit:             units.LB,
	}

	unit := getString(payload, "unit")
	switch {
	case unit != "":
		u, ok := units.ParseUnit(unit)
		if !ok {
			return quote.Input{}, ErrInvalidUnit
		}
		in.Unit = u
	case getAny(payload, "weight_kg") != nil:
		in.Unit = units.KG
	}

	if mode := getString(payload, "mode"); mode != "" {
		in.Mode = tax.Mode(strings.ToLower(mode))
		if !in.Mode.Valid() {
			return quote.Input{}, ErrInvalidMode
		}
	}

	in.CustomRule, _ = estimate.ParseCustomRule(getString(payload, "custom_weight_rule", "customWeightRule"))

	in.FXRate = money.Clamp(n.DefaultFXRate, boundFX.min, boundFX.max)
	if getAny(payload, "fx_rate", "fx") != nil {
		in.FXRate = getNumber(payload, boundFX, "fx_rate", "fx")
	}
	return in, nil
}

// getAny returns the first present, non-empty value among the candidate keys.
func getAny(m map[string]any, keys ...string) any {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v
	}
	return nil
}

func getString(m map[string]any, keys ...string) string {
	if s, ok := getAny(m, keys...).(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// getNumber parses the value leniently; anything unparseable counts as 0.
func getNumber(m map[string]any, b bound, keys ...string) float64 {
	f, ok := toFloat(getAny(m, keys...))
	if !ok || math.IsNaN(f) {
		return b.min
	}
	return money.Clamp(f, b.min, b.max)
}

func getBool(m map[string]any, keys ...string) bool {
	switch t := getAny(m, keys...).(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "on", "yes", "si", "sí":
			return true
		}
	case json.Number:
		return t.String() == "1"
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
