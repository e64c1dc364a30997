package server

import (
	"net/url"
	"testing"

	"importcalc/internal/estimate"
	"importcalc/internal/tax"
	"importcalc/internal/units"
)

func TestNormalizer_ClampsToFormLimits(t *testing.T) {
	n := Normalizer{DefaultFXRate: 58.5}
	in, err := n.FromJSON([]byte(`{
		"value": 250000, "shipping_usd": -5, "weight": 900, "tariff": 80,
		"selectivo_pct": "12.5", "fx": 5000, "customRate": 250, "customWeightRule": "min1",
		"importFeesPaid": true, "is_interior": "on"
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ValueUSD != 100000 || in.ShippingUSD != 0 || in.Weight != 500 || in.TariffPct != 50 {
		t.Fatalf("unexpected clamping: %+v", in)
	}
	if in.SelectivoPct != 12.5 || in.FXRate != 1000 || in.CustomRate != 100 {
		t.Fatalf("unexpected clamping: %+v", in)
	}
	if in.CustomRule != estimate.CustomMin1 || !in.ImportFeesPaid || !in.Interior {
		t.Fatalf("unexpected flags: %+v", in)
	}
	if in.Unit != units.LB || in.Mode != "" {
		t.Fatalf("unexpected defaults: %+v", in)
	}
}

func TestNormalizer_FXDefaultAndExplicitZero(t *testing.T) {
	n := Normalizer{DefaultFXRate: 58.5}
	in, err := n.FromQuery(url.Values{"weight": {"2"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.FXRate != 58.5 {
		t.Fatalf("expected default fx, got %v", in.FXRate)
	}
	in, err = n.FromQuery(url.Values{"fx_rate": {"0"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.FXRate != 0 {
		t.Fatalf("explicit 0 should disable conversion, got %v", in.FXRate)
	}
}

func TestNormalizer_UnparseableNumbersAreZero(t *testing.T) {
	in, err := Normalizer{}.FromQuery(url.Values{"value": {"abc"}, "weight": {"NaN"}, "unit": {"KG"}, "mode": {"OVER200"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.ValueUSD != 0 || in.Weight != 0 {
		t.Fatalf("expected zeros, got %+v", in)
	}
	if in.Unit != units.KG || in.Mode != tax.ModeOver200 {
		t.Fatalf("unexpected unit/mode: %+v", in)
	}
	if in.CustomRule != estimate.CustomCeil {
		t.Fatalf("expected ceil default, got %q", in.CustomRule)
	}
}

func TestNormalizer_WeightKgKeyImpliesKg(t *testing.T) {
	in, err := Normalizer{}.FromJSON([]byte(`{"weight_kg": 3}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Unit != units.KG || in.Weight != 3 {
		t.Fatalf("unexpected input: %+v", in)
	}
}

func TestNormalizer_Errors(t *testing.T) {
	if _, err := (Normalizer{}).FromQuery(url.Values{"unit": {"stone"}}); err != ErrInvalidUnit {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
	if _, err := (Normalizer{}).FromQuery(url.Values{"mode": {"both"}}); err != ErrInvalidMode {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if _, err := (Normalizer{}).FromJSON([]byte(`[1,2]`)); err == nil {
		t.Fatalf("expected decode error for non-object body")
	}
}

func TestNormalizer_StoreCharges(t *testing.T) {
	in, err := Normalizer{}.FromJSON([]byte(`{"storeShipping": 20000, "checkout_tax_usd": "7.5"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.StoreShippingUSD != 10000 || in.CheckoutTaxUSD != 7.5 {
		t.Fatalf("unexpected store charges: %+v", in)
	}
}
