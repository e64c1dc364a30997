package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"importcalc/internal/courier"
	"importcalc/internal/quote"
)

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	catalog, err := courier.Builtin()
	if err != nil {
		t.Fatalf("builtin catalog: %v", err)
	}
	calc, err := quote.NewCalculator(catalog)
	if err != nil {
		t.Fatalf("calculator: %v", err)
	}
	return NewWithOptions(calc, Options{DefaultFXRate: 58.5})
}

func TestHealthz(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body := rr.Body.String(); body != "ok" {
		t.Fatalf("expected body 'ok', got %q", body)
	}
}

func TestRequestIDHeaderPresent(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rid := rr.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rid := rr.Header().Get("X-Request-ID"); rid != "abc-123" {
		t.Fatalf("expected propagated request id, got %q", rid)
	}
}

func TestListCouriers(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/couriers", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var res struct {
		Couriers []struct {
			ID           string `json:"id"`
			RoundingRule string `json:"rounding_rule"`
		} `json:"couriers"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(res.Couriers) != 4 || res.Couriers[0].ID != "bm-cargo" || res.Couriers[1].RoundingRule != "min-1-lb-ceil" {
		t.Fatalf("unexpected couriers: %+v", res.Couriers)
	}
}

func TestCourierFees(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/couriers/aeropaq/fees?weight=1.1&unit=lb&interior=1&fx_rate=60", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
	}
	var res struct {
		BilledWeightLb float64           `json:"billed_weight_lb"`
		SubtotalUSD    float64           `json:"subtotal_usd"`
		SubtotalDOP    float64           `json:"subtotal_dop"`
		FXApplied      bool              `json:"fx_applied"`
		Display        map[string]string `json:"display"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	// billed 2 lb: 2*3.00 freight + 2*0.50 interior
	if res.BilledWeightLb != 2 || res.SubtotalUSD < 6.99 || res.SubtotalUSD > 7.01 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !res.FXApplied || res.SubtotalDOP < 419.99 || res.SubtotalDOP > 420.01 {
		t.Fatalf("unexpected DOP conversion: %+v", res)
	}
	if res.Display["subtotal_usd"] != "US$ 7.00" || res.Display["subtotal_dop"] != "RD$ 420.00" {
		t.Fatalf("unexpected display: %v", res.Display)
	}
}

func TestCourierFees_DefaultFXWhenOmitted(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/couriers/tupaq/fees?weight=2&unit=lb", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var res struct {
		SubtotalDOP float64 `json:"subtotal_dop"`
		FXApplied   bool    `json:"fx_applied"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if !res.FXApplied || res.SubtotalDOP < 350.99 || res.SubtotalDOP > 351.01 {
		t.Fatalf("expected default fx 58.5 applied: %+v", res)
	}
}

func TestQuotes(t *testing.T) {
	h := newHandler(t)
	body := `{"value_usd": 100, "shipping_usd": 50, "tariff_pct": 20, "mode": "over200", "weight": 2, "unit": "lb", "fx_rate": 60}`
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
	}
	var res struct {
		Mode string `json:"mode"`
		Tax  struct {
			TaxTotalUSD   float64 `json:"tax_total_usd"`
			GrandTotalUSD float64 `json:"grand_total_usd"`
		} `json:"tax"`
		Courier struct {
			Available bool    `json:"available"`
			MedianUSD float64 `json:"median_usd"`
		} `json:"courier"`
		Local struct {
			Available bool    `json:"available"`
			TotalDOP  float64 `json:"total_dop"`
		} `json:"local"`
		Display map[string]string `json:"display"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if res.Mode != "over200" || res.Tax.TaxTotalUSD < 62.39 || res.Tax.TaxTotalUSD > 62.41 {
		t.Fatalf("unexpected tax: %+v", res)
	}
	if res.Display["grand_total_usd"] != "US$ 212.40" {
		t.Fatalf("unexpected display: %v", res.Display)
	}
	if !res.Courier.Available || res.Courier.MedianUSD < 5.99 || res.Courier.MedianUSD > 6.01 {
		t.Fatalf("unexpected courier estimate: %+v", res.Courier)
	}
	// (62.4 + 6) * 60
	if !res.Local.Available || res.Local.TotalDOP < 4103.99 || res.Local.TotalDOP > 4104.01 {
		t.Fatalf("unexpected local total: %+v", res.Local)
	}
	if res.Display["local_total_dop"] != "RD$ 4,104.00" {
		t.Fatalf("unexpected local display: %q", res.Display["local_total_dop"])
	}
}

func TestQuotes_NoEstimateIsExplicit(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", strings.NewReader(`{"value": "40"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var res struct {
		Courier struct {
			Available bool   `json:"available"`
			Reason    string `json:"reason"`
		} `json:"courier"`
		Display map[string]string `json:"display"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if res.Courier.Available || res.Courier.Reason != "weight_required" {
		t.Fatalf("expected explicit no-estimate, got %+v", res.Courier)
	}
	if _, ok := res.Display["courier_median_usd"]; ok {
		t.Fatalf("no courier figure should be displayed: %v", res.Display)
	}
}

func TestQuotes_NoLocalTotalWithoutCourierEstimate(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", strings.NewReader(`{"value_usd": 300, "tariff_pct": 20, "fx_rate": 58.5}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var res struct {
		Local struct {
			Available bool    `json:"available"`
			Reason    string  `json:"reason"`
			TotalDOP  float64 `json:"total_dop"`
		} `json:"local"`
		Display map[string]string `json:"display"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if res.Local.Available || res.Local.Reason != "weight_required" || res.Local.TotalDOP != 0 {
		t.Fatalf("expected no local total, got %+v", res.Local)
	}
	if v, ok := res.Display["local_total_dop"]; ok {
		t.Fatalf("local total should not be displayed, got %q", v)
	}
}

func TestTaxes_Under200(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/taxes", strings.NewReader(`{"value_usd": 150, "shipping": 60, "weight_kg": 0.01}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d; body=%s", rr.Code, rr.Body.String())
	}
	var res struct {
		Mode      string   `json:"mode"`
		TaxDueUSD float64  `json:"tax_due_usd"`
		Warnings  []string `json:"warnings"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if res.Mode != "under200" || res.TaxDueUSD != 0.25 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected threshold warning, got %v", res.Warnings)
	}
}

func TestSources(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/sources", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var res struct {
		Sources []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"sources"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if len(res.Sources) != 5 {
		t.Fatalf("expected 5 sources, got %d", len(res.Sources))
	}
}

func TestQuotes_PaidOnlineDisplay(t *testing.T) {
	h := newHandler(t)
	body := `{"value": 100, "store_shipping_usd": 12.5, "checkoutTax": 7}`
	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var res struct {
		PaidOnlineUSD float64           `json:"paid_online_usd"`
		Display       map[string]string `json:"display"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if res.PaidOnlineUSD < 119.49 || res.PaidOnlineUSD > 119.51 {
		t.Fatalf("unexpected paid online: %v", res.PaidOnlineUSD)
	}
	if res.Display["paid_online_usd"] != "US$ 119.50" {
		t.Fatalf("unexpected display: %v", res.Display)
	}
}
