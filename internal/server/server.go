package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"importcalc/internal/courier"
	"importcalc/internal/money"
	"importcalc/internal/quote"
	"importcalc/internal/tax"
	"importcalc/internal/units"
)

const maxBodyBytes = 64 << 10

type Server struct {
	calc *quote.Calculator
	norm Normalizer
	log  *zap.Logger
}

// Options tune a Server. The zero value is usable.
type Options struct {
	DefaultFXRate float64
	Logger        *zap.Logger
}

func New(calc *quote.Calculator) http.Handler {
	return NewWithOptions(calc, Options{})
}

// NewWithOptions allows injecting a logger and the fallback FX rate.
func NewWithOptions(calc *quote.Calculator, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		calc: calc,
		norm: Normalizer{DefaultFXRate: opts.DefaultFXRate},
		log:  logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/couriers", s.handleListCouriers)
		r.Get("/couriers/{id}/fees", s.handleCourierFees)
		r.Post("/taxes", s.handleTaxes)
		r.Post("/quotes", s.handleQuotes)
		r.Get("/sources", s.handleSources)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Couriers
type CourierListResponse struct {
	Couriers []courier.Profile `json:"couriers"`
}

func (s *Server) handleListCouriers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CourierListResponse{Couriers: s.calc.Catalog().Profiles()})
}

type CourierFeesResponse struct {
	courier.Result
	Display map[string]string `json:"display"`
}

func (s *Server) handleCourierFees(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "courier id required")
		return
	}
	in, err := s.norm.FromQuery(r.URL.Query())
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	res, err := s.calc.Catalog().Quote(courier.Request{
		CourierID: id,
		WeightLb:  units.ToLb(in.Weight, in.Unit),
		ValueUSD:  in.ValueUSD,
		Interior:  in.Interior,
		FXRate:    in.FXRate,
	})
	if err != nil {
		if errors.Is(err, courier.ErrCourierNotFound) {
			writeErrorJSON(w, http.StatusNotFound, "courier_not_found", "courier not found")
			return
		}
		writeErrorJSON(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}
	display := map[string]string{"subtotal_usd": money.FormatUSD(res.SubtotalUSD)}
	if res.FXApplied {
		display["subtotal_dop"] = money.FormatDOP(res.SubtotalDOP)
	}
	writeJSON(w, http.StatusOK, CourierFeesResponse{Result: res, Display: display})
}

// Taxes
type TaxResponse struct {
	tax.Result
	Warnings []string          `json:"warnings"`
	Display  map[string]string `json:"display"`
}

func (s *Server) handleTaxes(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	res := s.calc.Tax(in)
	warnings := tax.Warnings(res.Mode, in.ValueUSD, in.ShippingUSD, in.TariffPct)
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, TaxResponse{Result: res, Warnings: warnings, Display: taxDisplay(res)})
}

// Quotes
type QuoteResponse struct {
	quote.Quote
	Display map[string]string `json:"display"`
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeInput(w, r)
	if !ok {
		return
	}
	q := s.calc.Calculate(in)
	display := taxDisplay(q.Tax)
	if q.Courier.Available {
		display["courier_median_usd"] = money.FormatUSD(q.Courier.MedianUSD)
		display["courier_min_usd"] = money.FormatUSD(q.Courier.MinUSD)
		display["courier_max_usd"] = money.FormatUSD(q.Courier.MaxUSD)
		if q.Courier.FXApplied {
			display["courier_median_dop"] = money.FormatDOP(q.Courier.MedianDOP)
		}
	}
	if q.Local.Available {
		display["local_total_dop"] = money.FormatDOP(q.Local.TotalDOP)
	}
	if q.PaidOnlineUSD > 0 {
		display["paid_online_usd"] = money.FormatUSD(q.PaidOnlineUSD)
	}
	s.log.Debug("quote computed",
		zap.String("mode", string(q.Mode)),
		zap.Bool("courier_available", q.Courier.Available),
		zap.Bool("custom_rate", q.Courier.Custom),
		zap.String("request_id", w.Header().Get("X-Request-ID")),
	)
	writeJSON(w, http.StatusOK, QuoteResponse{Quote: q, Display: display})
}

// Sources
type SourcesResponse struct {
	Sources []tax.Source `json:"sources"`
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SourcesResponse{Sources: tax.Sources})
}

func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (quote.Input, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "read_error", "read error")
		return quote.Input{}, false
	}
	in, err := s.norm.FromJSON(body)
	if err != nil {
		if errors.Is(err, ErrInvalidUnit) || errors.Is(err, ErrInvalidMode) {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_request", err.Error())
		} else {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		}
		return quote.Input{}, false
	}
	return in, true
}

func taxDisplay(res tax.Result) map[string]string {
	return map[string]string{
		"base_usd":        money.FormatUSD(res.BaseUSD),
		"tax_total_usd":   money.FormatUSD(res.TaxTotalUSD),
		"tax_due_usd":     money.FormatUSD(res.TaxDueUSD),
		"grand_total_usd": money.FormatUSD(res.GrandTotalUSD),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", w.Header().Get("X-Request-ID")),
		)
	})
}
