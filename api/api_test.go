package api_test

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fxquant/fxlib/api"
	"github.com/fxquant/fxlib/cache"
	"github.com/fxquant/fxlib/curve"
	"github.com/fxquant/fxlib/marketdata"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cc, err := cache.New(1<<20, time.Minute)
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	return api.NewServer(marketdata.NewStore(), cc, zap.NewNop(), curve.MethodQLLogLinear)
}

func doJSON(t *testing.T, s *api.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.R.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestPostPriceVanilla(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rd, rf := 4.5, 3.0
	w := doJSON(t, s, http.MethodPost, "/api/v1/price", map[string]any{
		"optionType":    "call",
		"currencyPair":  "EUR/USD",
		"spotPrice":     1.10,
		"strike":        1.10,
		"maturity":      1.0,
		"volatility":    10.0,
		"domesticRate":  rd,
		"foreignRate":   rf,
		"includeGreeks": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Price        float64 `json:"price"`
		PriceInBase  float64 `json:"priceInBaseCurrency"`
		PriceInQuote float64 `json:"priceInQuoteCurrency"`
		Method       string  `json:"method"`
		Greeks       *struct {
			Delta float64 `json:"delta"`
		} `json:"greeks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Price < 0.050 || resp.Price > 0.052 {
		t.Errorf("price = %v, want ~0.051", resp.Price)
	}
	if math.Abs(resp.PriceInBase-resp.Price/1.10) > 1e-12 {
		t.Errorf("priceInBaseCurrency = %v", resp.PriceInBase)
	}
	if resp.PriceInQuote != resp.Price {
		t.Errorf("priceInQuoteCurrency = %v, want %v", resp.PriceInQuote, resp.Price)
	}
	if resp.Method != "GARMAN_KOHLHAGEN" {
		t.Errorf("method = %q", resp.Method)
	}
	if resp.Greeks == nil || resp.Greeks.Delta <= 0 {
		t.Errorf("greeks missing or delta not positive: %+v", resp.Greeks)
	}
}

func TestPostPriceCashValue(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/v1/price", map[string]any{
		"optionType":   "CALL",
		"currencyPair": "EURUSD",
		"spotPrice":    1.10,
		"strike":       100.0,
		"strikeType":   "percent",
		"maturity":     1.0,
		"volatility":   10.0,
		"domesticRate": 4.5,
		"foreignRate":  3.0,
		"quantity":     10.0,
		"notional":     1000000.0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		CashValue string `json:"cashValue"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CashValue == "" {
		t.Fatal("cashValue missing")
	}
	// ~0.051 * 10 * 1e6
	if !strings.HasPrefix(resp.CashValue, "51") && !strings.HasPrefix(resp.CashValue, "50") {
		t.Errorf("cashValue = %q, want ~510000", resp.CashValue)
	}
}

func TestPostPriceRejectsUnknownType(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/v1/price", map[string]any{
		"optionType":   "STRADDLE",
		"currencyPair": "EURUSD",
		"spotPrice":    1.10,
		"strike":       1.10,
		"maturity":     1.0,
		"volatility":   10.0,
		"domesticRate": 4.5,
		"foreignRate":  3.0,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPostPriceBarrierValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	// Barrier equal to spot is rejected.
	w := doJSON(t, s, http.MethodPost, "/api/v1/price", map[string]any{
		"optionType":   "CALL_KNOCK_OUT",
		"currencyPair": "EURUSD",
		"spotPrice":    1.10,
		"strike":       1.10,
		"barrier":      1.10,
		"maturity":     1.0,
		"volatility":   10.0,
		"domesticRate": 4.5,
		"foreignRate":  3.0,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "invalid_barrier_configuration" {
		t.Errorf("code = %q", resp.Code)
	}
}

func TestPostPriceRateDefaultingRequiresCurve(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/v1/price", map[string]any{
		"optionType":   "CALL",
		"currencyPair": "EURUSD",
		"spotPrice":    1.10,
		"strike":       1.10,
		"maturity":     1.0,
		"volatility":   10.0,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", w.Code, w.Body.String())
	}
}

func TestCurvesRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	usd := map[string]any{
		"currency": "USD",
		"method":   "QL_LOG_LINEAR",
		"quotes": []map[string]any{
			{"tenor": "1Y", "rate": 4.5, "instrument": "swap"},
			{"tenor": "2Y", "rate": 4.7, "instrument": "swap"},
			{"tenor": "3M", "rate": 4.4, "instrument": "future"},
		},
	}
	w := doJSON(t, s, http.MethodPost, "/api/v1/curves", usd)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Currency string `json:"currency"`
		Pillars  []struct {
			Tenor          float64 `json:"tenor"`
			DiscountFactor float64 `json:"discountFactor"`
		} `json:"pillars"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Currency != "USD" || len(resp.Pillars) != 3 {
		t.Fatalf("response = %+v", resp)
	}
	var df1 float64
	for _, p := range resp.Pillars {
		if p.Tenor == 1 {
			df1 = p.DiscountFactor
		}
	}
	if want := math.Exp(-0.045); math.Abs(df1-want) > 1e-8 {
		t.Errorf("DF(1) = %v, want %v", df1, want)
	}

	// Export now works off the stored snapshot.
	wExp := doJSON(t, s, http.MethodGet, "/api/v1/curves/USD/export", nil)
	if wExp.Code != http.StatusOK {
		t.Fatalf("export status = %d, body %s", wExp.Code, wExp.Body.String())
	}
	if !strings.HasPrefix(wExp.Body.String(), "tenor,discountFactor,zeroRate,forwardRate") {
		t.Errorf("export body = %q", wExp.Body.String()[:40])
	}

	// Stored USD curve now backs rate defaulting for the domestic leg.
	wPrice := doJSON(t, s, http.MethodPost, "/api/v1/price", map[string]any{
		"optionType":   "CALL",
		"currencyPair": "EURUSD",
		"spotPrice":    1.10,
		"strike":       1.10,
		"maturity":     1.0,
		"volatility":   10.0,
		"foreignRate":  3.0,
	})
	if wPrice.Code != http.StatusOK {
		t.Fatalf("price status = %d, body %s", wPrice.Code, wPrice.Body.String())
	}
	var priced struct {
		DomesticRate float64 `json:"domesticRate"`
	}
	if err := json.Unmarshal(wPrice.Body.Bytes(), &priced); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(priced.DomesticRate-4.5) > 1e-6 {
		t.Errorf("defaulted domesticRate = %v, want 4.5", priced.DomesticRate)
	}
}

func TestCurvesRejectsBadMethod(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/v1/curves", map[string]any{
		"currency": "USD",
		"method":   "SPLINE_OF_DOOM",
		"quotes": []map[string]any{
			{"tenor": "1Y", "rate": 4.5, "instrument": "swap"},
			{"tenor": "2Y", "rate": 4.7, "instrument": "swap"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCurvesInsufficientData(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/v1/curves", map[string]any{
		"currency": "USD",
		"quotes": []map[string]any{
			{"tenor": "1Y", "rate": 4.5, "instrument": "swap"},
		},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", w.Code, w.Body.String())
	}
}

func TestExportUnknownCurrency(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/v1/curves/JPY/export", nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
}
