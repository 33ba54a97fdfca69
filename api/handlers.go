package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/fxquant/fxlib/curve"
	"github.com/fxquant/fxlib/marketdata"
	"github.com/fxquant/fxlib/pricing"
	"github.com/fxquant/fxlib/report"
)

// priceRequest carries rates and volatility in percent, matching how desks
// quote them. Nil DomesticRate/ForeignRate means "default from the
// bootstrapped curve of that leg's currency"; if no curve is stored the
// request is rejected rather than silently defaulted.
type priceRequest struct {
	OptionType    string   `json:"optionType"`
	CurrencyPair  string   `json:"currencyPair"`
	SpotPrice     float64  `json:"spotPrice"`
	Strike        float64  `json:"strike"`
	StrikeType    string   `json:"strikeType"` // "percent" or "absolute" (default)
	Maturity      float64  `json:"maturity"`   // years
	Volatility    float64  `json:"volatility"` // percent
	DomesticRate  *float64 `json:"domesticRate,omitempty"`
	ForeignRate   *float64 `json:"foreignRate,omitempty"`
	Barrier       float64  `json:"barrier,omitempty"`
	SecondBarrier float64  `json:"secondBarrier,omitempty"`
	BarrierType   string   `json:"barrierType,omitempty"`
	Rebate        float64  `json:"rebate,omitempty"`
	PayAtTouch    bool     `json:"payAtTouch,omitempty"`
	IncludeGreeks bool     `json:"includeGreeks,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	Notional      *float64 `json:"notional,omitempty"`
}

type priceResponse struct {
	Price        float64         `json:"price"`
	PriceInBase  float64         `json:"priceInBaseCurrency"`
	PriceInQuote float64         `json:"priceInQuoteCurrency"`
	Method       string          `json:"method"`
	DomesticRate float64         `json:"domesticRate"` // percent, as resolved
	ForeignRate  float64         `json:"foreignRate"`  // percent, as resolved
	Greeks       *pricing.Greeks `json:"greeks,omitempty"`
	CashValue    string          `json:"cashValue,omitempty"`
}

func (s *Server) postPrice(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}

	kind := pricing.Kind(strings.ToUpper(strings.TrimSpace(req.OptionType)))
	if !kind.IsVanilla() && !kind.IsBarrier() && !kind.IsDigital() {
		s.badRequest(c, fmt.Sprintf("unknown optionType %q", req.OptionType))
		return
	}

	base, quote, err := splitPair(req.CurrencyPair)
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}
	// Domestic leg is the quote currency, foreign leg the base currency.
	rd, err := s.resolveRate(req.DomesticRate, quote, req.Maturity)
	if err != nil {
		s.unprocessable(c, "domesticRate: "+err.Error())
		return
	}
	rf, err := s.resolveRate(req.ForeignRate, base, req.Maturity)
	if err != nil {
		s.unprocessable(c, "foreignRate: "+err.Error())
		return
	}

	strikePct := strings.EqualFold(req.StrikeType, "percent")
	barrierPct := strings.EqualFold(req.BarrierType, "percent")
	vol := req.Volatility / 100

	var result pricing.Result
	switch {
	case kind.IsVanilla():
		o, err := pricing.NewVanillaOption(kind, req.SpotPrice, req.Strike, strikePct, req.Maturity, vol, rd, rf)
		if err != nil {
			s.pricingError(c, err)
			return
		}
		result, err = pricing.PriceVanilla(o)
		if err != nil {
			s.pricingError(c, err)
			return
		}
		if req.IncludeGreeks {
			g, err := pricing.VanillaGreeks(o)
			if err != nil {
				s.pricingError(c, err)
				return
			}
			result.Greeks = &g
		}
	case kind.IsBarrier():
		o, err := pricing.NewBarrierOption(kind, req.SpotPrice, req.Strike, strikePct,
			req.Barrier, req.SecondBarrier, barrierPct, req.Maturity, vol, rd, rf)
		if err != nil {
			s.pricingError(c, err)
			return
		}
		result, err = pricing.PriceBarrier(o)
		if err != nil {
			s.pricingError(c, err)
			return
		}
		if req.IncludeGreeks {
			g, err := pricing.BarrierGreeks(o)
			if err != nil {
				s.pricingError(c, err)
				return
			}
			result.Greeks = &g
		}
	default:
		rebate := req.Rebate
		if rebate == 0 {
			rebate = 1
		}
		o, err := pricing.NewDigitalOption(kind, req.SpotPrice, req.Barrier, req.SecondBarrier, barrierPct,
			rebate, req.PayAtTouch, req.Maturity, vol, rd, rf)
		if err != nil {
			s.pricingError(c, err)
			return
		}
		result, err = pricing.PriceDigital(o)
		if err != nil {
			s.pricingError(c, err)
			return
		}
		if req.IncludeGreeks {
			g, err := pricing.DigitalGreeks(o)
			if err != nil {
				s.pricingError(c, err)
				return
			}
			result.Greeks = &g
		}
	}

	resp := priceResponse{
		Price:        result.Price,
		PriceInBase:  result.PriceInBase,
		PriceInQuote: result.Price,
		Method:       result.Method,
		DomesticRate: rd * 100,
		ForeignRate:  rf * 100,
		Greeks:       result.Greeks,
	}
	if req.Quantity != nil && req.Notional != nil {
		cash := decimal.NewFromFloat(result.Price).
			Mul(decimal.NewFromFloat(*req.Quantity)).
			Mul(decimal.NewFromFloat(*req.Notional))
		resp.CashValue = cash.StringFixed(4)
	}
	c.JSON(http.StatusOK, resp)
}

type curvesRequest struct {
	Currency string                  `json:"currency"`
	Method   string                  `json:"method"`
	Records  []marketdata.FeedRecord `json:"quotes"`
}

type pillarJSON struct {
	Tenor          float64 `json:"tenor"`
	DiscountFactor float64 `json:"discountFactor"`
	ZeroRate       float64 `json:"zeroRate"`
	Source         string  `json:"source"`
}

type curvesResponse struct {
	Currency string       `json:"currency"`
	Method   string       `json:"method"`
	MaxTenor float64      `json:"maxTenor"`
	Pillars  []pillarJSON `json:"pillars"`
}

func (s *Server) postCurves(c *gin.Context) {
	var req curvesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Currency == "" {
		s.badRequest(c, "currency is required")
		return
	}
	method := s.DefaultMethod
	if req.Method != "" {
		m, ok := curve.ParseMethod(strings.ToUpper(req.Method))
		if !ok {
			s.badRequest(c, fmt.Sprintf("unknown method %q", req.Method))
			return
		}
		method = m
	}

	quotes, err := marketdata.Normalize(req.Records)
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}

	cv, err := s.Curves.GetOrBuild(req.Currency, quotes, method)
	if err != nil {
		s.curveError(c, err)
		return
	}
	// Direct submission replaces the stored snapshot, same as the feed.
	s.Store.Put(req.Currency, quotes)

	resp := curvesResponse{
		Currency: cv.Currency(),
		Method:   string(cv.Method()),
		MaxTenor: cv.MaxTenor(),
	}
	for _, p := range cv.Pillars() {
		resp.Pillars = append(resp.Pillars, pillarJSON{
			Tenor:          p.Tenor,
			DiscountFactor: p.DF,
			ZeroRate:       p.Zero,
			Source:         string(p.Source),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) exportCurve(c *gin.Context) {
	currency := strings.ToUpper(strings.TrimSpace(c.Param("currency")))
	method := s.DefaultMethod
	if raw := c.Query("method"); raw != "" {
		m, ok := curve.ParseMethod(strings.ToUpper(raw))
		if !ok {
			s.badRequest(c, fmt.Sprintf("unknown method %q", raw))
			return
		}
		method = m
	}

	quotes, ok := s.Store.Get(currency)
	if !ok {
		s.unprocessable(c, fmt.Sprintf("no quotes stored for %s", currency))
		return
	}
	cv, err := s.Curves.GetOrBuild(currency, quotes, method)
	if err != nil {
		s.curveError(c, err)
		return
	}

	rows := report.DiscountFactorTable(cv, nil)
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s_%s.csv", currency, method))
	if err := report.WriteCSV(c.Writer, rows); err != nil {
		s.internalError(c, "exportCurve", err)
	}
}

// resolveRate returns the rate in decimal. A nil override defaults from the
// stored curve of the given currency at the requested maturity.
func (s *Server) resolveRate(pct *float64, currency string, maturityYears float64) (float64, error) {
	if pct != nil {
		return *pct / 100, nil
	}
	quotes, ok := s.Store.Get(currency)
	if !ok {
		return 0, fmt.Errorf("no rate given and no curve stored for %s", currency)
	}
	cv, err := s.Curves.GetOrBuild(currency, quotes, s.DefaultMethod)
	if err != nil {
		return 0, fmt.Errorf("bootstrap %s: %w", currency, err)
	}
	return cv.ZeroRate(maturityYears), nil
}

// splitPair accepts "USD/KRW" or "USDKRW" and returns (base, quote).
func splitPair(pair string) (string, string, error) {
	p := strings.ToUpper(strings.TrimSpace(pair))
	if i := strings.IndexByte(p, '/'); i > 0 {
		base, quote := p[:i], p[i+1:]
		if len(base) != 3 || len(quote) != 3 {
			return "", "", fmt.Errorf("invalid currencyPair %q", pair)
		}
		return base, quote, nil
	}
	if len(p) != 6 {
		return "", "", fmt.Errorf("invalid currencyPair %q", pair)
	}
	return p[:3], p[3:], nil
}

func (s *Server) pricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidOptionParameters):
		c.JSON(http.StatusBadRequest, apiError{Code: "invalid_option_parameters", Message: err.Error()})
	case errors.Is(err, pricing.ErrInvalidBarrierConfiguration):
		c.JSON(http.StatusBadRequest, apiError{Code: "invalid_barrier_configuration", Message: err.Error()})
	default:
		s.internalError(c, "pricing", err)
	}
}

func (s *Server) curveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, curve.ErrInsufficientData):
		c.JSON(http.StatusBadRequest, apiError{Code: "insufficient_data", Message: err.Error()})
	case errors.Is(err, curve.ErrNonConvergence):
		c.JSON(http.StatusUnprocessableEntity, apiError{Code: "non_convergence", Message: err.Error()})
	case errors.Is(err, curve.ErrNegativeForward):
		c.JSON(http.StatusUnprocessableEntity, apiError{Code: "negative_forward", Message: err.Error()})
	default:
		s.internalError(c, "bootstrap", err)
	}
}
