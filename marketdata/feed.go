// Package marketdata normalizes raw rate-feed records into calibration
// quotes and holds the latest snapshot per currency.
package marketdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fxquant/fxlib/curve"
)

// FeedRecord is one raw entry from a market-data collaborator: a tenor label
// ("3M", "10Y"), a rate in percent, and an instrument tag.
type FeedRecord struct {
	Tenor      string  `json:"tenor"`
	RatePct    float64 `json:"rate"`
	Instrument string  `json:"instrument"` // "swap", "future" or "bond"
}

// Snapshot is one currency's full quote set as published by the feed.
type Snapshot struct {
	Currency string       `json:"currency"`
	Records  []FeedRecord `json:"records"`
}

// NormalizeSwapFutures converts a swap+futures record set (the major
// currency path) into instrument quotes sorted by the bootstrap. Futures
// records become guide quotes; anything tagged "bond" is rejected since the
// bond path has its own normalizer.
func NormalizeSwapFutures(records []FeedRecord) ([]curve.InstrumentQuote, error) {
	quotes := make([]curve.InstrumentQuote, 0, len(records))
	for _, rec := range records {
		var kind curve.SourceKind
		switch strings.ToLower(rec.Instrument) {
		case "swap":
			kind = curve.SourceSwap
		case "future":
			kind = curve.SourceFuture
		default:
			return nil, fmt.Errorf("NormalizeSwapFutures: instrument %q not accepted on the swap/futures path", rec.Instrument)
		}
		q, err := normalizeRecord(rec, kind)
		if err != nil {
			return nil, fmt.Errorf("NormalizeSwapFutures: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// NormalizeBondYields converts government-bond yields (the path for
// currencies without a liquid swap market) into instrument quotes.
func NormalizeBondYields(records []FeedRecord) ([]curve.InstrumentQuote, error) {
	quotes := make([]curve.InstrumentQuote, 0, len(records))
	for _, rec := range records {
		if inst := strings.ToLower(rec.Instrument); inst != "bond" && inst != "" {
			return nil, fmt.Errorf("NormalizeBondYields: instrument %q not accepted on the bond path", rec.Instrument)
		}
		q, err := normalizeRecord(rec, curve.SourceBond)
		if err != nil {
			return nil, fmt.Errorf("NormalizeBondYields: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// Normalize dispatches on the record set: bond-tagged sets go through the
// bond path, everything else through swap/futures.
func Normalize(records []FeedRecord) ([]curve.InstrumentQuote, error) {
	for _, rec := range records {
		if strings.EqualFold(rec.Instrument, "bond") {
			return NormalizeBondYields(records)
		}
	}
	return NormalizeSwapFutures(records)
}

func normalizeRecord(rec FeedRecord, kind curve.SourceKind) (curve.InstrumentQuote, error) {
	years, err := TenorToYears(rec.Tenor)
	if err != nil {
		return curve.InstrumentQuote{}, err
	}
	return curve.NewInstrumentQuote(years, rec.RatePct/100, kind)
}

// TenorToYears parses a tenor label: "1W", "3M", "10Y", or a bare number of
// years like "0.25".
func TenorToYears(tenor string) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(tenor))
	if s == "" {
		return 0, fmt.Errorf("TenorToYears: empty tenor")
	}

	unit := s[len(s)-1]
	if unit >= '0' && unit <= '9' {
		years, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("TenorToYears: %q: %w", tenor, err)
		}
		return years, nil
	}

	num, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil {
		return 0, fmt.Errorf("TenorToYears: %q: %w", tenor, err)
	}
	switch unit {
	case 'D':
		return num / 365, nil
	case 'W':
		return num * 7 / 365, nil
	case 'M':
		return num / 12, nil
	case 'Y':
		return num, nil
	default:
		return 0, fmt.Errorf("TenorToYears: %q: unknown unit %q", tenor, string(unit))
	}
}
