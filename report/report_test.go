package report_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fxquant/fxlib/curve"
	"github.com/fxquant/fxlib/report"
)

func buildCurve(t *testing.T) *curve.Curve {
	t.Helper()
	var quotes []curve.InstrumentQuote
	for _, q := range []struct {
		tenor, rate float64
	}{{1, 0.045}, {2, 0.047}, {5, 0.050}} {
		iq, err := curve.NewInstrumentQuote(q.tenor, q.rate, curve.SourceSwap)
		if err != nil {
			t.Fatalf("NewInstrumentQuote: %v", err)
		}
		quotes = append(quotes, iq)
	}
	c, err := curve.Bootstrap("USD", quotes, curve.MethodQLLogLinear)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return c
}

func TestDiscountFactorTable_DefaultsToPillars(t *testing.T) {
	t.Parallel()

	rows := report.DiscountFactorTable(buildCurve(t), nil)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0].Tenor != 1 || rows[2].Tenor != 5 {
		t.Fatalf("tenor order wrong: %+v", rows)
	}
	if want := math.Exp(-0.045); math.Abs(rows[0].DiscountFactor-want) > 1e-10 {
		t.Fatalf("DF(1) = %.12f, want %.12f", rows[0].DiscountFactor, want)
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	rows := report.DiscountFactorTable(buildCurve(t), []float64{0.5, 1, 2})
	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 rows", len(lines))
	}
	if lines[0] != "tenor,discountFactor,zeroRate,forwardRate" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "1,") {
		t.Fatalf("second row = %q, want tenor 1", lines[2])
	}
}
