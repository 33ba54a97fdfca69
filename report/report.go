// Package report renders bootstrapped curves as tabular discount-factor
// reports for export to delimited text.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fxquant/fxlib/curve"
)

// Row is one line of a discount-factor report.
type Row struct {
	Tenor          float64
	DiscountFactor float64
	ZeroRate       float64
	ForwardRate    float64
}

// DiscountFactorTable reads the curve at the given tenors. With no tenors
// supplied the curve's own pillar tenors are used.
func DiscountFactorTable(c *curve.Curve, tenors []float64) []Row {
	if len(tenors) == 0 {
		for _, p := range c.Pillars() {
			tenors = append(tenors, p.Tenor)
		}
	}
	rows := make([]Row, 0, len(tenors))
	for _, t := range tenors {
		rows = append(rows, Row{
			Tenor:          t,
			DiscountFactor: c.DF(t),
			ZeroRate:       c.ZeroRate(t),
			ForwardRate:    c.ForwardRate(t),
		})
	}
	return rows
}

// WriteCSV serializes rows with the header
// tenor,discountFactor,zeroRate,forwardRate.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"tenor", "discountFactor", "zeroRate", "forwardRate"}); err != nil {
		return fmt.Errorf("WriteCSV: header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatFloat(r.Tenor, 'f', -1, 64),
			strconv.FormatFloat(r.DiscountFactor, 'f', 10, 64),
			strconv.FormatFloat(r.ZeroRate, 'f', 10, 64),
			strconv.FormatFloat(r.ForwardRate, 'f', 10, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("WriteCSV: row %v: %w", r.Tenor, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
