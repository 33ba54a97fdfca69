package fxmath_test

import (
	"math"
	"testing"

	"github.com/fxquant/fxlib/fxmath"
)

func TestNormCDF_ReferenceValues(t *testing.T) {
	t.Parallel()

	// Abramowitz & Stegun table values.
	cases := []struct {
		x    float64
		want float64
	}{
		{0.0, 0.5},
		{1.0, 0.8413447460685429},
		{-1.0, 0.15865525393145707},
		{1.96, 0.9750021048517795},
		{-3.0, 0.0013498980316300933},
	}
	for _, c := range cases {
		got := fxmath.NormCDF(c.x)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("NormCDF(%v) = %.15f, want %.15f", c.x, got, c.want)
		}
	}
}

func TestNormPDF_SymmetryAndPeak(t *testing.T) {
	t.Parallel()

	if got, want := fxmath.NormPDF(0), 1.0/math.Sqrt(2*math.Pi); math.Abs(got-want) > 1e-15 {
		t.Fatalf("NormPDF(0) = %.15f, want %.15f", got, want)
	}
	if a, b := fxmath.NormPDF(1.3), fxmath.NormPDF(-1.3); math.Abs(a-b) > 1e-15 {
		t.Fatalf("NormPDF not symmetric: %.15f vs %.15f", a, b)
	}
}

func TestSolveTridiagonal(t *testing.T) {
	t.Parallel()

	// 3x3 system with known solution x = (1, 2, 3):
	// | 2 1 0 |   |1|   | 4|
	// | 1 3 1 | x |2| = |10|
	// | 0 1 2 |   |3|   | 8|
	a := []float64{0, 1, 1}
	b := []float64{2, 3, 2}
	c := []float64{1, 1, 0}
	d := []float64{4, 10, 8}

	x, err := fxmath.SolveTridiagonal(a, b, c, d)
	if err != nil {
		t.Fatalf("SolveTridiagonal error: %v", err)
	}
	want := []float64{1, 2, 3}
	for i := range want {
		if math.Abs(x[i]-want[i]) > 1e-12 {
			t.Fatalf("x[%d] = %.12f, want %.12f", i, x[i], want[i])
		}
	}
}

func TestSolveTridiagonal_LengthMismatch(t *testing.T) {
	t.Parallel()

	if _, err := fxmath.SolveTridiagonal([]float64{0}, []float64{1, 2}, []float64{0, 0}, []float64{1, 1}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestRoundTo(t *testing.T) {
	t.Parallel()

	if got := fxmath.RoundTo(0.123456789, 4); got != 0.1235 {
		t.Fatalf("RoundTo = %v, want 0.1235", got)
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := fxmath.Clamp(-0.5, 0, 1); got != 0 {
		t.Fatalf("Clamp below = %v", got)
	}
	if got := fxmath.Clamp(1.5, 0, 1); got != 1 {
		t.Fatalf("Clamp above = %v", got)
	}
	if got := fxmath.Clamp(0.3, 0, 1); got != 0.3 {
		t.Fatalf("Clamp inside = %v", got)
	}
}
