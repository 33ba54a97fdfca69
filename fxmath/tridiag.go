package fxmath

import "fmt"

// SolveTridiagonal solves the tridiagonal system A·x = d using the Thomas
// algorithm, where A has sub-diagonal a, diagonal b, and super-diagonal c.
// a[0] and c[n-1] are ignored. The inputs are not modified.
//
// The Thomas algorithm is stable for diagonally dominant systems, which is
// the case for the natural cubic spline system this package solves.
func SolveTridiagonal(a, b, c, d []float64) ([]float64, error) {
	n := len(b)
	if n == 0 || len(a) != n || len(c) != n || len(d) != n {
		return nil, fmt.Errorf("SolveTridiagonal: inconsistent lengths a=%d b=%d c=%d d=%d", len(a), len(b), len(c), len(d))
	}

	cp := make([]float64, n)
	dp := make([]float64, n)

	if b[0] == 0 {
		return nil, fmt.Errorf("SolveTridiagonal: zero pivot at row 0")
	}
	cp[0] = c[0] / b[0]
	dp[0] = d[0] / b[0]

	for i := 1; i < n; i++ {
		den := b[i] - a[i]*cp[i-1]
		if den == 0 {
			return nil, fmt.Errorf("SolveTridiagonal: zero pivot at row %d", i)
		}
		cp[i] = c[i] / den
		dp[i] = (d[i] - a[i]*dp[i-1]) / den
	}

	x := make([]float64, n)
	x[n-1] = dp[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dp[i] - cp[i]*x[i+1]
	}
	return x, nil
}
