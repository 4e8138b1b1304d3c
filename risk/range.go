package risk

import "fmt"

// LinearRange returns n evenly spaced values from lo to hi inclusive.
func LinearRange(lo, hi float64, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("risk range: steps must be positive, got %d", n)
	}
	if hi < lo {
		return nil, fmt.Errorf("risk range: upper bound %.2f below lower bound %.2f", hi, lo)
	}
	if n == 1 {
		return []float64{lo}, nil
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out, nil
}

// CapitalFractionRange spaces n candidates from lo up to fraction of capital,
// e.g. CapitalFractionRange(10, 5000, 0.1, 50) scans 10..500.
func CapitalFractionRange(lo, capital, fraction float64, n int) ([]float64, error) {
	if lo <= 0 {
		return nil, fmt.Errorf("risk range: lower bound must be positive, got %.2f", lo)
	}
	if fraction <= 0 || fraction > 1 {
		return nil, fmt.Errorf("risk range: fraction must be in (0,1], got %.2f", fraction)
	}
	return LinearRange(lo, capital*fraction, n)
}
