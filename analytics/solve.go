package analytics

import (
	"fmt"
	"math"
)

const (
	solveTolerance = 1e-12
	solveMaxIter   = 200
)

// findRoot locates a zero of f in [lo, hi] by bisection. The bracket is
// widened upwards (doubling hi) until f changes sign.
func findRoot(f func(float64) (float64, error), lo, hi float64) (float64, error) {
	flo, err := f(lo)
	if err != nil {
		return 0, err
	}
	if flo == 0 {
		return lo, nil
	}
	fhi, err := f(hi)
	if err != nil {
		return 0, err
	}
	for i := 0; sameSign(flo, fhi); i++ {
		if i == 20 {
			return 0, fmt.Errorf("no root bracketed in [%g, %g]", lo, hi)
		}
		hi *= 2
		if fhi, err = f(hi); err != nil {
			return 0, err
		}
	}
	for i := 0; i < solveMaxIter; i++ {
		mid := lo + (hi-lo)/2
		fmid, err := f(mid)
		if err != nil {
			return 0, err
		}
		if fmid == 0 || (hi-lo)/2 < solveTolerance {
			return mid, nil
		}
		if sameSign(fmid, flo) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2, nil
}

func sameSign(a, b float64) bool {
	return math.Signbit(a) == math.Signbit(b) && a != 0 && b != 0
}
